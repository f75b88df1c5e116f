package meshopt

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Texture 纹理结构体，像素负载可按zlib压缩
type Texture struct {
	Id         int32     `json:"id"`
	Name       string    `json:"name"`
	Size       [2]uint64 `json:"size"`
	Format     uint16    `json:"format"`
	Type       uint16    `json:"type"`
	Compressed uint16    `json:"compressed"`
	Data       []byte    `json:"-"`
	Repeated   bool      `json:"repeated"`
}

// TextureImage 解码后的RGBA像素
type TextureImage struct {
	Width  int
	Height int
	Pixels []byte
}

func CompressImage(buf []byte) []byte {
	var bt []byte
	bf := bytes.NewBuffer(bt)
	w := zlib.NewWriter(bf)
	w.Write(buf)
	w.Close()
	return bf.Bytes()
}

func DecompressImage(src []byte) ([]byte, error) {
	bf := bytes.NewBuffer(src)
	r, er := zlib.NewReader(bf)
	if er != nil {
		return nil, er
	}
	return io.ReadAll(r)
}

func pixelStride(format uint16) int {
	switch format {
	case TEXTURE_FORMAT_RGBA:
		return 4
	case TEXTURE_FORMAT_RGB:
		return 3
	case TEXTURE_FORMAT_R:
		return 1
	default:
		return 0
	}
}

// DecodePixels 将纹理负载展开为RGBA
func DecodePixels(tex *Texture) (*TextureImage, error) {
	w := int(tex.Size[0])
	h := int(tex.Size[1])
	sz := pixelStride(tex.Format)
	if sz == 0 {
		return nil, fmt.Errorf("texture %s: unsupported format %d", tex.Name, tex.Format)
	}
	data := tex.Data
	var e error
	if tex.Compressed == TEXTURE_COMPRESSED_ZLIB {
		data, e = DecompressImage(data)
		if e != nil && e.Error() != "EOF" {
			return nil, e
		}
	}
	if len(data) < w*h*sz {
		return nil, fmt.Errorf("texture %s: payload %d smaller than %dx%dx%d", tex.Name, len(data), w, h, sz)
	}

	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		p := i * sz
		switch sz {
		case 4:
			copy(out[i*4:], data[p:p+4])
		case 3:
			out[i*4] = data[p]
			out[i*4+1] = data[p+1]
			out[i*4+2] = data[p+2]
			out[i*4+3] = 255
		case 1:
			out[i*4] = data[p]
			out[i*4+1] = data[p]
			out[i*4+2] = data[p]
			out[i*4+3] = 255
		}
	}
	return &TextureImage{Width: w, Height: h, Pixels: out}, nil
}

func LoadTexture(tex *Texture, flipY bool) (image.Image, error) {
	ti, err := DecodePixels(tex)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, ti.Width, ti.Height))
	for i := 0; i < ti.Height; i++ {
		y := i
		if flipY {
			y = ti.Height - i - 1
		}
		for j := 0; j < ti.Width; j++ {
			p := (i*ti.Width + j) * 4
			img.Set(j, y, color.NRGBA{R: ti.Pixels[p], G: ti.Pixels[p+1], B: ti.Pixels[p+2], A: ti.Pixels[p+3]})
		}
	}
	return img, nil
}

func CreateTexture(name string, repet bool) (*Texture, error) {
	reader, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	_, format, err := image.DecodeConfig(reader)
	if err != nil {
		return nil, err
	}
	reader.Seek(0, io.SeekStart)
	var img image.Image
	switch format {
	case "jpeg", "jpg":
		img, err = jpeg.Decode(reader)
	case "png":
		img, err = png.Decode(reader)
	case "gif":
		img, err = gif.Decode(reader)
	case "bmp":
		img, err = bmp.Decode(reader)
	case "tif", "tiff":
		img, err = tiff.Decode(reader)
	case "tga":
		img, err = tga.Decode(reader)
	default:
		return nil, errors.New("unknow format")
	}
	if err != nil {
		return nil, err
	}
	return CreateTextureFromImage(img, name, repet)
}

func CreateTextureFromImage(img image.Image, name string, repet bool) (*Texture, error) {
	bd := img.Bounds()
	buf := make([]byte, 0, bd.Dx()*bd.Dy()*4)

	for y := 0; y < bd.Dy(); y++ {
		for x := 0; x < bd.Dx(); x++ {
			cl := img.At(x, y)
			r, g, b, a := color.RGBAModel.Convert(cl).RGBA()
			buf = append(buf, byte(r&0xff), byte(g&0xff), byte(b&0xff), byte(a&0xff))
		}
	}
	t := &Texture{}
	_, fn := filepath.Split(name)
	t.Name = fn
	t.Format = TEXTURE_FORMAT_RGBA
	t.Size = [2]uint64{uint64(bd.Dx()), uint64(bd.Dy())}
	t.Compressed = TEXTURE_COMPRESSED_ZLIB
	t.Data = CompressImage(buf)
	t.Repeated = repet
	return t, nil
}
