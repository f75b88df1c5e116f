package meshopt

import (
	"context"
	"fmt"
	"math"

	"github.com/xtgo/uuid"
)

// AtlasRegion 图集内的像素区域
type AtlasRegion struct {
	X      int
	Y      int
	Width  int
	Height int
}

// TextureAtlas 合并纹理的共享光栅及其区域映射
type TextureAtlas struct {
	Size    int
	Pixels  []byte
	Regions map[int32]AtlasRegion
	Texture *Texture
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// atlasSide 按总像素面积加20%装箱余量取下一个2的幂
func atlasSide(texs []*Texture) int {
	var area float64
	for _, t := range texs {
		area += float64(t.Size[0] * t.Size[1])
	}
	return nextPowerOfTwo(int(math.Ceil(math.Sqrt(area * 1.2))))
}

// PackTextureAtlas 按输入顺序行贪心摆放纹理。
// 垂直空间不足时停止装箱，余下纹理保持原样并记录warning
func PackTextureAtlas(ctx context.Context, texs []*Texture, loader TextureLoader) (*TextureAtlas, []string, error) {
	if len(texs) == 0 {
		return nil, nil, fmt.Errorf("no textures to pack")
	}
	size := atlasSide(texs)
	atlas := &TextureAtlas{
		Size:    size,
		Pixels:  make([]byte, size*size*4),
		Regions: make(map[int32]AtlasRegion, len(texs)),
	}

	images, errs := loadTextures(ctx, loader, texs)

	var warns []string
	curX, curY, rowH := 0, 0, 0
	for i, tex := range texs {
		if errs[i] != nil {
			warns = append(warns, fmt.Sprintf("texture %s: load failed, left unatlased: %v", tex.Name, errs[i]))
			continue
		}
		img := images[i]
		w, h := img.Width, img.Height

		if curX+w > size {
			curY += rowH
			curX = 0
			rowH = 0
		}
		if curY+h > size || w > size {
			warns = append(warns, fmt.Sprintf("%v: texture %s and %d follower(s) left unatlased",
				ErrAtlasOverflow, tex.Name, len(texs)-i-1))
			break
		}

		blit(atlas.Pixels, size, curX, curY, img)
		atlas.Regions[tex.Id] = AtlasRegion{X: curX, Y: curY, Width: w, Height: h}
		curX += w
		if h > rowH {
			rowH = h
		}
	}

	atlas.Texture = &Texture{
		Id:         -1,
		Name:       uuid.NewRandom().String() + "-atlas",
		Size:       [2]uint64{uint64(size), uint64(size)},
		Format:     TEXTURE_FORMAT_RGBA,
		Compressed: TEXTURE_COMPRESSED_ZLIB,
		Data:       CompressImage(atlas.Pixels),
		Repeated:   false,
	}
	return atlas, warns, nil
}

func blit(dst []byte, dstSize, x, y int, img *TextureImage) {
	for row := 0; row < img.Height; row++ {
		src := img.Pixels[row*img.Width*4 : (row+1)*img.Width*4]
		off := ((y+row)*dstSize + x) * 4
		copy(dst[off:off+img.Width*4], src)
	}
}

// RemapAtlasUVs 将网格UV重映射到图集局部空间并改指共享光栅。
// texID是网格材质在装箱前引用的纹理标识，未入集时不做改动。
// 多个网格共享同一材质时，材质替换是幂等的，UV重映射逐网格进行
func RemapAtlasUVs(m *Mesh, atlas *TextureAtlas, texID int32) bool {
	if m.Material == nil {
		return false
	}
	region, ok := atlas.Regions[texID]
	if !ok {
		return false
	}

	fs := float64(atlas.Size)
	sw := float64(region.Width) / fs
	sh := float64(region.Height) / fs
	ox := float64(region.X) / fs
	oy := float64(region.Y) / fs
	for i := range m.TexCoords {
		m.TexCoords[i][0] = float32(float64(m.TexCoords[i][0])*sw + ox)
		m.TexCoords[i][1] = float32(float64(m.TexCoords[i][1])*sh + oy)
	}
	m.Material = cloneWithTexture(m.Material, atlas.Texture)
	return true
}
