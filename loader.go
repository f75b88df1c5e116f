package meshopt

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// TextureLoader 外部纹理加载能力，实现方可自由并发
type TextureLoader interface {
	Load(ctx context.Context, tex *Texture) (*TextureImage, error)
}

// EmbeddedTextureLoader 直接解码纹理自带的像素负载
type EmbeddedTextureLoader struct{}

func (EmbeddedTextureLoader) Load(ctx context.Context, tex *Texture) (*TextureImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(tex.Data) == 0 {
		return nil, fmt.Errorf("texture %s: no embedded payload", tex.Name)
	}
	return DecodePixels(tex)
}

// FileTextureLoader 按纹理名从目录解码图像文件
type FileTextureLoader struct {
	Dir string
}

func (l *FileTextureLoader) Load(ctx context.Context, tex *Texture) (*TextureImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := CreateTexture(filepath.Join(l.Dir, tex.Name), tex.Repeated)
	if err != nil {
		return nil, err
	}
	return DecodePixels(t)
}

// loadTextures 并发拉取各独立纹理，结果保持输入顺序
func loadTextures(ctx context.Context, loader TextureLoader, texs []*Texture) ([]*TextureImage, []error) {
	images := make([]*TextureImage, len(texs))
	errs := make([]error, len(texs))
	var wg sync.WaitGroup
	for i := range texs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			images[i], errs[i] = loader.Load(ctx, texs[i])
		}(i)
	}
	wg.Wait()
	return images, errs
}
