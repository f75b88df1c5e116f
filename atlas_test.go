package meshopt

import (
	"context"
	"strings"
	"testing"

	"github.com/flywave/go3d/vec2"
)

// TestAtlasSide 尺寸取面积加余量后的2的幂
func TestAtlasSide(t *testing.T) {
	tests := []struct {
		texs []*Texture
		want int
	}{
		{[]*Texture{makeRawTexture(1, "a", 2, 2), makeRawTexture(2, "b", 2, 2)}, 4},
		{[]*Texture{makeRawTexture(1, "a", 64, 64), makeRawTexture(2, "b", 64, 64)}, 128},
		{[]*Texture{makeRawTexture(1, "a", 16, 16)}, 32},
	}
	for _, tt := range tests {
		if got := atlasSide(tt.texs); got != tt.want {
			t.Errorf("atlasSide(%d textures) = %d, want %d", len(tt.texs), got, tt.want)
		}
	}
}

// TestPackTextureAtlas 区域互不重叠且都落在图集内
func TestPackTextureAtlas(t *testing.T) {
	texs := []*Texture{
		makeRawTexture(1, "a", 2, 2),
		makeRawTexture(2, "b", 2, 2),
		makeRawTexture(3, "c", 2, 2),
	}
	atlas, warns, err := PackTextureAtlas(context.Background(), texs, EmbeddedTextureLoader{})
	if err != nil {
		t.Fatalf("PackTextureAtlas failed: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if len(atlas.Regions) != 3 {
		t.Fatalf("regions = %d, want 3", len(atlas.Regions))
	}

	type rect struct{ x0, y0, x1, y1 int }
	var rects []rect
	for id, r := range atlas.Regions {
		if r.X < 0 || r.Y < 0 || r.X+r.Width > atlas.Size || r.Y+r.Height > atlas.Size {
			t.Errorf("region %d out of bounds: %+v (size %d)", id, r, atlas.Size)
		}
		rects = append(rects, rect{r.X, r.Y, r.X + r.Width, r.Y + r.Height})
	}
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			if a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1 {
				t.Errorf("regions overlap: %+v vs %+v", a, b)
			}
		}
	}

	if atlas.Texture == nil || atlas.Texture.Compressed != TEXTURE_COMPRESSED_ZLIB {
		t.Fatal("atlas texture missing or uncompressed")
	}
	img, err := DecodePixels(atlas.Texture)
	if err != nil {
		t.Fatalf("DecodePixels failed: %v", err)
	}
	// 区域左上角像素应来自对应源纹理
	r := atlas.Regions[2]
	off := (r.Y*atlas.Size + r.X) * 4
	if img.Pixels[off] != 2 {
		t.Errorf("blit content mismatch: pixel = %d, want 2", img.Pixels[off])
	}
}

// TestPackTextureAtlasOverflow 垂直溢出时保留已装箱区域并警告
func TestPackTextureAtlasOverflow(t *testing.T) {
	texs := []*Texture{
		makeRawTexture(1, "fits", 3, 3),
		makeRawTexture(2, "wide", 20, 1),
	}
	atlas, warns, err := PackTextureAtlas(context.Background(), texs, EmbeddedTextureLoader{})
	if err != nil {
		t.Fatalf("PackTextureAtlas failed: %v", err)
	}
	if len(atlas.Regions) != 1 {
		t.Fatalf("regions = %d, want only the first texture", len(atlas.Regions))
	}
	if _, ok := atlas.Regions[1]; !ok {
		t.Error("first texture should remain atlased")
	}
	found := false
	for _, w := range warns {
		if strings.Contains(w, "wide") {
			found = true
		}
	}
	if !found {
		t.Errorf("no overflow warning for 'wide': %v", warns)
	}
}

// TestRemapAtlasUVs UV按区域比例缩放平移并改指图集纹理
func TestRemapAtlasUVs(t *testing.T) {
	tex := makeRawTexture(5, "t", 2, 2)
	m := texturedQuad("q", 0, tex)
	atlas := &TextureAtlas{
		Size: 4,
		Regions: map[int32]AtlasRegion{
			5: {X: 2, Y: 0, Width: 2, Height: 2},
		},
		Texture: makeRawTexture(-1, "atlas", 4, 4),
	}
	if !RemapAtlasUVs(m, atlas, 5) {
		t.Fatal("RemapAtlasUVs returned false")
	}
	want := []vec2.T{{0.5, 0}, {1, 0}, {1, 0.5}, {0.5, 0.5}}
	for i := range want {
		if m.TexCoords[i] != want[i] {
			t.Errorf("uv[%d] = %v, want %v", i, m.TexCoords[i], want[i])
		}
	}
	tm, ok := m.Material.(*TextureMaterial)
	if !ok || tm.Texture != atlas.Texture {
		t.Error("material not redirected to atlas texture")
	}
}

// TestRemapAtlasUVsMiss 未入集的纹理不做改动
func TestRemapAtlasUVsMiss(t *testing.T) {
	tex := makeRawTexture(9, "t", 2, 2)
	m := texturedQuad("q", 0, tex)
	before := m.TexCoords[2]
	atlas := &TextureAtlas{Size: 4, Regions: map[int32]AtlasRegion{}}
	if RemapAtlasUVs(m, atlas, 9) {
		t.Fatal("RemapAtlasUVs should miss")
	}
	if m.TexCoords[2] != before {
		t.Error("uv modified on miss")
	}
}
