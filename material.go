package meshopt

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/flywave/go3d/vec3"
)

// MeshMaterial 接口定义了材质的基本方法
type MeshMaterial interface {
	HasTexture() bool
	GetTexture() *Texture
	GetColor() [3]byte
	GetEmissive() [3]byte
}

// BaseMaterial 基础材质
type BaseMaterial struct {
	Color        [3]byte `json:"color"`
	Transparency float32 `json:"transparency"`
}

func (m *BaseMaterial) HasTexture() bool {
	return false
}

func (m *BaseMaterial) GetEmissive() [3]byte {
	return [3]byte{0, 0, 0}
}

func (m *BaseMaterial) GetTexture() *Texture {
	return nil
}

func (m *BaseMaterial) GetColor() [3]byte {
	return m.Color
}

// TextureMaterial 纹理材质
type TextureMaterial struct {
	BaseMaterial
	Texture *Texture `json:"texture,omitempty"`
	Normal  *Texture `json:"normal,omitempty"`
}

func (m *TextureMaterial) HasTexture() bool {
	return m.Texture != nil
}

func (m *TextureMaterial) GetTexture() *Texture {
	return m.Texture
}

func (m *TextureMaterial) HasNormalTexture() bool {
	return m.Normal != nil
}

func (m *TextureMaterial) GetNormalTexture() *Texture {
	return m.Normal
}

type PbrMaterial struct {
	TextureMaterial
	Emissive  [3]byte `json:"emissive"`
	Metallic  float32 `json:"metallic"`
	Roughness float32 `json:"roughness"`

	Reflectance      float32 `json:"reflectance"`
	AmbientOcclusion float32 `json:"ambientOcclusion"`
	Anisotropy       float32 `json:"anisotropy"`
	AnisotropyDir    vec3.T  `json:"anisotropyDirection"`
}

func (m *PbrMaterial) GetEmissive() [3]byte {
	return m.Emissive
}

type LambertMaterial struct {
	TextureMaterial
	Ambient  [3]byte `json:"ambient"`
	Diffuse  [3]byte `json:"diffuse"`
	Emissive [3]byte `json:"emissive"`
}

func (m *LambertMaterial) GetEmissive() [3]byte {
	return m.Emissive
}

type PhongMaterial struct {
	LambertMaterial
	Specular    [3]byte `json:"specular"`
	Shininess   float32 `json:"shininess"`
	Specularity float32 `json:"specularity"`
}

// MaterialResolver 材质标识解析，合并阶段按标识分组
type MaterialResolver interface {
	Identity(mtl MeshMaterial) string
}

// HashMaterialResolver 默认解析器，按材质内容哈希
type HashMaterialResolver struct{}

func (HashMaterialResolver) Identity(mtl MeshMaterial) string {
	if mtl == nil {
		return ""
	}
	h := fnv.New64a()
	c := mtl.GetColor()
	h.Write(c[:])
	e := mtl.GetEmissive()
	h.Write(e[:])
	if tex := mtl.GetTexture(); tex != nil {
		binary.Write(h, binary.LittleEndian, tex.Id)
		h.Write([]byte(tex.Name))
	}
	return fmt.Sprintf("%T:%016x", mtl, h.Sum64())
}

// materialTextures 材质直接引用的全部纹理
func materialTextures(mtl MeshMaterial) []*Texture {
	var texs []*Texture
	if mtl == nil {
		return nil
	}
	if tex := mtl.GetTexture(); tex != nil {
		texs = append(texs, tex)
	}
	switch ml := mtl.(type) {
	case *TextureMaterial:
		if ml.Normal != nil {
			texs = append(texs, ml.Normal)
		}
	case *PbrMaterial:
		if ml.Normal != nil {
			texs = append(texs, ml.Normal)
		}
	case *LambertMaterial:
		if ml.Normal != nil {
			texs = append(texs, ml.Normal)
		}
	case *PhongMaterial:
		if ml.Normal != nil {
			texs = append(texs, ml.Normal)
		}
	}
	return texs
}

// cloneWithTexture 返回替换了基础纹理引用的材质副本，
// 原材质可能仍被外部场景共享，不能就地改写
func cloneWithTexture(mtl MeshMaterial, tex *Texture) MeshMaterial {
	switch ml := mtl.(type) {
	case *TextureMaterial:
		c := *ml
		c.Texture = tex
		return &c
	case *PbrMaterial:
		c := *ml
		c.Texture = tex
		return &c
	case *LambertMaterial:
		c := *ml
		c.Texture = tex
		return &c
	case *PhongMaterial:
		c := *ml
		c.Texture = tex
		return &c
	default:
		return mtl
	}
}
