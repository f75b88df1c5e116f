package meshopt

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"io"

	"github.com/qmuntal/gltf"
)

const GLTF_VERSION = "2.0"

// BuildGltfDocument 将优化后的网格集合构建为glTF文档，
// 材质按标识去重，纹理以png内嵌
func BuildGltfDocument(meshes []*Mesh, resolver MaterialResolver) (*gltf.Document, error) {
	if resolver == nil {
		resolver = HashMaterialResolver{}
	}
	doc := CreateDoc()
	mtlIndex := make(map[string]uint32)
	for _, m := range meshes {
		if err := buildGltfMesh(doc, m, resolver, mtlIndex); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func CreateDoc() *gltf.Document {
	doc := &gltf.Document{}
	doc.Asset.Version = GLTF_VERSION
	srcIndex := uint32(0)
	doc.Scene = &srcIndex
	doc.Scenes = append(doc.Scenes, &gltf.Scene{})
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	return doc
}

func buildGltfMesh(doc *gltf.Document, m *Mesh, resolver MaterialResolver, mtlIndex map[string]uint32) error {
	buffer := doc.Buffers[0]
	var bt []byte
	buf := bytes.NewBuffer(bt)
	startLen := buffer.ByteLength

	indices := m.Indices
	if len(indices) == 0 {
		indices = make([]uint32, len(m.Vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	indexView := &gltf.BufferView{Buffer: 0, ByteOffset: startLen}
	binary.Write(buf, binary.LittleEndian, indices)
	indexView.ByteLength = uint32(buf.Len())
	bvIndex := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, indexView)

	posView := &gltf.BufferView{Buffer: 0, ByteOffset: uint32(buf.Len()) + startLen}
	binary.Write(buf, binary.LittleEndian, m.Vertices)
	posView.ByteLength = uint32(buf.Len()) + startLen - posView.ByteOffset
	bvPos := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, posView)

	bvTex := uint32(0)
	if len(m.TexCoords) > 0 {
		texView := &gltf.BufferView{Buffer: 0, ByteOffset: uint32(buf.Len()) + startLen}
		binary.Write(buf, binary.LittleEndian, m.TexCoords)
		texView.ByteLength = uint32(buf.Len()) + startLen - texView.ByteOffset
		bvTex = uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, texView)
	}

	bvNl := uint32(0)
	if len(m.Normals) > 0 {
		nlView := &gltf.BufferView{Buffer: 0, ByteOffset: uint32(buf.Len()) + startLen}
		binary.Write(buf, binary.LittleEndian, m.Normals)
		nlView.ByteLength = uint32(buf.Len()) + startLen - nlView.ByteOffset
		bvNl = uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, nlView)
	}

	buffer.ByteLength += uint32(buf.Len())
	buffer.Data = append(buffer.Data, buf.Bytes()...)

	ps := &gltf.Primitive{Mode: gltf.PrimitiveTriangles, Attributes: make(gltf.Attribute)}

	indexAcc := &gltf.Accessor{
		ComponentType: gltf.ComponentUint,
		Count:         uint32(len(indices)),
		BufferView:    &bvIndex,
	}
	idxAcc := uint32(len(doc.Accessors))
	ps.Indices = &idxAcc
	doc.Accessors = append(doc.Accessors, indexAcc)

	box := m.GetBoundbox()
	posAcc := &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(m.Vertices)),
		BufferView:    &bvPos,
		Min:           []float32{float32(box[0]), float32(box[1]), float32(box[2])},
		Max:           []float32{float32(box[3]), float32(box[4]), float32(box[5])},
	}
	ps.Attributes["POSITION"] = uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, posAcc)

	if len(m.TexCoords) > 0 {
		texAcc := &gltf.Accessor{
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec2,
			Count:         uint32(len(m.TexCoords)),
			BufferView:    &bvTex,
		}
		ps.Attributes["TEXCOORD_0"] = uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, texAcc)
	}
	if len(m.Normals) > 0 {
		nlAcc := &gltf.Accessor{
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec3,
			Count:         uint32(len(m.Normals)),
			BufferView:    &bvNl,
		}
		ps.Attributes["NORMAL"] = uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, nlAcc)
	}

	if m.Material != nil {
		key := resolver.Identity(m.Material)
		id, ok := mtlIndex[key]
		if !ok {
			var err error
			id, err = fillGltfMaterial(doc, m.Material)
			if err != nil {
				return err
			}
			mtlIndex[key] = id
		}
		ps.Material = &id
	}

	mesh := &gltf.Mesh{Name: m.Name, Primitives: []*gltf.Primitive{ps}}
	meshID := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, mesh)

	nd := &gltf.Node{Mesh: &meshID}
	if m.Mat != nil {
		ay := *m.Mat.Array()
		for i := 0; i < 16; i++ {
			nd.Matrix[i] = float32(ay[i])
		}
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, nd)
	return nil
}

func fillGltfMaterial(doc *gltf.Document, mtl MeshMaterial) (uint32, error) {
	buffer := doc.Buffers[0]
	gm := &gltf.Material{DoubleSided: true, AlphaMode: gltf.AlphaMask}
	gm.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 1, 1, 1}}

	c := mtl.GetColor()
	cl := &[4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, 1}
	e := mtl.GetEmissive()
	gm.EmissiveFactor[0] = float32(e[0]) / 255
	gm.EmissiveFactor[1] = float32(e[1]) / 255
	gm.EmissiveFactor[2] = float32(e[2]) / 255
	if pm, ok := mtl.(*PbrMaterial); ok {
		mc := pm.Metallic
		gm.PBRMetallicRoughness.MetallicFactor = &mc
		rs := pm.Roughness
		gm.PBRMetallicRoughness.RoughnessFactor = &rs
	}

	if tex := mtl.GetTexture(); tex != nil {
		img, err := LoadTexture(tex, true)
		if err != nil {
			return 0, err
		}
		var bt []byte
		buf := bytes.NewBuffer(bt)
		if err := png.Encode(buf, img); err != nil {
			return 0, err
		}

		imgView := &gltf.BufferView{Buffer: 0, ByteOffset: buffer.ByteLength, ByteLength: uint32(buf.Len())}
		buffer.ByteLength += uint32(buf.Len())
		buffer.Data = append(buffer.Data, buf.Bytes()...)
		imgIndex := uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, imgView)

		gimg := &gltf.Image{MimeType: "image/png", BufferView: &imgIndex}
		imCount := uint32(len(doc.Images))
		doc.Images = append(doc.Images, gimg)

		spCount := uint32(len(doc.Samplers))
		doc.Samplers = append(doc.Samplers, &gltf.Sampler{WrapS: gltf.WrapRepeat, WrapT: gltf.WrapRepeat})

		texIndex := uint32(len(doc.Textures))
		doc.Textures = append(doc.Textures, &gltf.Texture{Sampler: &spCount, Source: &imCount})
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: texIndex}
	} else {
		gm.PBRMetallicRoughness.BaseColorFactor = cl
	}

	id := uint32(len(doc.Materials))
	doc.Materials = append(doc.Materials, gm)
	return id, nil
}

type calcSizeWriter struct {
	writer io.Writer
	Size   int
}

func (w *calcSizeWriter) Write(p []byte) (n int, err error) {
	si := len(p)
	w.writer.Write(p)
	w.Size += int(si)
	return si, nil
}

func (w *calcSizeWriter) Bytes() []byte {
	return w.writer.(*bytes.Buffer).Bytes()
}

func newSizeWriter() calcSizeWriter {
	wt := bytes.NewBuffer([]byte{})
	return calcSizeWriter{Size: int(0), writer: wt}
}

func calcPadding(offset, paddingUnit int) int {
	padding := offset % paddingUnit
	if padding != 0 {
		padding = paddingUnit - padding
	}
	return padding
}

// GltfBinary 编码为glb二进制并按单位对齐填充
func GltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	w := newSizeWriter()
	enc := gltf.NewEncoder(w.writer)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	padding := calcPadding(w.Size, paddingUnit)
	if padding == 0 {
		return w.Bytes(), nil
	}
	pad := make([]byte, padding)
	for i := range pad {
		pad[i] = 0x20
	}
	w.Write(pad)
	return w.Bytes(), nil
}
