package meshopt

import (
	"fmt"
	"math"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// Mesh 单个待优化网格，三角形索引缓冲为平铺列表
type Mesh struct {
	Name      string
	Vertices  []vec3.T
	Normals   []vec3.T
	TexCoords []vec2.T
	Tangents  []vec3.T
	Indices   []uint32
	Material  MeshMaterial
	Mat       *dmat.T
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// Triangle 返回第i个三角形的顶点索引，非索引网格按隐式三角形列表处理
func (m *Mesh) Triangle(i int) [3]uint32 {
	if len(m.Indices) > 0 {
		return [3]uint32{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
	}
	return [3]uint32{uint32(i * 3), uint32(i*3 + 1), uint32(i*3 + 2)}
}

func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("mesh %s: empty position buffer: %w", m.Name, ErrMissingAttribute)
	}
	if len(m.Indices) > 0 {
		if len(m.Indices)%3 != 0 {
			return fmt.Errorf("mesh %s: index count %d not divisible by 3", m.Name, len(m.Indices))
		}
		for _, idx := range m.Indices {
			if int(idx) >= len(m.Vertices) {
				return fmt.Errorf("mesh %s: index %d out of range %d", m.Name, idx, len(m.Vertices))
			}
		}
	} else if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("mesh %s: vertex count %d not divisible by 3", m.Name, len(m.Vertices))
	}
	return nil
}

// Clone 深拷贝几何缓冲，原网格保持不变
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Name: m.Name, Material: m.Material}
	if len(m.Vertices) > 0 {
		c.Vertices = make([]vec3.T, len(m.Vertices))
		copy(c.Vertices, m.Vertices)
	}
	if len(m.Normals) > 0 {
		c.Normals = make([]vec3.T, len(m.Normals))
		copy(c.Normals, m.Normals)
	}
	if len(m.TexCoords) > 0 {
		c.TexCoords = make([]vec2.T, len(m.TexCoords))
		copy(c.TexCoords, m.TexCoords)
	}
	if len(m.Tangents) > 0 {
		c.Tangents = make([]vec3.T, len(m.Tangents))
		copy(c.Tangents, m.Tangents)
	}
	if len(m.Indices) > 0 {
		c.Indices = make([]uint32, len(m.Indices))
		copy(c.Indices, m.Indices)
	}
	if m.Mat != nil {
		mt := *m.Mat
		c.Mat = &mt
	}
	return c
}

func (m *Mesh) GetBoundbox() *[6]float64 {
	minX := math.MaxFloat64
	minY := math.MaxFloat64
	minZ := math.MaxFloat64
	maxX := -math.MaxFloat64
	maxY := -math.MaxFloat64
	maxZ := -math.MaxFloat64
	for i := range m.Vertices {
		minX = math.Min(minX, float64(m.Vertices[i][0]))
		minY = math.Min(minY, float64(m.Vertices[i][1]))
		minZ = math.Min(minZ, float64(m.Vertices[i][2]))

		maxX = math.Max(maxX, float64(m.Vertices[i][0]))
		maxY = math.Max(maxY, float64(m.Vertices[i][1]))
		maxZ = math.Max(maxZ, float64(m.Vertices[i][2]))
	}
	return &[6]float64{minX, minY, minZ, maxX, maxY, maxZ}
}

func (m *Mesh) BoundBox() dvec3.Box {
	if len(m.Vertices) == 0 {
		return dvec3.Box{}
	}
	bx := m.GetBoundbox()
	return dvec3.Box{
		Min: dvec3.T{bx[0], bx[1], bx[2]},
		Max: dvec3.T{bx[3], bx[4], bx[5]},
	}
}

// computeVertexNormals 面法线按面积加权累加到顶点
func computeVertexNormals(m *Mesh) []vec3.T {
	normals := make([]vec3.T, len(m.Vertices))
	for i := 0; i < m.TriangleCount(); i++ {
		f := m.Triangle(i)
		pt1 := m.Vertices[f[0]]
		pt2 := m.Vertices[f[1]]
		pt3 := m.Vertices[f[2]]

		sub1 := vec3.Sub(&pt3, &pt2)
		sub2 := vec3.Sub(&pt1, &pt2)

		cro := vec3.Cross(&sub1, &sub2)
		l := cro.Length()
		if l == 0 {
			continue
		}
		weightedNormal := cro.Scale(1 / l)

		normals[f[0]].Add(weightedNormal)
		normals[f[1]].Add(weightedNormal)
		normals[f[2]].Add(weightedNormal)
	}

	for i := range normals {
		if !normals[i].IsZero() {
			normals[i].Normalize()
		}
	}
	return normals
}

// RecomputeNormal 丢弃现有法线并重新计算
func (m *Mesh) RecomputeNormal() {
	m.Normals = computeVertexNormals(m)
}

// SurfaceArea 三角形面积之和
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for i := 0; i < m.TriangleCount(); i++ {
		f := m.Triangle(i)
		pt1 := m.Vertices[f[0]]
		pt2 := m.Vertices[f[1]]
		pt3 := m.Vertices[f[2]]
		sub1 := vec3.Sub(&pt2, &pt1)
		sub2 := vec3.Sub(&pt3, &pt1)
		cro := vec3.Cross(&sub1, &sub2)
		area += float64(cro.Length()) * 0.5
	}
	return area
}

// transformPoint 应用列主序4x4变换
func transformPoint(m *dmat.T, v *vec3.T) vec3.T {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return vec3.T{
		float32(m[0][0]*x + m[1][0]*y + m[2][0]*z + m[3][0]),
		float32(m[0][1]*x + m[1][1]*y + m[2][1]*z + m[3][1]),
		float32(m[0][2]*x + m[1][2]*y + m[2][2]*z + m[3][2]),
	}
}

// normalMatrix 左上3x3的逆转置，行主序
func normalMatrix(m *dmat.T) [9]float64 {
	a := [9]float64{
		m[0][0], m[1][0], m[2][0],
		m[0][1], m[1][1], m[2][1],
		m[0][2], m[1][2], m[2][2],
	}
	det := a[0]*(a[4]*a[8]-a[5]*a[7]) - a[1]*(a[3]*a[8]-a[5]*a[6]) + a[2]*(a[3]*a[7]-a[4]*a[6])
	if det == 0 {
		det = 1
	}
	inv := 1 / det
	return [9]float64{
		(a[4]*a[8] - a[5]*a[7]) * inv, (a[5]*a[6] - a[3]*a[8]) * inv, (a[3]*a[7] - a[4]*a[6]) * inv,
		(a[2]*a[7] - a[1]*a[8]) * inv, (a[0]*a[8] - a[2]*a[6]) * inv, (a[1]*a[6] - a[0]*a[7]) * inv,
		(a[1]*a[5] - a[2]*a[4]) * inv, (a[2]*a[3] - a[0]*a[5]) * inv, (a[0]*a[4] - a[1]*a[3]) * inv,
	}
}

func transformDir(nm *[9]float64, v *vec3.T) vec3.T {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return vec3.T{
		float32(nm[0]*x + nm[1]*y + nm[2]*z),
		float32(nm[3]*x + nm[4]*y + nm[5]*z),
		float32(nm[6]*x + nm[7]*y + nm[8]*z),
	}
}

// BakeTransform 将世界变换烘焙到顶点和法线中，之后Mat置空
func (m *Mesh) BakeTransform() {
	if m.Mat == nil {
		return
	}
	for i := range m.Vertices {
		m.Vertices[i] = transformPoint(m.Mat, &m.Vertices[i])
	}
	if len(m.Normals) > 0 {
		nm := normalMatrix(m.Mat)
		for i := range m.Normals {
			m.Normals[i] = transformDir(&nm, &m.Normals[i])
			if !m.Normals[i].IsZero() {
				m.Normals[i].Normalize()
			}
		}
	}
	m.Mat = nil
}
