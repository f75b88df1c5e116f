package meshopt

import (
	"fmt"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// RemoveUnusedVertices 剔除未被索引引用的顶点并重映射索引，
// 保持原索引升序。非索引网格为空操作
func RemoveUnusedVertices(m *Mesh) int {
	if len(m.Indices) == 0 {
		return 0
	}
	used := make([]bool, len(m.Vertices))
	for _, idx := range m.Indices {
		used[idx] = true
	}

	remap := make([]uint32, len(m.Vertices))
	kept := 0
	for i := range m.Vertices {
		if !used[i] {
			continue
		}
		remap[i] = uint32(kept)
		m.Vertices[kept] = m.Vertices[i]
		if len(m.Normals) == len(used) {
			m.Normals[kept] = m.Normals[i]
		}
		if len(m.TexCoords) == len(used) {
			m.TexCoords[kept] = m.TexCoords[i]
		}
		if len(m.Tangents) == len(used) {
			m.Tangents[kept] = m.Tangents[i]
		}
		kept++
	}
	removed := len(m.Vertices) - kept

	m.Vertices = m.Vertices[:kept]
	if len(m.Normals) == len(used) {
		m.Normals = m.Normals[:kept]
	}
	if len(m.TexCoords) == len(used) {
		m.TexCoords = m.TexCoords[:kept]
	}
	if len(m.Tangents) == len(used) {
		m.Tangents = m.Tangents[:kept]
	}
	for i, idx := range m.Indices {
		m.Indices[i] = remap[idx]
	}
	return removed
}

type weldKey struct {
	pos     vec3.T
	normal  vec3.T
	uv      vec2.T
	tangent vec3.T
}

// WeldVertices 合并所有属性逐位相同的顶点。
// 容差焊接不在默认算法范围内，这是既定限制
func WeldVertices(m *Mesh) int {
	before := len(m.Vertices)
	if before == 0 {
		return 0
	}
	hasNormal := len(m.Normals) == before
	hasUV := len(m.TexCoords) == before
	hasTangent := len(m.Tangents) == before

	seen := make(map[weldKey]uint32, before)
	var vs []vec3.T
	var ns []vec3.T
	var ts []vec2.T
	var tg []vec3.T

	triCount := m.TriangleCount()
	newIndices := make([]uint32, 0, triCount*3)
	for i := 0; i < triCount; i++ {
		f := m.Triangle(i)
		for _, idx := range f {
			k := weldKey{pos: m.Vertices[idx]}
			if hasNormal {
				k.normal = m.Normals[idx]
			}
			if hasUV {
				k.uv = m.TexCoords[idx]
			}
			if hasTangent {
				k.tangent = m.Tangents[idx]
			}
			ni, ok := seen[k]
			if !ok {
				ni = uint32(len(vs))
				seen[k] = ni
				vs = append(vs, m.Vertices[idx])
				if hasNormal {
					ns = append(ns, m.Normals[idx])
				}
				if hasUV {
					ts = append(ts, m.TexCoords[idx])
				}
				if hasTangent {
					tg = append(tg, m.Tangents[idx])
				}
			}
			newIndices = append(newIndices, ni)
		}
	}

	m.Vertices = vs
	m.Normals = ns
	m.TexCoords = ts
	m.Tangents = tg
	m.Indices = newIndices
	return before - len(vs)
}

// ReducePolygons 固定步长抽取三角形，保证数量缩减但不考虑视觉质量。
// 这是确定性的数量收缩，不是边折叠简化
func ReducePolygons(m *Mesh, ratio float64) int {
	tris := m.TriangleCount()
	if tris == 0 || ratio <= 0 {
		return 0
	}
	if ratio >= 1 {
		ratio = 1
	}
	target := int(float64(tris) * (1 - ratio))
	if target >= tris {
		return 0
	}
	if target < 1 {
		target = 1
	}
	step := tris / target
	if step < 1 {
		step = 1
	}

	newIndices := make([]uint32, 0, (tris/step+1)*3)
	for i := 0; i < tris; i += step {
		f := m.Triangle(i)
		newIndices = append(newIndices, f[0], f[1], f[2])
	}
	m.Indices = newIndices
	return tris - len(newIndices)/3
}

// ClampUVs 将UV分量裁剪到[0,1]，有损，区别于seamless回绕
func ClampUVs(m *Mesh) {
	for i := range m.TexCoords {
		for c := 0; c < 2; c++ {
			if m.TexCoords[i][c] < 0 {
				m.TexCoords[i][c] = 0
			} else if m.TexCoords[i][c] > 1 {
				m.TexCoords[i][c] = 1
			}
		}
	}
}

// GenerateTangents 由相邻三角形的UV空间导数计算逐顶点切线
func GenerateTangents(m *Mesh) error {
	n := len(m.Vertices)
	if n == 0 || len(m.Normals) != n || len(m.TexCoords) != n {
		return fmt.Errorf("mesh %s: tangents need positions, normals and uvs: %w", m.Name, ErrMissingAttribute)
	}

	acc := make([]vec3.T, n)
	for i := 0; i < m.TriangleCount(); i++ {
		f := m.Triangle(i)
		p0, p1, p2 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		t0, t1, t2 := m.TexCoords[f[0]], m.TexCoords[f[1]], m.TexCoords[f[2]]

		e1 := vec3.Sub(&p1, &p0)
		e2 := vec3.Sub(&p2, &p0)
		du1 := t1[0] - t0[0]
		dv1 := t1[1] - t0[1]
		du2 := t2[0] - t0[0]
		dv2 := t2[1] - t0[1]

		r := du1*dv2 - du2*dv1
		if r == 0 {
			continue
		}
		inv := 1 / r
		tan := vec3.T{
			(dv2*e1[0] - dv1*e2[0]) * inv,
			(dv2*e1[1] - dv1*e2[1]) * inv,
			(dv2*e1[2] - dv1*e2[2]) * inv,
		}
		acc[f[0]].Add(&tan)
		acc[f[1]].Add(&tan)
		acc[f[2]].Add(&tan)
	}

	tangents := make([]vec3.T, n)
	for i := range acc {
		nm := m.Normals[i]
		d := nm[0]*acc[i][0] + nm[1]*acc[i][1] + nm[2]*acc[i][2]
		t := vec3.T{
			acc[i][0] - nm[0]*d,
			acc[i][1] - nm[1]*d,
			acc[i][2] - nm[2]*d,
		}
		if t.IsZero() {
			t = vec3.T{1, 0, 0}
		} else {
			t.Normalize()
		}
		tangents[i] = t
	}
	m.Tangents = tangents
	return nil
}
