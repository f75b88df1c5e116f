package meshopt

import (
	"fmt"
)

// MergeMeshesByMaterial 按材质标识分组并将每组几何拼接为单个索引网格。
// 无材质的网格各自成组，单成员组原样通过。
// 成员的世界变换在拼接前烘焙，属性缓冲仅在全部成员具备时保留
func MergeMeshesByMaterial(meshes []*Mesh, resolver MaterialResolver) ([]*Mesh, []string) {
	groups := make(map[string][]*Mesh)
	var order []string
	for i, m := range meshes {
		key := ""
		if m.Material != nil {
			key = resolver.Identity(m.Material)
		}
		if key == "" {
			key = fmt.Sprintf("__solo_%d", i)
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}

	var warns []string
	out := make([]*Mesh, 0, len(order))
	for _, key := range order {
		members := groups[key]
		if len(members) == 1 {
			out = append(out, members[0])
			continue
		}
		merged, w := mergeGroup(key, members)
		warns = append(warns, w...)
		out = append(out, merged)
	}
	return out, warns
}

func mergeGroup(key string, members []*Mesh) (*Mesh, []string) {
	allNormals := true
	allUVs := true
	allTangents := true
	for _, m := range members {
		if len(m.Normals) != len(m.Vertices) {
			allNormals = false
		}
		if len(m.TexCoords) != len(m.Vertices) {
			allUVs = false
		}
		if len(m.Tangents) != len(m.Vertices) {
			allTangents = false
		}
	}

	var warns []string
	merged := &Mesh{
		Name:     "merged-" + members[0].Name,
		Material: members[0].Material,
	}
	var offset uint32
	for _, m := range members {
		m.BakeTransform()
		merged.Vertices = append(merged.Vertices, m.Vertices...)
		if allNormals {
			merged.Normals = append(merged.Normals, m.Normals...)
		}
		if allUVs {
			merged.TexCoords = append(merged.TexCoords, m.TexCoords...)
		}
		if allTangents {
			merged.Tangents = append(merged.Tangents, m.Tangents...)
		}
		for i := 0; i < m.TriangleCount(); i++ {
			f := m.Triangle(i)
			merged.Indices = append(merged.Indices, f[0]+offset, f[1]+offset, f[2]+offset)
		}
		offset += uint32(len(m.Vertices))
	}
	if !allNormals {
		hasAny := false
		for _, m := range members {
			if len(m.Normals) > 0 {
				hasAny = true
			}
		}
		if hasAny {
			warns = append(warns, fmt.Sprintf("merge group %s: normals dropped, not present on every member", key))
		}
	}
	return merged, warns
}
