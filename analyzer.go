package meshopt

import (
	"fmt"
	"math"
)

const (
	complexityVertexCap = 1000
	holeIndexThreshold  = 1000
)

// GeometryAnalysis 单个网格的结构分析快照，计算后不再修改
type GeometryAnalysis struct {
	Type        int
	Width       float64
	Height      float64
	Depth       float64
	Orientation int
	Complexity  float64
	// HasHolesHeuristic 粗略启发式(index_count>1000)，并非拓扑分析
	HasHolesHeuristic bool
	SurfaceArea       float64
	Recommended       int
}

// AnalyzeGeometry 由包围盒和顶点密度分类网格并推荐UV投影方法
func AnalyzeGeometry(m *Mesh) (*GeometryAnalysis, error) {
	if len(m.Vertices) == 0 {
		return nil, fmt.Errorf("mesh %s: empty position buffer: %w", m.Name, ErrMissingAttribute)
	}
	box := m.BoundBox()
	size := [3]float64{
		box.Max[0] - box.Min[0],
		box.Max[1] - box.Min[1],
		box.Max[2] - box.Min[2],
	}

	ga := &GeometryAnalysis{
		Width:       size[0],
		Height:      size[1],
		Depth:       size[2],
		SurfaceArea: m.SurfaceArea(),
	}
	ga.Complexity = math.Min(float64(len(m.Vertices))/complexityVertexCap, 1)
	ga.HasHolesHeuristic = len(m.Indices) > holeIndexThreshold

	ga.Type, ga.Orientation = classify(size, box.Min[1])
	ga.Recommended = recommendMethod(ga)
	return ga, nil
}

// classify 分类规则按序匹配，首个命中生效
func classify(size [3]float64, minY float64) (int, int) {
	thin := 0
	for i := 1; i < 3; i++ {
		if size[i] < size[thin] {
			thin = i
		}
	}
	a, b := (thin+1)%3, (thin+2)%3

	// 规则1: 最薄轴小于其余两轴的10%
	if size[thin] < size[a]*0.1 && size[thin] < size[b]*0.1 {
		tall := a
		if size[b] > size[a] {
			tall = b
		}
		if tall == 1 {
			return GEOMETRY_TYPE_WALL, ORIENTATION_HORIZONTAL
		}
		if thin == 1 && minY > 2.0 {
			return GEOMETRY_TYPE_CEILING, ORIENTATION_HORIZONTAL
		}
		return GEOMETRY_TYPE_FLOOR, ORIENTATION_HORIZONTAL
	}

	// 规则2: 某轴超过其余两轴的两倍
	for i := 0; i < 3; i++ {
		x, y := (i+1)%3, (i+2)%3
		if size[i] > size[x]*2 && size[i] > size[y]*2 {
			return GEOMETRY_TYPE_WALL, ORIENTATION_VERTICAL
		}
	}

	// 规则3: 各向比例接近1
	if ratioNear(size[0], size[1]) && ratioNear(size[0], size[2]) && ratioNear(size[1], size[2]) {
		if size[1] > size[0] {
			return GEOMETRY_TYPE_DOOR, ORIENTATION_VERTICAL
		}
		return GEOMETRY_TYPE_WINDOW, ORIENTATION_VERTICAL
	}

	return GEOMETRY_TYPE_GENERIC, ORIENTATION_MIXED
}

func ratioNear(a, b float64) bool {
	if b == 0 {
		return a == 0
	}
	r := a / b
	return r >= 0.8 && r <= 1.2
}

func recommendMethod(ga *GeometryAnalysis) int {
	switch ga.Type {
	case GEOMETRY_TYPE_FLOOR, GEOMETRY_TYPE_CEILING:
		return UV_METHOD_PLANAR
	case GEOMETRY_TYPE_WALL:
		if ga.Complexity > 0.5 {
			return UV_METHOD_BOX
		}
		return UV_METHOD_PLANAR
	}
	if ga.HasHolesHeuristic || ga.Complexity > 0.7 {
		return UV_METHOD_BOX
	}
	return UV_METHOD_AUTO
}
