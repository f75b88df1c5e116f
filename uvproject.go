package meshopt

import (
	"fmt"
	"math"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// ProjectUV 按配置方法为每个顶点计算UV，不修改位置和法线缓冲。
// 返回的warning由上层写入优化报告。
func ProjectUV(m *Mesh, ga *GeometryAnalysis, opts *UVMappingOptions) ([]vec2.T, []string, error) {
	if len(m.Vertices) == 0 {
		return nil, nil, fmt.Errorf("mesh %s: empty position buffer: %w", m.Name, ErrMissingAttribute)
	}
	switch opts.Method {
	case UV_METHOD_PLANAR:
		return planarUV(m, ga, opts), nil, nil
	case UV_METHOD_CYLINDRICAL:
		return cylindricalUV(m, ga), nil, nil
	case UV_METHOD_SPHERICAL:
		return sphericalUV(m), nil, nil
	case UV_METHOD_BOX:
		uv, err := boxUV(m)
		return uv, nil, err
	default:
		return autoUV(m, ga, opts)
	}
}

// autoUV 逐一尝试planar/box/cylindrical，按质量评分取最优；
// 全部失败时退回planar并记录warning，不中断整条流水线
func autoUV(m *Mesh, ga *GeometryAnalysis, opts *UVMappingOptions) ([]vec2.T, []string, error) {
	var best []vec2.T
	bestScore := -1.0

	candidates := []func() ([]vec2.T, error){
		func() ([]vec2.T, error) { return planarUV(m, ga, opts), nil },
		func() ([]vec2.T, error) { return boxUV(m) },
		func() ([]vec2.T, error) { return cylindricalUV(m, ga), nil },
	}
	for _, gen := range candidates {
		uv, err := gen()
		if err != nil {
			continue
		}
		if s := UVQualityScore(uv); s > bestScore {
			bestScore = s
			best = uv
		}
	}
	if best == nil {
		warn := fmt.Sprintf("mesh %s: all auto uv candidates failed, falling back to planar", m.Name)
		return planarUV(m, ga, opts), []string{warn}, nil
	}
	return best, nil, nil
}

// planarUV 两遍扫描：先求投影轴的min/max，再归一化到[0,1]。
// 退化轴(range==0)输出一律为0
func planarUV(m *Mesh, ga *GeometryAnalysis, opts *UVMappingOptions) []vec2.T {
	au, av := 0, 1
	if ga != nil {
		switch {
		case ga.Type == GEOMETRY_TYPE_FLOOR || ga.Type == GEOMETRY_TYPE_CEILING:
			au, av = 0, 2
		case ga.Orientation == ORIENTATION_VERTICAL:
			au, av = 0, 1
		}
	}

	minU, maxU := math.MaxFloat64, -math.MaxFloat64
	minV, maxV := math.MaxFloat64, -math.MaxFloat64
	for i := range m.Vertices {
		u := float64(m.Vertices[i][au])
		v := float64(m.Vertices[i][av])
		minU = math.Min(minU, u)
		maxU = math.Max(maxU, u)
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	ru := maxU - minU
	rv := maxV - minV

	var aspectU, aspectV float64 = 1, 1
	if opts != nil && opts.PreserveAspect && ru > 0 && rv > 0 {
		if ru > rv {
			aspectU = ru / rv
		} else {
			aspectV = rv / ru
		}
	}

	uv := make([]vec2.T, len(m.Vertices))
	for i := range m.Vertices {
		var u, v float64
		if ru > 0 {
			u = (float64(m.Vertices[i][au]) - minU) / ru * aspectU
		}
		if rv > 0 {
			v = (float64(m.Vertices[i][av]) - minV) / rv * aspectV
		}
		uv[i] = vec2.T{float32(u), float32(v)}
	}
	return uv
}

// cylindricalUV 绕包围盒中心展开，V为沿轴向的归一化高度
func cylindricalUV(m *Mesh, ga *GeometryAnalysis) []vec2.T {
	axis := 2
	if ga != nil && ga.Orientation == ORIENTATION_HORIZONTAL {
		axis = 1
	}
	ra, rb := (axis+1)%3, (axis+2)%3
	if ra > rb {
		ra, rb = rb, ra
	}

	box := m.BoundBox()
	center := [3]float64{
		(box.Min[0] + box.Max[0]) / 2,
		(box.Min[1] + box.Max[1]) / 2,
		(box.Min[2] + box.Max[2]) / 2,
	}
	hMin := box.Min[axis]
	hRange := box.Max[axis] - box.Min[axis]

	uv := make([]vec2.T, len(m.Vertices))
	for i := range m.Vertices {
		da := float64(m.Vertices[i][ra]) - center[ra]
		db := float64(m.Vertices[i][rb]) - center[rb]
		u := math.Atan2(db, da)/(2*math.Pi) + 0.5
		var v float64
		if hRange > 0 {
			v = (float64(m.Vertices[i][axis]) - hMin) / hRange
		}
		uv[i] = vec2.T{float32(u), float32(v)}
	}
	return uv
}

// sphericalUV 以包围盒中心为球心，零长度方向取中性值
func sphericalUV(m *Mesh) []vec2.T {
	box := m.BoundBox()
	center := [3]float64{
		(box.Min[0] + box.Max[0]) / 2,
		(box.Min[1] + box.Max[1]) / 2,
		(box.Min[2] + box.Max[2]) / 2,
	}
	uv := make([]vec2.T, len(m.Vertices))
	for i := range m.Vertices {
		dx := float64(m.Vertices[i][0]) - center[0]
		dy := float64(m.Vertices[i][1]) - center[1]
		dz := float64(m.Vertices[i][2]) - center[2]
		r := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if r == 0 {
			uv[i] = vec2.T{0.5, 0.5}
			continue
		}
		dx, dy, dz = dx/r, dy/r, dz/r
		u := math.Atan2(dx, dz)/(2*math.Pi) + 0.5
		v := math.Acos(math.Max(-1, math.Min(1, dy))) / math.Pi
		uv[i] = vec2.T{float32(u), float32(v)}
	}
	return uv
}

// boxUV 按主导法线轴投影到其余两轴，负向面翻转U避免镜像
func boxUV(m *Mesh) ([]vec2.T, error) {
	normals := m.Normals
	if len(normals) != len(m.Vertices) {
		if m.TriangleCount() == 0 {
			return nil, fmt.Errorf("mesh %s: no normals for box projection: %w", m.Name, ErrMissingAttribute)
		}
		normals = computeVertexNormals(m)
	}

	box := m.BoundBox()
	size := [3]float64{
		box.Max[0] - box.Min[0],
		box.Max[1] - box.Min[1],
		box.Max[2] - box.Min[2],
	}

	uv := make([]vec2.T, len(m.Vertices))
	for i := range m.Vertices {
		n := normals[i]
		dom := dominantAxis(&n)
		au, av := (dom+1)%3, (dom+2)%3
		if au > av {
			au, av = av, au
		}
		var u, v float64
		if size[au] > 0 {
			u = (float64(m.Vertices[i][au]) - box.Min[au]) / size[au]
		}
		if size[av] > 0 {
			v = (float64(m.Vertices[i][av]) - box.Min[av]) / size[av]
		}
		if n[dom] < 0 {
			u = 1 - u
		}
		uv[i] = vec2.T{float32(u), float32(v)}
	}
	return uv, nil
}

func dominantAxis(n *vec3.T) int {
	ax := math.Abs(float64(n[0]))
	ay := math.Abs(float64(n[1]))
	az := math.Abs(float64(n[2]))
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

// UVQualityScore 覆盖/拉伸的粗略代理评分，仅用于auto选择与报告
func UVQualityScore(uv []vec2.T) float64 {
	score := 0.5
	if len(uv) == 0 {
		return score
	}
	inRange := 0
	var sum float64
	for _, p := range uv {
		if p[0] >= 0 && p[0] <= 1 && p[1] >= 0 && p[1] <= 1 {
			inRange++
		}
		sum += math.Abs(float64(p[0]) * float64(p[1]))
	}
	score += 0.3 * float64(inRange) / float64(len(uv))
	mean := sum / float64(len(uv))
	if mean > 0.1 && mean < 2 {
		score += 0.2
	}
	return score
}
