package meshopt

import (
	"fmt"
	"math"

	"github.com/flywave/go3d/vec2"
)

// TransformUV 按固定顺序就地变换：翻转U、翻转V、绕(0.5,0.5)旋转、缩放加偏移
func TransformUV(uv []vec2.T, opts *UVMappingOptions) {
	if opts == nil {
		return
	}
	sin, cos := 0.0, 1.0
	if opts.Rotation != 0 {
		sin, cos = math.Sincos(opts.Rotation)
	}
	for i := range uv {
		u := float64(uv[i][0])
		v := float64(uv[i][1])
		if opts.FlipU {
			u = 1 - u
		}
		if opts.FlipV {
			v = 1 - v
		}
		if opts.Rotation != 0 {
			du := u - 0.5
			dv := v - 0.5
			u = du*cos - dv*sin + 0.5
			v = du*sin + dv*cos + 0.5
		}
		u = u*opts.ScaleU + opts.OffsetU
		v = v*opts.ScaleV + opts.OffsetV
		uv[i] = vec2.T{float32(u), float32(v)}
	}
}

// ValidateUV 扫描非有限值并检查整体范围。
// 范围异常只产生warning，非有限值返回错误并指明首个下标
func ValidateUV(name string, uv []vec2.T) ([]string, error) {
	minU, maxU := math.MaxFloat64, -math.MaxFloat64
	minV, maxV := math.MaxFloat64, -math.MaxFloat64
	for i := range uv {
		u := float64(uv[i][0])
		v := float64(uv[i][1])
		if math.IsNaN(u) || math.IsInf(u, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("mesh %s: non-finite uv at index %d: %w", name, i, ErrInvalidUV)
		}
		minU = math.Min(minU, u)
		maxU = math.Max(maxU, u)
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if len(uv) == 0 {
		return nil, nil
	}

	var warns []string
	if maxU-minU > 10 || maxV-minV > 10 {
		warns = append(warns, fmt.Sprintf("mesh %s: uv range exceeds 10 units, likely stretching", name))
	}
	if minU < -1 || minV < -1 || maxU > 2 || maxV > 2 {
		warns = append(warns, fmt.Sprintf("mesh %s: uv outside [-1,2], likely mapping error", name))
	}
	return warns, nil
}

// WrapSeamlessUV 将每个分量回绕到[0,1)
func WrapSeamlessUV(uv []vec2.T) {
	for i := range uv {
		uv[i][0] = float32(float64(uv[i][0]) - math.Floor(float64(uv[i][0])))
		uv[i][1] = float32(float64(uv[i][1]) - math.Floor(float64(uv[i][1])))
	}
}
