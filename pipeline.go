package meshopt

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// UVMappingOptions UV生成与变换配置，纯值类型
type UVMappingOptions struct {
	Method         int     `yaml:"method"`
	ScaleU         float64 `yaml:"scale_u"`
	ScaleV         float64 `yaml:"scale_v"`
	OffsetU        float64 `yaml:"offset_u"`
	OffsetV        float64 `yaml:"offset_v"`
	Rotation       float64 `yaml:"rotation"`
	FlipU          bool    `yaml:"flip_u"`
	FlipV          bool    `yaml:"flip_v"`
	Seamless       bool    `yaml:"seamless"`
	PreserveAspect bool    `yaml:"preserve_aspect"`
}

// OptimizeOptions 网格优化子阶段开关
type OptimizeOptions struct {
	RemoveUnused     bool    `yaml:"remove_unused"`
	Weld             bool    `yaml:"weld"`
	Decimate         bool    `yaml:"decimate"`
	DecimateRatio    float64 `yaml:"decimate_ratio"`
	RecomputeNormals bool    `yaml:"recompute_normals"`
	ClampUV          bool    `yaml:"clamp_uv"`
	Tangents         bool    `yaml:"tangents"`
}

// Options 流水线配置，默认值在构造时一次性解析
type Options struct {
	GenerateUV  bool             `yaml:"generate_uv"`
	UVThreshold float64          `yaml:"uv_threshold"`
	UV          UVMappingOptions `yaml:"uv"`
	Optimize    OptimizeOptions  `yaml:"optimize"`
	Atlas       bool             `yaml:"atlas"`
	Merge       bool             `yaml:"merge"`
}

func DefaultOptions() Options {
	return Options{
		GenerateUV:  true,
		UVThreshold: 0.6,
		UV: UVMappingOptions{
			Method: UV_METHOD_AUTO,
			ScaleU: 1,
			ScaleV: 1,
		},
		Optimize: OptimizeOptions{
			RemoveUnused:  true,
			Weld:          true,
			DecimateRatio: 0.5,
		},
		Atlas: true,
		Merge: true,
	}
}

// Pipeline 网格导出优化流水线，依赖均显式注入，不使用全局状态
type Pipeline struct {
	opts      Options
	materials MaterialResolver
	textures  TextureLoader
	log       *zap.Logger
}

// NewPipeline materials/textures/log传nil时使用默认实现
func NewPipeline(opts Options, materials MaterialResolver, textures TextureLoader, log *zap.Logger) *Pipeline {
	if materials == nil {
		materials = HashMaterialResolver{}
	}
	if textures == nil {
		textures = EmbeddedTextureLoader{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.UV.ScaleU == 0 {
		opts.UV.ScaleU = 1
	}
	if opts.UV.ScaleV == 0 {
		opts.UV.ScaleV = 1
	}
	if opts.UVThreshold <= 0 {
		opts.UVThreshold = 0.6
	}
	if opts.Optimize.DecimateRatio < 0 {
		opts.Optimize.DecimateRatio = 0
	}
	if opts.Optimize.DecimateRatio > 1 {
		opts.Optimize.DecimateRatio = 1
	}
	return &Pipeline{opts: opts, materials: materials, textures: textures, log: log}
}

// Run 对输入集合执行整条流水线。输入网格先克隆，原集合保持不变。
// 单个网格的失败记入报告并跳过该网格，空输入集是唯一的终止性错误
func (p *Pipeline) Run(ctx context.Context, meshes []*Mesh) ([]*Mesh, *OptimizeReport, error) {
	if len(meshes) == 0 {
		return nil, nil, ErrEmptyMeshSet
	}
	report := &OptimizeReport{}
	report.Before = ComputeStats(meshes, p.materials)

	work := make([]*Mesh, 0, len(meshes))
	for i, m := range meshes {
		c := m.Clone()
		if c.Name == "" {
			c.Name = fmt.Sprintf("mesh-%d", i)
		}
		if err := c.Validate(); err != nil {
			report.AddSkip(c.Name, err.Error())
			p.log.Warn("mesh skipped", zap.String("mesh", c.Name), zap.Error(err))
			continue
		}
		work = append(work, c)
	}

	if p.opts.GenerateUV {
		work = p.generateUVs(work, report)
	}
	p.optimize(work, report)
	if p.opts.Atlas {
		p.packAtlas(ctx, work, report)
	}
	if p.opts.Merge {
		before := len(work)
		merged, warns := MergeMeshesByMaterial(work, p.materials)
		for _, w := range warns {
			report.AddWarning(w)
		}
		work = merged
		report.AddStage(NewStageRecord("merge", "meshes merged by material", before, len(work)))
	}

	report.After = ComputeStats(work, p.materials)
	p.log.Info("optimization finished",
		zap.Int("optimized", len(work)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("draw_calls_before", report.Before.DrawCalls),
		zap.Int("draw_calls_after", report.After.DrawCalls))
	return work, report, nil
}

// needsUV 缺失UV或质量评分低于阈值时重新生成
func (p *Pipeline) needsUV(m *Mesh) bool {
	if len(m.TexCoords) != len(m.Vertices) {
		return true
	}
	return UVQualityScore(m.TexCoords) < p.opts.UVThreshold
}

func (p *Pipeline) generateUVs(work []*Mesh, report *OptimizeReport) []*Mesh {
	kept := work[:0]
	for _, m := range work {
		if !p.needsUV(m) {
			kept = append(kept, m)
			continue
		}
		ga, err := AnalyzeGeometry(m)
		if err != nil {
			report.AddSkip(m.Name, err.Error())
			continue
		}
		opts := p.opts.UV
		if opts.Method == UV_METHOD_AUTO && ga.Recommended != UV_METHOD_AUTO {
			opts.Method = ga.Recommended
		}
		uv, warns, err := ProjectUV(m, ga, &opts)
		for _, w := range warns {
			report.AddWarning(w)
		}
		if err != nil {
			report.AddSkip(m.Name, err.Error())
			continue
		}
		TransformUV(uv, &opts)
		warns, err = ValidateUV(m.Name, uv)
		for _, w := range warns {
			report.AddWarning(w)
		}
		if err != nil {
			report.AddSkip(m.Name, err.Error())
			continue
		}
		if opts.Seamless {
			WrapSeamlessUV(uv)
		}
		m.TexCoords = uv
		p.log.Debug("uv generated",
			zap.String("mesh", m.Name),
			zap.String("method", UVMethodName(opts.Method)),
			zap.String("class", GeometryTypeName(ga.Type)))
		kept = append(kept, m)
	}
	return kept
}

func (p *Pipeline) optimize(work []*Mesh, report *OptimizeReport) {
	opt := p.opts.Optimize

	if opt.RemoveUnused {
		before, after := 0, 0
		for _, m := range work {
			before += len(m.Vertices)
			RemoveUnusedVertices(m)
			after += len(m.Vertices)
		}
		report.AddStage(NewStageRecord("remove_unused", "unused vertices removed", before, after))
	}
	if opt.Weld {
		before, after := 0, 0
		for _, m := range work {
			before += len(m.Vertices)
			WeldVertices(m)
			after += len(m.Vertices)
		}
		report.AddStage(NewStageRecord("weld", "identical vertices welded", before, after))
	}
	if opt.Decimate {
		before, after := 0, 0
		for _, m := range work {
			before += m.TriangleCount()
			ReducePolygons(m, opt.DecimateRatio)
			after += m.TriangleCount()
		}
		report.AddStage(NewStageRecord("decimate", "triangles reduced by stride sampling", before, after))
	}
	if opt.RecomputeNormals {
		count := 0
		for _, m := range work {
			m.RecomputeNormal()
			count += len(m.Normals)
		}
		report.AddStage(NewStageRecord("normals", "vertex normals recomputed", count, count))
	}
	if opt.ClampUV {
		count := 0
		for _, m := range work {
			ClampUVs(m)
			count += len(m.TexCoords)
		}
		report.AddStage(NewStageRecord("clamp_uv", "uv components clamped to [0,1]", count, count))
	}
	if opt.Tangents {
		done := 0
		for _, m := range work {
			if err := GenerateTangents(m); err != nil {
				report.AddWarning(err.Error())
				continue
			}
			done++
		}
		report.AddStage(NewStageRecord("tangents", "per-vertex tangents generated", len(work), done))
	}
}

func (p *Pipeline) packAtlas(ctx context.Context, work []*Mesh, report *OptimizeReport) {
	var texs []*Texture
	seen := make(map[int32]bool)
	texOf := make(map[*Mesh]int32)
	for _, m := range work {
		if m.Material == nil {
			continue
		}
		tex := m.Material.GetTexture()
		if tex == nil {
			continue
		}
		texOf[m] = tex.Id
		if !seen[tex.Id] {
			seen[tex.Id] = true
			texs = append(texs, tex)
		}
	}
	if len(texs) < 2 {
		return
	}

	atlas, warns, err := PackTextureAtlas(ctx, texs, p.textures)
	for _, w := range warns {
		report.AddWarning(w)
	}
	if err != nil {
		report.AddWarning(fmt.Sprintf("atlas packing failed: %v", err))
		return
	}
	remapped := 0
	for _, m := range work {
		id, ok := texOf[m]
		if !ok {
			continue
		}
		if RemapAtlasUVs(m, atlas, id) {
			remapped++
		}
	}
	report.AddStage(NewStageRecord("atlas", "textures packed into shared atlas", len(texs), len(texs)-len(atlas.Regions)+1))
	p.log.Debug("atlas packed",
		zap.Int("textures", len(texs)),
		zap.Int("packed", len(atlas.Regions)),
		zap.Int("size", atlas.Size),
		zap.Int("meshes_remapped", remapped))
}

// Summary 面向导出器的单行结果描述
func (r *OptimizeReport) Summary() string {
	s := fmt.Sprintf("%d meshes optimized, %d skipped", r.After.Meshes, len(r.Skipped))
	for _, sk := range r.Skipped {
		s += fmt.Sprintf("; %s: %s", sk.Name, sk.Reason)
	}
	return s
}

// IsFatal 区分终止性错误与已记录的单网格失败
func IsFatal(err error) bool {
	return errors.Is(err, ErrEmptyMeshSet)
}
