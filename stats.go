package meshopt

// MeshSetStats 网格集合汇总，draw call按每网格一次提交计
type MeshSetStats struct {
	Meshes      int `yaml:"meshes"`
	Vertices    int `yaml:"vertices"`
	Triangles   int `yaml:"triangles"`
	Materials   int `yaml:"materials"`
	Textures    int `yaml:"textures"`
	DrawCalls   int `yaml:"draw_calls"`
	MemoryBytes int `yaml:"memory_bytes"`
}

// ComputeStats 遍历网格集合计算汇总统计
func ComputeStats(meshes []*Mesh, resolver MaterialResolver) MeshSetStats {
	st := MeshSetStats{Meshes: len(meshes), DrawCalls: len(meshes)}
	mtls := make(map[string]bool)
	texs := make(map[int32]bool)
	for _, m := range meshes {
		st.Vertices += len(m.Vertices)
		st.Triangles += m.TriangleCount()
		st.MemoryBytes += len(m.Vertices)*12 + len(m.Normals)*12 +
			len(m.Tangents)*12 + len(m.TexCoords)*8 + len(m.Indices)*4
		if m.Material != nil {
			mtls[resolver.Identity(m.Material)] = true
			for _, tex := range materialTextures(m.Material) {
				texs[tex.Id] = true
			}
		}
	}
	st.Materials = len(mtls)
	st.Textures = len(texs)
	return st
}

// StageRecord 单个优化阶段的前后计数
type StageRecord struct {
	Stage       string  `yaml:"stage"`
	Description string  `yaml:"description"`
	Before      int     `yaml:"before"`
	After       int     `yaml:"after"`
	Improvement float64 `yaml:"improvement"`
}

// NewStageRecord 改善率为(before-after)/before*100，before为0时取0
func NewStageRecord(stage, desc string, before, after int) StageRecord {
	rec := StageRecord{Stage: stage, Description: desc, Before: before, After: after}
	if before > 0 {
		rec.Improvement = float64(before-after) / float64(before) * 100
	}
	return rec
}

// SkippedMesh 被跳过的网格及原因
type SkippedMesh struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason"`
}

// OptimizeReport 一次流水线运行的结构化报告，产出后只读
type OptimizeReport struct {
	Stages   []StageRecord `yaml:"stages"`
	Warnings []string      `yaml:"warnings,omitempty"`
	Skipped  []SkippedMesh `yaml:"skipped,omitempty"`
	Before   MeshSetStats  `yaml:"before"`
	After    MeshSetStats  `yaml:"after"`
}

func (r *OptimizeReport) AddStage(rec StageRecord) {
	r.Stages = append(r.Stages, rec)
}

func (r *OptimizeReport) AddWarning(w string) {
	r.Warnings = append(r.Warnings, w)
}

func (r *OptimizeReport) AddSkip(name, reason string) {
	r.Skipped = append(r.Skipped, SkippedMesh{Name: name, Reason: reason})
}
