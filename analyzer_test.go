package meshopt

import (
	"errors"
	"testing"

	"github.com/flywave/go3d/vec3"
)

func boxMesh(name string, w, h, d, offY float32) *Mesh {
	var vs []vec3.T
	for _, x := range []float32{0, w} {
		for _, y := range []float32{0, h} {
			for _, z := range []float32{0, d} {
				vs = append(vs, vec3.T{x, y + offY, z})
			}
		}
	}
	return &Mesh{Name: name, Vertices: vs, Indices: []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6}}
}

// TestAnalyzeClassification 分类规则按序匹配
func TestAnalyzeClassification(t *testing.T) {
	tests := []struct {
		name     string
		w, h, d  float32
		offY     float32
		wantType int
		wantOri  int
	}{
		{"floor slab", 10, 0.1, 10, 0, GEOMETRY_TYPE_FLOOR, ORIENTATION_HORIZONTAL},
		{"ceiling slab", 10, 0.1, 10, 3, GEOMETRY_TYPE_CEILING, ORIENTATION_HORIZONTAL},
		{"thin wall", 0.2, 8, 5, 0, GEOMETRY_TYPE_WALL, ORIENTATION_HORIZONTAL},
		{"column", 1, 5, 1, 0, GEOMETRY_TYPE_WALL, ORIENTATION_VERTICAL},
		{"door", 1, 1.1, 1, 0, GEOMETRY_TYPE_DOOR, ORIENTATION_VERTICAL},
		{"window", 1.1, 1, 1.05, 0, GEOMETRY_TYPE_WINDOW, ORIENTATION_VERTICAL},
		{"generic", 3, 1.8, 1, 0, GEOMETRY_TYPE_GENERIC, ORIENTATION_MIXED},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ga, err := AnalyzeGeometry(boxMesh(tt.name, tt.w, tt.h, tt.d, tt.offY))
			if err != nil {
				t.Fatalf("AnalyzeGeometry failed: %v", err)
			}
			if ga.Type != tt.wantType {
				t.Errorf("type = %s, want %s", GeometryTypeName(ga.Type), GeometryTypeName(tt.wantType))
			}
			if ga.Orientation != tt.wantOri {
				t.Errorf("orientation = %d, want %d", ga.Orientation, tt.wantOri)
			}
		})
	}
}

// TestAnalyzeComplexityAndHoles 复杂度与孔洞启发式
func TestAnalyzeComplexityAndHoles(t *testing.T) {
	m := boxMesh("dense", 3, 1.8, 1, 0)
	m.Vertices = make([]vec3.T, 1500)
	for i := range m.Vertices {
		m.Vertices[i] = vec3.T{float32(i % 30), float32(i % 17), float32(i % 11)}
	}
	m.Indices = make([]uint32, 1002)

	ga, err := AnalyzeGeometry(m)
	if err != nil {
		t.Fatalf("AnalyzeGeometry failed: %v", err)
	}
	if ga.Complexity != 1 {
		t.Errorf("complexity = %f, want 1 (capped)", ga.Complexity)
	}
	if !ga.HasHolesHeuristic {
		t.Error("expected hole heuristic to trigger for index_count > 1000")
	}
	if ga.Recommended != UV_METHOD_BOX {
		t.Errorf("recommended = %s, want box", UVMethodName(ga.Recommended))
	}
}

// TestAnalyzeRecommendation 推荐方法规则
func TestAnalyzeRecommendation(t *testing.T) {
	ga, err := AnalyzeGeometry(boxMesh("floor", 10, 0.1, 10, 0))
	if err != nil {
		t.Fatal(err)
	}
	if ga.Recommended != UV_METHOD_PLANAR {
		t.Errorf("floor recommended = %s, want planar", UVMethodName(ga.Recommended))
	}

	ga, err = AnalyzeGeometry(boxMesh("generic", 3, 1.8, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if ga.Recommended != UV_METHOD_AUTO {
		t.Errorf("simple generic recommended = %s, want auto", UVMethodName(ga.Recommended))
	}
}

// TestAnalyzeEmptyMesh 空位置缓冲返回MissingAttribute
func TestAnalyzeEmptyMesh(t *testing.T) {
	_, err := AnalyzeGeometry(&Mesh{Name: "empty"})
	if !errors.Is(err, ErrMissingAttribute) {
		t.Fatalf("err = %v, want ErrMissingAttribute", err)
	}
}
