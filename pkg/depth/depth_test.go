package depth

import (
	"testing"

	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// layeredMesh builds one triangle per z value, in the given order.
func layeredMesh(zs ...float64) *kernel.Mesh {
	m := kernel.NewMesh()
	for _, z := range zs {
		a := m.AddVertex(v3.Vec{Z: z})
		b := m.AddVertex(v3.Vec{X: 1, Z: z})
		c := m.AddVertex(v3.Vec{Y: 1, Z: z})
		m.AddFace(kernel.NewTriangle(a, b, c))
	}
	return m
}

func TestSortAscendingZ(t *testing.T) {
	m := layeredMesh(1, -5, 3, 0)
	got := Sort(m)

	wantZ := []float64{-5, 0, 1, 3}
	for i, f := range got.Faces {
		if k := Key(f, got.Vertices); k != wantZ[i] {
			t.Errorf("face %d key = %v, want %v", i, k, wantZ[i])
		}
	}
	if m.Faces[0] != got.Faces[2] {
		t.Error("input face list should be left untouched")
	}
}

func TestSortStable(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
	}{
		{"serial", -1},
		{"parallel", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := layeredMesh(2, 0, 2, 0, 2)
			got := Sort(m, WithThreshold(tt.threshold))

			// Equal keys keep input order: faces 1,3 then 0,2,4.
			want := []kernel.Face{m.Faces[1], m.Faces[3], m.Faces[0], m.Faces[2], m.Faces[4]}
			for i := range want {
				if got.Faces[i] != want[i] {
					t.Fatalf("position %d = %v, want %v", i, got.Faces[i], want[i])
				}
			}
		})
	}
}

func TestKeyUsesAllQuadVertices(t *testing.T) {
	m := kernel.NewMesh()
	for _, v := range []v3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1, Z: 4}} {
		m.AddVertex(v)
	}
	q := kernel.NewQuad(1, 2, 3, 4)
	if got := Key(q, m.Vertices); got != 1 {
		t.Errorf("Key() = %v, want 1", got)
	}
}

func TestSortEmitsEvent(t *testing.T) {
	var rec observe.Recorder
	Sort(layeredMesh(3, -1), WithSink(&rec))

	events := rec.Named(observe.EventSorted)
	if len(events) != 1 {
		t.Fatalf("got %d sort events, want 1", len(events))
	}
	if far, _ := events[0].Attr("far"); far.Float64() != -1 {
		t.Errorf("far = %v, want -1", far)
	}
}

func TestSortEmpty(t *testing.T) {
	if got := Sort(kernel.NewMesh()); !got.IsEmpty() {
		t.Error("empty mesh should stay empty")
	}
}

func TestCheckOrientation(t *testing.T) {
	m := layeredMesh(0, 1)
	tests := []struct {
		name string
		eye  v3.Vec
		want bool
	}{
		{"above", v3.Vec{Z: 10}, true},
		{"level with top", v3.Vec{Z: 1}, false},
		{"below", v3.Vec{Z: -10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec observe.Recorder
			if got := CheckOrientation(m, tt.eye, &rec); got != tt.want {
				t.Errorf("CheckOrientation() = %v, want %v", got, tt.want)
			}
			warned := len(rec.Named(observe.EventOrientation)) == 1
			if warned == tt.want {
				t.Errorf("warning emitted = %v, want %v", warned, !tt.want)
			}
		})
	}

	if !CheckOrientation(kernel.NewMesh(), v3.Vec{Z: -1}, nil) {
		t.Error("empty mesh should not warn")
	}
}
