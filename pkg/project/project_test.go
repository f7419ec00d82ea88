package project

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func approxEqual(a, b v2.Vec) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestPoint(t *testing.T) {
	tests := []struct {
		name string
		p    v3.Vec
		eye  v3.Vec
		want v2.Vec
	}{
		{"origin", v3.Vec{}, v3.Vec{Z: 10}, v2.Vec{}},
		{"on image plane", v3.Vec{X: 1, Y: 2}, v3.Vec{Z: 10}, v2.Vec{X: 1, Y: 2}},
		{"receding point shrinks", v3.Vec{X: 1, Y: 1, Z: -10}, v3.Vec{Z: 10}, v2.Vec{X: 0.5, Y: 0.5}},
		{"pulled toward eye axis", v3.Vec{Z: -10}, v3.Vec{X: 2, Y: 4, Z: 10}, v2.Vec{X: 1, Y: 2}},
		{"nearer point grows", v3.Vec{X: 1, Z: 5}, v3.Vec{Z: 10}, v2.Vec{X: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Point(tt.p, tt.eye)
			if err != nil {
				t.Fatalf("Point() error: %v", err)
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("Point() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointZeroDivide(t *testing.T) {
	_, err := Point(v3.Vec{X: 1, Z: 10}, v3.Vec{Z: 10})
	var pe ProjectionError
	if !errors.As(err, &pe) {
		t.Fatalf("Point() error = %v, want ProjectionError", err)
	}
}

func TestPointOverflow(t *testing.T) {
	_, err := Point(v3.Vec{X: math.MaxFloat64}, v3.Vec{Z: 10})
	var pe ProjectionError
	if !errors.As(err, &pe) {
		t.Fatalf("Point() error = %v, want ProjectionError", err)
	}
}

func TestVerticesCoversWholeMap(t *testing.T) {
	m := kernel.NewMesh()
	m.AddVertex(v3.Vec{})
	m.AddVertex(v3.Vec{X: 1})
	m.AddVertex(v3.Vec{Y: 1})
	m.AddVertex(v3.Vec{X: 7, Y: 7}) // unreferenced
	m.AddFace(kernel.NewTriangle(1, 2, 3))

	var rec observe.Recorder
	got, err := Vertices(m, v3.Vec{Z: 10}, WithSink(&rec))
	if err != nil {
		t.Fatalf("Vertices() error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("projected %d vertices, want 4", len(got))
	}
	if !approxEqual(got[4], v2.Vec{X: 7, Y: 7}) {
		t.Errorf("vertex 4 = %v", got[4])
	}
	if len(rec.Named(observe.EventProjected)) != 1 {
		t.Error("missing projection event")
	}
}

func TestVerticesReportsLowestFailingID(t *testing.T) {
	for _, threshold := range []int{-1, 1} {
		m := kernel.NewMesh()
		for i := 0; i < 500; i++ {
			z := 0.0
			if i == 137 || i == 400 {
				z = 10 // on the eye plane
			}
			m.AddVertex(v3.Vec{X: float64(i), Z: z})
		}

		_, err := Vertices(m, v3.Vec{Z: 10}, WithThreshold(threshold))
		var pe ProjectionError
		if !errors.As(err, &pe) {
			t.Fatalf("threshold %d: error = %v, want ProjectionError", threshold, err)
		}
		if pe.Vertex != 138 {
			t.Errorf("threshold %d: failing vertex = %d, want 138", threshold, pe.Vertex)
		}
	}
}

func TestImageKeepsFaceOrder(t *testing.T) {
	m := kernel.NewMesh()
	for _, v := range []v3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}} {
		m.AddVertex(v)
	}
	m.AddFace(kernel.NewTriangle(2, 4, 3))
	m.AddFace(kernel.NewTriangle(1, 2, 3))

	img, err := Image(m, v3.Vec{Z: 10})
	if err != nil {
		t.Fatalf("Image() error: %v", err)
	}
	if img.PolygonCount() != 2 || img.Faces[0] != m.Faces[0] || img.Faces[1] != m.Faces[1] {
		t.Errorf("faces = %v, want %v", img.Faces, m.Faces)
	}
	pts, err := img.Points(0)
	if err != nil {
		t.Fatalf("Points() error: %v", err)
	}
	if !approxEqual(pts[1], v2.Vec{X: 1, Y: 1}) {
		t.Errorf("second point = %v, want (1,1)", pts[1])
	}
}

func TestImageFailsWithoutPartialResult(t *testing.T) {
	m := kernel.NewMesh()
	m.AddVertex(v3.Vec{Z: 3})
	img, err := Image(m, v3.Vec{Z: 3})
	if err == nil || img != nil {
		t.Errorf("Image() = %v, %v; want nil and error", img, err)
	}
}
