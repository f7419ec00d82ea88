package kernel

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestCentroidTriangle(t *testing.T) {
	m := unitTriangle()
	c := Centroid(m.Faces[0], m.Vertices)
	if !approxEqual(c.X, 1.0/3) || !approxEqual(c.Y, 1.0/3) || !approxEqual(c.Z, 0) {
		t.Errorf("Centroid() = %v, want (1/3, 1/3, 0)", c)
	}
}

func TestCentroidQuadDividesByFour(t *testing.T) {
	verts := map[int]v3.Vec{
		1: {X: 0, Y: 0, Z: 2},
		2: {X: 2, Y: 0, Z: 2},
		3: {X: 2, Y: 2, Z: 2},
		4: {X: 0, Y: 2, Z: 2},
	}
	c := Centroid(NewQuad(1, 2, 3, 4), verts)
	if c != (v3.Vec{X: 1, Y: 1, Z: 2}) {
		t.Errorf("Centroid() = %v, want (1, 1, 2)", c)
	}
}

func TestNormalCounterClockwisePointsUp(t *testing.T) {
	m := unitTriangle()
	n := Normal(m.Faces[0], m.Vertices)
	if n.Z <= 0 {
		t.Errorf("Normal().Z = %v, want > 0", n.Z)
	}
	if n.X != 0 || n.Y != 0 {
		t.Errorf("Normal() = %v, want along +Z", n)
	}
}

func TestNormalReversedWinding(t *testing.T) {
	m := unitTriangle()
	n := Normal(NewTriangle(1, 3, 2), m.Vertices)
	if n.Z >= 0 {
		t.Errorf("Normal().Z = %v, want < 0 for clockwise winding", n.Z)
	}
}

func TestNormalQuadIgnoresFourthVertex(t *testing.T) {
	verts := map[int]v3.Vec{
		1: {X: 0, Y: 0, Z: 0},
		2: {X: 1, Y: 0, Z: 0},
		3: {X: 1, Y: 1, Z: 0},
		4: {X: 0, Y: 1, Z: 50},
	}
	got := Normal(NewQuad(1, 2, 3, 4), verts)
	want := Normal(NewTriangle(1, 2, 3), verts)
	if got != want {
		t.Errorf("quad Normal() = %v, want %v", got, want)
	}
}

func TestDot(t *testing.T) {
	tests := []struct {
		u, v v3.Vec
		want float64
	}{
		{v3.Vec{X: 1}, v3.Vec{Y: 1}, 0},
		{v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 4, Y: 5, Z: 6}, 32},
		{v3.Vec{Z: -2}, v3.Vec{Z: 3}, -6},
	}
	for _, tt := range tests {
		if got := Dot(tt.u, tt.v); got != tt.want {
			t.Errorf("Dot(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
		}
	}
}
