package sdfx

import (
	"testing"

	"github.com/chazu/polyview/pkg/kernel"
)

// testCells keeps marching cubes fast in tests.
const testCells = 16

func newKernel() *SdfxKernel {
	return NewWithCells(testCells)
}

func TestBox(t *testing.T) {
	k := newKernel()
	box, err := k.Box(2, 2, 2)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.VertexCount() == 0 {
		t.Fatal("expected non-zero vertex count")
	}
	if errs := kernel.Validate(mesh); len(errs) != 0 {
		t.Fatalf("Validate() = %v", errs)
	}
	for i, f := range mesh.Faces {
		if f.Kind() != kernel.Triangle {
			t.Fatalf("face %d is a %v, want triangle", i, f.Kind())
		}
	}
	t.Logf("box triangle count: %d, vertices: %d", mesh.FaceCount(), mesh.VertexCount())
}

func TestBoxBoundingBoxCentred(t *testing.T) {
	k := newKernel()
	box, err := k.Box(4, 2, 6)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	min, max := box.BoundingBox()
	if min != [3]float64{-2, -1, -3} || max != [3]float64{2, 1, 3} {
		t.Errorf("BoundingBox() = %v %v", min, max)
	}
}

func TestInvalidPrimitives(t *testing.T) {
	k := newKernel()
	if _, err := k.Box(-1, 1, 1); err == nil {
		t.Error("Box with negative size: want error")
	}
	if _, err := k.Sphere(0); err == nil {
		t.Error("Sphere with zero radius: want error")
	}
}

func TestSphereWoundOutward(t *testing.T) {
	k := newKernel()
	s, err := k.Sphere(1)
	if err != nil {
		t.Fatalf("Sphere failed: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}

	// For a convex solid centred on the origin every outward normal points
	// away from the origin.
	for i, f := range mesh.Faces {
		n := kernel.Normal(f, mesh.Vertices)
		c := kernel.Centroid(f, mesh.Vertices)
		if kernel.Dot(n, c) < -1e-12 {
			t.Fatalf("face %d (%v) is wound inward", i, f)
		}
	}
}

func TestSharedVerticesMerged(t *testing.T) {
	k := newKernel()
	s, err := k.Sphere(1)
	if err != nil {
		t.Fatalf("Sphere failed: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	// A closed triangle mesh has roughly half as many vertices as faces;
	// without merging it would have three times as many.
	if mesh.VertexCount() >= mesh.FaceCount()*3 {
		t.Errorf("vertices %d not merged for %d faces", mesh.VertexCount(), mesh.FaceCount())
	}
}

func TestCylinder(t *testing.T) {
	k := newKernel()
	cyl, err := k.Cylinder(2, 0.5)
	if err != nil {
		t.Fatalf("Cylinder failed: %v", err)
	}
	mesh, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
}

func TestDifference(t *testing.T) {
	k := newKernel()

	box, err := k.Box(2, 2, 2)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	hole, err := k.Cylinder(4, 0.5)
	if err != nil {
		t.Fatalf("Cylinder failed: %v", err)
	}

	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}
	diffMesh, err := k.ToMesh(k.Difference(box, hole))
	if err != nil {
		t.Fatalf("ToMesh(difference) failed: %v", err)
	}
	if diffMesh.FaceCount() == boxMesh.FaceCount() {
		t.Error("difference produced the same face count as the plain box")
	}
}

func TestTranslateMovesBounds(t *testing.T) {
	k := newKernel()
	box, err := k.Box(2, 2, 2)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	moved := k.Translate(box, 10, 0, -5)
	min, max := moved.BoundingBox()
	if min[0] != 9 || max[0] != 11 || min[2] != -6 || max[2] != -4 {
		t.Errorf("translated BoundingBox() = %v %v", min, max)
	}
}
