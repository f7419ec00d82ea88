package kernel

import (
	"errors"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Test helpers for ValidationResult
// ---------------------------------------------------------------------------

// resultHasWarning returns true if r.Warnings contains at least one entry
// with the given code.
func resultHasWarning(r ValidationResult, code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func squareMesh(z4 float64) *Mesh {
	m := NewMesh()
	m.AddVertex(v3.Vec{X: 0, Y: 0, Z: 0})
	m.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	m.AddVertex(v3.Vec{X: 1, Y: 1, Z: 0})
	m.AddVertex(v3.Vec{X: 0, Y: 1, Z: z4})
	m.AddFace(NewQuad(1, 2, 3, 4))
	return m
}

// ---------------------------------------------------------------------------
// Tier 1
// ---------------------------------------------------------------------------

func TestCheckReferencesOK(t *testing.T) {
	if err := CheckReferences(unitTriangle()); err != nil {
		t.Errorf("CheckReferences() = %v, want nil", err)
	}
}

func TestCheckReferencesDangling(t *testing.T) {
	m := unitTriangle()
	m.AddFace(NewTriangle(1, 2, 7))

	err := CheckReferences(m)
	var refErr ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("CheckReferences() = %v, want ReferenceError", err)
	}
	if refErr.Face != 1 || refErr.Vertex != 7 {
		t.Errorf("ReferenceError = %+v, want face 1 vertex 7", refErr)
	}
	if !strings.Contains(refErr.Error(), "undefined vertex 7") {
		t.Errorf("Error() = %q", refErr.Error())
	}
}

func TestReferenceErrorMessageWithLine(t *testing.T) {
	err := ReferenceError{Face: 0, Vertex: 9, Line: 12}
	if got := err.Error(); !strings.HasPrefix(got, "line 12:") {
		t.Errorf("Error() = %q, want line prefix", got)
	}
}

func TestValidateReportsEveryFinding(t *testing.T) {
	m := unitTriangle()
	m.AddFace(NewTriangle(0, 2, 3))
	m.AddFace(NewQuad(1, 2, 3, 8))
	m.AddFace(Face{})

	errs := Validate(m)
	if len(errs) != 3 {
		t.Fatalf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
	var ve ValidationError
	if !errors.As(errs[2], &ve) {
		t.Errorf("errs[2] = %v, want ValidationError", errs[2])
	}
}

func TestValidateAllSkipsGeometryOnErrors(t *testing.T) {
	m := unitTriangle()
	m.AddFace(NewTriangle(1, 1, 9))
	r := ValidateAll(m)
	if r.OK() {
		t.Fatal("ValidateAll() OK for dangling reference")
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings when tier 1 fails, got %v", r.Warnings)
	}
}

// ---------------------------------------------------------------------------
// Tier 2
// ---------------------------------------------------------------------------

func TestValidateAllCleanMesh(t *testing.T) {
	r := ValidateAll(squareMesh(0))
	if !r.OK() || len(r.Warnings) != 0 {
		t.Errorf("ValidateAll() = %+v, want clean", r)
	}
}

func TestValidateAllNonPlanarQuad(t *testing.T) {
	r := ValidateAll(squareMesh(0.5))
	if !resultHasWarning(r, WarnNonPlanar) {
		t.Errorf("expected %s warning, got %v", WarnNonPlanar, r.Warnings)
	}
}

func TestValidateAllDegenerateFace(t *testing.T) {
	m := NewMesh()
	m.AddVertex(v3.Vec{X: 0})
	m.AddVertex(v3.Vec{X: 1})
	m.AddVertex(v3.Vec{X: 2})
	m.AddFace(NewTriangle(1, 2, 3))

	r := ValidateAll(m)
	if !resultHasWarning(r, WarnDegenerate) {
		t.Errorf("expected %s warning, got %v", WarnDegenerate, r.Warnings)
	}
}

func TestValidateAllRepeatedVertex(t *testing.T) {
	m := squareMesh(0)
	m.Faces[0] = NewQuad(1, 2, 3, 1)

	r := ValidateAll(m)
	if !resultHasWarning(r, WarnRepeated) {
		t.Errorf("expected %s warning, got %v", WarnRepeated, r.Warnings)
	}
}

func TestValidateAllUnusedVertices(t *testing.T) {
	m := unitTriangle()
	m.AddVertex(v3.Vec{Z: 5})
	m.AddVertex(v3.Vec{Z: 6})

	r := ValidateAll(m)
	if !resultHasWarning(r, WarnUnusedVerts) {
		t.Fatalf("expected %s warning, got %v", WarnUnusedVerts, r.Warnings)
	}
	last := r.Warnings[len(r.Warnings)-1]
	if last.Face != -1 || !strings.Contains(last.Message, "2 vertices") {
		t.Errorf("unused warning = %+v", last)
	}
	if !strings.HasPrefix(last.String(), "[unused-vertices]") {
		t.Errorf("String() = %q", last.String())
	}
}
