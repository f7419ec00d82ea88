package kernel

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// PlanarityTolerance is the largest distance, relative to the face's
// longest edge from its first vertex, that a quad's fourth vertex may sit
// off the plane of the first three before a warning is raised.
const PlanarityTolerance = 1e-6

// ValidationSeverity indicates whether a finding blocks rendering or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks rendering
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ReferenceError reports a face that names a vertex ID absent from the
// mesh. Face is the 0-based face index; Line is the source line when the
// mesh came from text, otherwise 0.
type ReferenceError struct {
	Face   int
	Vertex int
	Line   int
}

func (e ReferenceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: face %d references undefined vertex %d", e.Line, e.Face+1, e.Vertex)
	}
	return fmt.Sprintf("face %d references undefined vertex %d", e.Face+1, e.Vertex)
}

// ValidationError is a blocking structural finding that is not a dangling
// reference, e.g. a zero-valued Face.
type ValidationError struct {
	Face    int
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("face %d: %s", e.Face+1, e.Message)
}

// ValidationWarning is an advisory finding. Face is -1 for mesh-level
// findings.
type ValidationWarning struct {
	Face    int
	Code    string
	Message string
}

func (w ValidationWarning) String() string {
	if w.Face < 0 {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] face %d: %s", w.Code, w.Face+1, w.Message)
}

// Warning codes.
const (
	WarnDegenerate  = "degenerate"
	WarnRepeated    = "repeated-vertex"
	WarnNonPlanar   = "non-planar"
	WarnUnusedVerts = "unused-vertices"
)

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []error
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// ---------------------------------------------------------------------------
// Structural validation (errors)
// ---------------------------------------------------------------------------

// CheckReferences returns the first dangling reference in face order, or
// nil if every face vertex exists.
func CheckReferences(m *Mesh) error {
	for i, f := range m.Faces {
		for _, id := range f.IDs() {
			if _, ok := m.Vertices[id]; !ok {
				return ReferenceError{Face: i, Vertex: id}
			}
		}
	}
	return nil
}

// Validate runs the structural checks and returns every blocking finding.
// An empty slice means the mesh is safe to render. Read-only.
func Validate(m *Mesh) []error {
	var errs []error
	for i, f := range m.Faces {
		if !f.Valid() {
			errs = append(errs, ValidationError{
				Face:    i,
				Message: fmt.Sprintf("invalid face arity %d", f.Arity()),
			})
			continue
		}
		for _, id := range f.IDs() {
			if _, ok := m.Vertices[id]; !ok {
				errs = append(errs, ReferenceError{Face: i, Vertex: id})
			}
		}
	}
	return errs
}

// ValidateAll runs both tiers. Geometric checks are skipped when the
// structural tier fails, since they would read missing vertices.
func ValidateAll(m *Mesh) ValidationResult {
	result := ValidationResult{Errors: Validate(m)}
	if !result.OK() {
		return result
	}
	result.Warnings = validateGeometry(m)
	return result
}

// ---------------------------------------------------------------------------
// Geometric validation (warnings)
// ---------------------------------------------------------------------------

func validateGeometry(m *Mesh) []ValidationWarning {
	var warnings []ValidationWarning
	used := make(map[int]bool, len(m.Vertices))

	for i, f := range m.Faces {
		ids := f.IDs()
		for _, id := range ids {
			used[id] = true
		}

		if dups := lo.FindDuplicates(ids); len(dups) > 0 {
			warnings = append(warnings, ValidationWarning{
				Face:    i,
				Code:    WarnRepeated,
				Message: fmt.Sprintf("vertex %d appears more than once", dups[0]),
			})
		}

		n := Normal(f, m.Vertices)
		if Dot(n, n) == 0 {
			warnings = append(warnings, ValidationWarning{
				Face:    i,
				Code:    WarnDegenerate,
				Message: "first three vertices are collinear; face has no normal",
			})
			continue
		}

		if f.Kind() == Quad {
			if d, ok := planeDistance(f, m); ok && d > PlanarityTolerance {
				warnings = append(warnings, ValidationWarning{
					Face:    i,
					Code:    WarnNonPlanar,
					Message: fmt.Sprintf("fourth vertex is %.3g (relative) off the face plane", d),
				})
			}
		}
	}

	unused := lo.Filter(m.VertexIDs(), func(id int, _ int) bool { return !used[id] })
	if len(unused) > 0 {
		warnings = append(warnings, ValidationWarning{
			Face:    -1,
			Code:    WarnUnusedVerts,
			Message: fmt.Sprintf("%d vertices are not referenced by any face (first: %d)", len(unused), unused[0]),
		})
	}
	return warnings
}

// planeDistance returns the distance of a quad's fourth vertex from the
// plane through its first three, divided by the largest edge length from
// the first vertex.
func planeDistance(f Face, m *Mesh) (float64, bool) {
	v0 := m.Vertices[f.ID(0)]
	n := Normal(f, m.Vertices)
	nLen := math.Sqrt(Dot(n, n))

	scale := 0.0
	for i := 1; i < 4; i++ {
		e := m.Vertices[f.ID(i)].Sub(v0)
		scale = math.Max(scale, math.Sqrt(Dot(e, e)))
	}
	if nLen == 0 || scale == 0 {
		return 0, false
	}
	off := m.Vertices[f.ID(3)].Sub(v0)
	return math.Abs(Dot(off, n)) / nLen / scale, true
}
