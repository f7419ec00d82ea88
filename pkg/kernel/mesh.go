package kernel

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FaceKind is the arity tag of a Face.
type FaceKind int

const (
	Triangle FaceKind = 3
	Quad     FaceKind = 4
)

func (k FaceKind) String() string {
	switch k {
	case Triangle:
		return "triangle"
	case Quad:
		return "quad"
	default:
		return fmt.Sprintf("FaceKind(%d)", int(k))
	}
}

// Face is a triangle or quad referencing vertices by their 1-based ID.
// Storage is fixed-size; only the first Arity() entries are meaningful.
// The zero Face is invalid.
type Face struct {
	kind FaceKind
	ids  [4]int
}

// NewTriangle returns a triangle face over vertices a, b, c.
func NewTriangle(a, b, c int) Face {
	return Face{kind: Triangle, ids: [4]int{a, b, c}}
}

// NewQuad returns a quad face over vertices a, b, c, d.
func NewQuad(a, b, c, d int) Face {
	return Face{kind: Quad, ids: [4]int{a, b, c, d}}
}

// NewFace builds a face from 3 or 4 vertex IDs.
func NewFace(ids ...int) (Face, error) {
	switch len(ids) {
	case 3:
		return NewTriangle(ids[0], ids[1], ids[2]), nil
	case 4:
		return NewQuad(ids[0], ids[1], ids[2], ids[3]), nil
	}
	return Face{}, fmt.Errorf("kernel: a face needs 3 or 4 vertices, got %d", len(ids))
}

// Kind returns the face's arity tag.
func (f Face) Kind() FaceKind { return f.kind }

// Arity returns the number of vertices the face references.
func (f Face) Arity() int { return int(f.kind) }

// Valid reports whether the face is a triangle or a quad.
func (f Face) Valid() bool { return f.kind == Triangle || f.kind == Quad }

// IDs returns a copy of the referenced vertex IDs in winding order.
func (f Face) IDs() []int {
	if !f.Valid() {
		return nil
	}
	out := make([]int, f.Arity())
	copy(out, f.ids[:f.Arity()])
	return out
}

// ID returns the i-th vertex ID in winding order.
func (f Face) ID(i int) int { return f.ids[i] }

// Split returns the face as triangles: a triangle is returned as-is and a
// quad (a,b,c,d) becomes (a,b,c) and (a,c,d), which keeps the winding.
func (f Face) Split() []Face {
	if f.kind != Quad {
		return []Face{f}
	}
	return []Face{
		NewTriangle(f.ids[0], f.ids[1], f.ids[2]),
		NewTriangle(f.ids[0], f.ids[2], f.ids[3]),
	}
}

func (f Face) String() string {
	parts := make([]string, 0, 4)
	for _, id := range f.IDs() {
		parts = append(parts, fmt.Sprint(id))
	}
	return fmt.Sprintf("%s(%s)", f.kind, strings.Join(parts, " "))
}

// Mesh is a polygonal surface: vertices keyed by 1-based ID plus an ordered
// face list. Stages that drop or reorder faces build a new Mesh with
// WithFaces; the vertex map is shared and never mutated after loading.
type Mesh struct {
	Vertices map[int]v3.Vec
	Faces    []Face
	Name     string // optional, e.g. the scene solid it came from
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{Vertices: make(map[int]v3.Vec)}
}

// AddVertex stores v under the next sequential ID and returns that ID.
func (m *Mesh) AddVertex(v v3.Vec) int {
	if m.Vertices == nil {
		m.Vertices = make(map[int]v3.Vec)
	}
	id := len(m.Vertices) + 1
	m.Vertices[id] = v
	return id
}

// AddFace appends a face.
func (m *Mesh) AddFace(f Face) {
	m.Faces = append(m.Faces, f)
}

// WithFaces returns a mesh sharing m's vertices with a different face list.
func (m *Mesh) WithFaces(faces []Face) *Mesh {
	return &Mesh{Vertices: m.Vertices, Faces: faces, Name: m.Name}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no faces to draw.
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// VertexIDs returns all vertex IDs in ascending order.
func (m *Mesh) VertexIDs() []int {
	ids := make([]int, 0, len(m.Vertices))
	for id := range m.Vertices {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Bounds returns the axis-aligned bounding box of all vertices.
// The second result is false for a mesh without vertices.
func (m *Mesh) Bounds() (sdf.Box3, bool) {
	if len(m.Vertices) == 0 {
		return sdf.Box3{}, false
	}
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		lo = v3.Vec{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = v3.Vec{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	return sdf.Box3{Min: lo, Max: hi}, true
}
