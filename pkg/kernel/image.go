package kernel

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Image is the 2D result of a render: projected points keyed by the mesh's
// vertex IDs and faces in draw order (farthest first).
type Image struct {
	Vertices map[int]v2.Vec
	Faces    []Face
}

// MissingPointError reports a face whose vertex has no projected point.
type MissingPointError struct {
	Face   int
	Vertex int
}

func (e MissingPointError) Error() string {
	return fmt.Sprintf("face %d: no projected point for vertex %d", e.Face, e.Vertex)
}

// Points returns the 2D points of face i in winding order.
func (img *Image) Points(i int) ([]v2.Vec, error) {
	f := img.Faces[i]
	pts := make([]v2.Vec, 0, f.Arity())
	for _, id := range f.IDs() {
		p, ok := img.Vertices[id]
		if !ok {
			return nil, MissingPointError{Face: i, Vertex: id}
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// PolygonCount returns the number of faces that will be drawn.
func (img *Image) PolygonCount() int {
	return len(img.Faces)
}

// Bounds returns the bounding box of the points referenced by the faces.
// Unreferenced points do not contribute. The second result is false when
// no face references a known point.
func (img *Image) Bounds() (sdf.Box2, bool) {
	lo := v2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := v2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	found := false
	for _, f := range img.Faces {
		for _, id := range f.IDs() {
			p, ok := img.Vertices[id]
			if !ok {
				continue
			}
			found = true
			lo = v2.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
			hi = v2.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
		}
	}
	if !found {
		return sdf.Box2{}, false
	}
	return sdf.Box2{Min: lo, Max: hi}, true
}
