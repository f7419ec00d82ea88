// Package project maps mesh vertices onto the image plane.
//
// With the eye at (vx, vy, vz) and z' = -z, a vertex (x, y, z) lands at
//
//	x_out = (z'*vx + x*vz) / (z' + vz)
//	y_out = (z'*vy + y*vz) / (z' + vz)
//
// Points at z = 0 project onto themselves; points further toward -Z are
// pulled toward (vx, vy).
package project

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/chazu/polyview/internal/parallel"
	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ProjectionError reports a vertex whose perspective divide is zero or
// whose projected coordinates are not finite.
type ProjectionError struct {
	Vertex int
	Point  v3.Vec
	Reason string
}

func (e ProjectionError) Error() string {
	return fmt.Sprintf("vertex %d (%g, %g, %g): %s", e.Vertex, e.Point.X, e.Point.Y, e.Point.Z, e.Reason)
}

type options struct {
	sink      observe.Sink
	threshold int
}

// Option configures Vertices and Image.
type Option func(*options)

// WithSink routes the projection event to s.
func WithSink(s observe.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithThreshold sets the vertex count at which projection goes parallel.
// Negative disables parallelism.
func WithThreshold(n int) Option {
	return func(o *options) { o.threshold = n }
}

// Point projects p for the given eye. The error is a ProjectionError
// with Vertex left at 0.
func Point(p, eye v3.Vec) (v2.Vec, error) {
	out, reason := divide(p, eye)
	if reason != "" {
		return v2.Vec{}, ProjectionError{Point: p, Reason: reason}
	}
	return out, nil
}

// divide applies the perspective formula. A non-empty reason means the
// result is unusable.
func divide(p, eye v3.Vec) (v2.Vec, string) {
	zp := -p.Z
	d := zp + eye.Z
	if d == 0 {
		return v2.Vec{}, "zero perspective divide"
	}
	out := v2.Vec{
		X: (zp*eye.X + p.X*eye.Z) / d,
		Y: (zp*eye.Y + p.Y*eye.Z) / d,
	}
	if !finite(out.X) || !finite(out.Y) {
		return v2.Vec{}, "projection is not finite"
	}
	return out, ""
}

// Vertices projects every vertex of m, drawn or not, so the result has the
// same ID domain as the mesh. Vertices are checked in ascending ID order
// and the first failure is returned.
func Vertices(m *kernel.Mesh, eye v3.Vec, opts ...Option) (map[int]v2.Vec, error) {
	o := options{sink: observe.Nop, threshold: parallel.DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	ids := m.VertexIDs()
	points, err := parallel.Map(ids, o.threshold, func(id int) (v2.Vec, error) {
		p := m.Vertices[id]
		out, reason := divide(p, eye)
		if reason != "" {
			return v2.Vec{}, ProjectionError{Vertex: id, Point: p, Reason: reason}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[int]v2.Vec, len(ids))
	for i, id := range ids {
		out[id] = points[i]
	}

	observe.OrNop(o.sink).Emit(observe.Event{
		Name:  observe.EventProjected,
		Level: slog.LevelDebug,
		Attrs: []slog.Attr{slog.Int("vertices", len(out))},
	})
	return out, nil
}

// Image projects m and pairs the points with m's faces, keeping their
// order. Pass the depth-sorted mesh to get faces in draw order.
func Image(m *kernel.Mesh, eye v3.Vec, opts ...Option) (*kernel.Image, error) {
	points, err := Vertices(m, eye, opts...)
	if err != nil {
		return nil, err
	}
	faces := make([]kernel.Face, len(m.Faces))
	copy(faces, m.Faces)
	return &kernel.Image{Vertices: points, Faces: faces}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
