// Package cull removes faces that point away from the viewer.
//
// A face is visible when the vector from the eye to its centroid opposes
// its normal: dot(centroid-eye, normal) < 0. Faces seen exactly edge-on
// (dot == 0) are culled. The normal comes from the first three vertices
// in winding order, so counter-clockwise faces (seen from outside) point
// outward.
package cull

import (
	"log/slog"

	"github.com/chazu/polyview/internal/parallel"
	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

type options struct {
	sink      observe.Sink
	threshold int
}

// Option configures Filter.
type Option func(*options)

// WithSink routes the cull statistics event to s.
func WithSink(s observe.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithThreshold sets the face count at which classification goes
// parallel. Negative disables parallelism.
func WithThreshold(n int) Option {
	return func(o *options) { o.threshold = n }
}

// Visible reports whether f faces the eye.
func Visible(f kernel.Face, vertices map[int]v3.Vec, eye v3.Vec) bool {
	ray := kernel.Centroid(f, vertices).Sub(eye)
	return kernel.Dot(ray, kernel.Normal(f, vertices)) < 0
}

// Filter returns a mesh holding only the faces of m that face eye, in
// their original relative order. The vertex map is shared with m. Every
// face must reference existing vertices.
func Filter(m *kernel.Mesh, eye v3.Vec, opts ...Option) *kernel.Mesh {
	o := options{sink: observe.Nop, threshold: parallel.DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	keep := make([]bool, len(m.Faces))
	_ = parallel.ForEach(len(m.Faces), o.threshold, func(i int) error {
		keep[i] = Visible(m.Faces[i], m.Vertices, eye)
		return nil
	})

	survivors := lo.Filter(m.Faces, func(_ kernel.Face, i int) bool { return keep[i] })

	observe.OrNop(o.sink).Emit(observe.Event{
		Name:  observe.EventCulled,
		Level: slog.LevelDebug,
		Attrs: []slog.Attr{
			slog.Int("culled", len(m.Faces)-len(survivors)),
			slog.Int("total", len(m.Faces)),
		},
	})
	return m.WithFaces(survivors)
}
