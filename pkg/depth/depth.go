// Package depth orders faces back to front for painter's-algorithm drawing.
//
// Z convention: the camera looks toward -Z, so "far" means a more negative
// Z. Faces are sorted by ascending mean Z of their vertices, which paints
// the farthest face first as long as the eye sits above the mesh
// (eye.Z greater than every vertex Z). CheckOrientation reports when it
// does not.
package depth

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/chazu/polyview/internal/parallel"
	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

type options struct {
	sink      observe.Sink
	threshold int
}

// Option configures Sort.
type Option func(*options)

// WithSink routes the sort event to s.
func WithSink(s observe.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithThreshold sets the face count at which key computation goes
// parallel. Negative disables parallelism.
func WithThreshold(n int) Option {
	return func(o *options) { o.threshold = n }
}

// Key is the sort key of f: the mean Z of its referenced vertices.
func Key(f kernel.Face, vertices map[int]v3.Vec) float64 {
	return kernel.Centroid(f, vertices).Z
}

// Sort returns a mesh with m's faces in ascending Key order, farthest
// first. The sort is stable: faces with equal keys keep their input order.
// The vertex map is shared with m.
func Sort(m *kernel.Mesh, opts ...Option) *kernel.Mesh {
	o := options{sink: observe.Nop, threshold: parallel.DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	keys := make([]float64, len(m.Faces))
	_ = parallel.ForEach(len(m.Faces), o.threshold, func(i int) error {
		keys[i] = Key(m.Faces[i], m.Vertices)
		return nil
	})

	order := make([]int, len(m.Faces))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(keys[a], keys[b])
	})

	faces := make([]kernel.Face, len(order))
	for i, idx := range order {
		faces[i] = m.Faces[idx]
	}

	attrs := []slog.Attr{slog.Int("faces", len(faces))}
	if len(order) > 0 {
		attrs = append(attrs,
			slog.Float64("far", keys[order[0]]),
			slog.Float64("near", keys[order[len(order)-1]]),
		)
	}
	observe.OrNop(o.sink).Emit(observe.Event{Name: observe.EventSorted, Level: slog.LevelDebug, Attrs: attrs})

	return m.WithFaces(faces)
}

// CheckOrientation reports whether eye sits strictly above every vertex of
// m along Z, which is when ascending-Z order is back to front. When it does
// not, a warning event is sent to sink. An empty mesh is always fine.
func CheckOrientation(m *kernel.Mesh, eye v3.Vec, sink observe.Sink) bool {
	box, ok := m.Bounds()
	if !ok || eye.Z > box.Max.Z {
		return true
	}
	observe.OrNop(sink).Emit(observe.Warn(observe.EventOrientation,
		slog.Float64("eye_z", eye.Z),
		slog.Float64("mesh_max_z", box.Max.Z),
		slog.String("message", "eye is not above the mesh along Z; painter order may be inverted"),
	))
	return false
}
