// Package viewport maps projected points into an output rectangle.
//
// The bounding box of the drawn points is scaled uniformly to fit
// width x height minus a margin on every side, centred, with Y flipped so
// that +Y points up in the image as it does in the scene.
package viewport

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"
)

// ErrNoArea is returned when the margin leaves nothing to draw into.
var ErrNoArea = errors.New("viewport: margin leaves no drawable area")

// Transform is a uniform scale about Center, an optional Y flip, and a
// move to Target.
type Transform struct {
	Scale  float64
	Center v2.Vec
	Target v2.Vec
	FlipY  bool
}

// Identity leaves points unchanged.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply maps p.
func (t Transform) Apply(p v2.Vec) v2.Vec {
	dx := (p.X - t.Center.X) * t.Scale
	dy := (p.Y - t.Center.Y) * t.Scale
	if t.FlipY {
		dy = -dy
	}
	return v2.Vec{X: t.Target.X + dx, Y: t.Target.Y + dy}
}

// Fit returns the transform placing bounds inside a width x height
// rectangle with margin units left free on each side. A bounds box that
// is flat along one axis is scaled by the other; a single point is centred
// without scaling.
func Fit(bounds sdf.Box2, width, height int, margin float64) (Transform, error) {
	availW := float64(width) - 2*margin
	availH := float64(height) - 2*margin
	if availW <= 0 || availH <= 0 {
		return Transform{}, fmt.Errorf("%w: %dx%d with margin %g", ErrNoArea, width, height, margin)
	}

	bw := bounds.Max.X - bounds.Min.X
	bh := bounds.Max.Y - bounds.Min.Y

	var scale float64
	switch {
	case bw > 0 && bh > 0:
		scale = math.Min(availW/bw, availH/bh)
	case bw > 0:
		scale = availW / bw
	case bh > 0:
		scale = availH / bh
	default:
		scale = 1
	}

	return Transform{
		Scale:  scale,
		Center: v2.Vec{X: (bounds.Min.X + bounds.Max.X) / 2, Y: (bounds.Min.Y + bounds.Max.Y) / 2},
		Target: v2.Vec{X: float64(width) / 2, Y: float64(height) / 2},
		FlipY:  true,
	}, nil
}

// FitImage fits the points img draws into the rectangle and returns a new
// image with every point transformed. An image with nothing to draw is
// returned as-is with the identity transform.
func FitImage(img *kernel.Image, width, height int, margin float64, sink observe.Sink) (*kernel.Image, Transform, error) {
	bounds, ok := img.Bounds()
	if !ok {
		return img, Identity(), nil
	}
	t, err := Fit(bounds, width, height, margin)
	if err != nil {
		return nil, Transform{}, err
	}

	out := &kernel.Image{
		Vertices: lo.MapValues(img.Vertices, func(p v2.Vec, _ int) v2.Vec { return t.Apply(p) }),
		Faces:    img.Faces,
	}

	observe.OrNop(sink).Emit(observe.Event{
		Name:  observe.EventFitted,
		Level: slog.LevelDebug,
		Attrs: []slog.Attr{
			slog.Float64("scale", t.Scale),
			slog.Float64("bounds_w", bounds.Max.X-bounds.Min.X),
			slog.Float64("bounds_h", bounds.Max.Y-bounds.Min.Y),
		},
	})
	return out, t, nil
}
