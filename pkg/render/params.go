package render

import (
	"fmt"
	"math"

	"github.com/chazu/polyview/internal/parallel"
	"github.com/chazu/polyview/pkg/observe"
	"github.com/chazu/polyview/pkg/scene"
	"github.com/chazu/polyview/pkg/style"
	"github.com/chazu/polyview/pkg/svgout"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Defaults for a render when nothing else is configured.
const (
	DefaultWidth  = 100
	DefaultHeight = 100
	DefaultMargin = 4.0
	MaxPrecision  = 12
)

// DefaultEye looks down the Z axis from 10 units above the XY plane.
var DefaultEye = v3.Vec{Z: 10}

// Params is the viewing bundle: where the eye is and how large the
// output is. Width and Height only frame the image; culling, sorting and
// projection ignore them.
type Params struct {
	Eye    v3.Vec
	Width  int
	Height int
}

// DefaultParams returns the default eye and a 100x100 viewport.
func DefaultParams() Params {
	return Params{Eye: DefaultEye, Width: DefaultWidth, Height: DefaultHeight}
}

// Validate checks that the eye is finite and, when the image is fitted to
// the viewport, that the viewport has a positive size.
func (p Params) Validate(fit bool) error {
	for i, c := range []float64{p.Eye.X, p.Eye.Y, p.Eye.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: eye %c coordinate is %v", ErrInvalidParams, "xyz"[i], c)
		}
	}
	if fit && (p.Width <= 0 || p.Height <= 0) {
		return fmt.Errorf("%w: viewport %dx%d must be positive", ErrInvalidParams, p.Width, p.Height)
	}
	return nil
}

// Options are the render settings that are not part of the view.
type Options struct {
	Style style.Style
	// Fit scales the drawn faces into the viewport, centred, with Y up.
	// Without it projected coordinates are written unchanged.
	Fit    bool
	Margin float64
	// Precision is the number of decimals per SVG coordinate.
	Precision int
	// Triangulate splits quads when loading from text.
	Triangulate bool
	// ParallelThreshold is the face or vertex count at which per-item work
	// fans out across CPUs. Negative disables it.
	ParallelThreshold int
	Title             string
	// RunID tags every event of the run. Empty means a fresh UUID.
	RunID string
	Sink  observe.Sink
}

// DefaultOptions returns the default style, fitting on, and the default
// margin and precision.
func DefaultOptions() Options {
	return Options{
		Style:             style.Default(),
		Fit:               true,
		Margin:            DefaultMargin,
		Precision:         svgout.DefaultPrecision,
		ParallelThreshold: parallel.DefaultThreshold,
	}
}

// Validate checks the style, margin and precision.
func (o Options) Validate() error {
	if err := o.Style.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if o.Margin < 0 || math.IsNaN(o.Margin) || math.IsInf(o.Margin, 0) {
		return fmt.Errorf("%w: margin %v", ErrInvalidParams, o.Margin)
	}
	if o.Precision < 0 || o.Precision > MaxPrecision {
		return fmt.Errorf("%w: precision %d outside 0..%d", ErrInvalidParams, o.Precision, MaxPrecision)
	}
	return nil
}

// ApplyScene overlays the settings a scene script chose onto p and o.
// Settings the script left out keep their current values.
func ApplyScene(s *scene.Scene, p Params, o Options) (Params, Options) {
	if s == nil {
		return p, o
	}
	v := s.View
	if v.Eye != nil {
		p.Eye = *v.Eye
	}
	if v.Width != nil {
		p.Width = *v.Width
	}
	if v.Height != nil {
		p.Height = *v.Height
	}
	if v.Margin != nil {
		o.Margin = *v.Margin
	}
	if v.Fit != nil {
		o.Fit = *v.Fit
	}

	st := s.Style
	if st.Fill != nil {
		o.Style.Fill = *st.Fill
	}
	if st.Stroke != nil {
		o.Style.Stroke = *st.Stroke
	}
	if st.StrokeWidth != nil {
		o.Style.StrokeWidth = *st.StrokeWidth
	}
	return p, o
}
