// Package svgout writes an Image as an SVG document: one filled <polygon>
// per face, in the image's face order, so later faces paint over earlier
// ones. Coordinates are written as given; fitting happens upstream.
package svgout

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	svg "github.com/ajstarks/svgo/float"
	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	"github.com/chazu/polyview/pkg/style"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"
)

// DefaultPrecision is the number of decimals written per coordinate.
const DefaultPrecision = 2

// Options controls the document frame and paint.
type Options struct {
	Width, Height float64
	// ViewBox is the user-space rectangle shown. Zero means 0 0 Width Height.
	ViewBox   sdf.Box2
	Style     style.Style
	Precision int    // decimals per coordinate; negative means DefaultPrecision
	Title     string // optional <title>
	Sink      observe.Sink
}

// errWriter keeps the first write error; svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
	return len(p), nil
}

// Write emits img to w.
func Write(w io.Writer, img *kernel.Image, opts Options) error {
	if err := opts.Style.Validate(); err != nil {
		return fmt.Errorf("svgout: %w", err)
	}
	precision := opts.Precision
	if precision < 0 {
		precision = DefaultPrecision
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Decimals = precision

	vb := opts.ViewBox
	if vb == (sdf.Box2{}) {
		vb = sdf.Box2{Max: v2.Vec{X: opts.Width, Y: opts.Height}}
	}
	canvas.Start(opts.Width, opts.Height,
		`version="1.1"`,
		fmt.Sprintf(`viewBox="%.*f %.*f %.*f %.*f"`,
			precision, vb.Min.X, precision, vb.Min.Y,
			precision, vb.Max.X-vb.Min.X, precision, vb.Max.Y-vb.Min.Y),
	)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	css := opts.Style.CSS()
	for i := range img.Faces {
		pts, err := img.Points(i)
		if err != nil {
			return fmt.Errorf("svgout: %w", err)
		}
		xs := lo.Map(pts, func(p v2.Vec, _ int) float64 { return p.X })
		ys := lo.Map(pts, func(p v2.Vec, _ int) float64 { return p.Y })
		canvas.Polygon(xs, ys, css)
	}
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("svgout: write: %w", ew.err)
	}

	observe.OrNop(opts.Sink).Emit(observe.Event{
		Name:  observe.EventSVGEmitted,
		Level: slog.LevelDebug,
		Attrs: []slog.Attr{slog.Int("polygons", img.PolygonCount())},
	})
	return nil
}

// Bytes renders img into memory.
func Bytes(img *kernel.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
