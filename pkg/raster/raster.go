// Package raster paints an Image into a PNG with the same painter's
// order as the SVG output. It is a preview: points are taken as pixel
// coordinates, so the image should already be fitted to the viewport.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	"github.com/chazu/polyview/pkg/style"
	"github.com/gogpu/gg"
)

// DefaultBackground is the canvas colour behind the polygons.
const DefaultBackground = "#ffffff"

// ErrSize is returned for a non-positive canvas.
var ErrSize = errors.New("raster: canvas size must be positive")

// Options controls the canvas and paint.
type Options struct {
	Width, Height int
	Style         style.Style
	Background    string // hex colour; empty means DefaultBackground
	Sink          observe.Sink
}

// Write paints img and encodes it as PNG to w.
func Write(w io.Writer, img *kernel.Image, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrSize, opts.Width, opts.Height)
	}
	if err := opts.Style.Validate(); err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	bg := opts.Background
	if bg == "" {
		bg = DefaultBackground
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex(bg))

	for i := range img.Faces {
		pts, err := img.Points(i)
		if err != nil {
			return fmt.Errorf("raster: %w", err)
		}
		dc.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		if err := paint(dc, opts.Style); err != nil {
			return fmt.Errorf("raster: face %d: %w", i, err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("raster: encode: %w", err)
	}

	observe.OrNop(opts.Sink).Emit(observe.Event{
		Name:  observe.EventRasterEmitted,
		Level: slog.LevelDebug,
		Attrs: []slog.Attr{
			slog.Int("polygons", img.PolygonCount()),
			slog.Int("width", opts.Width),
			slog.Int("height", opts.Height),
		},
	})
	return nil
}

// Bytes renders img to PNG bytes.
func Bytes(img *kernel.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// paint fills and/or strokes the current path, leaving it cleared.
func paint(dc *gg.Context, s style.Style) error {
	switch {
	case s.HasFill() && s.HasStroke():
		dc.SetHexColor(s.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		return stroke(dc, s)
	case s.HasFill():
		dc.SetHexColor(s.Fill)
		return dc.Fill()
	case s.HasStroke():
		return stroke(dc, s)
	default:
		dc.ClearPath()
		return nil
	}
}

func stroke(dc *gg.Context, s style.Style) error {
	dc.SetHexColor(s.Stroke)
	dc.SetLineWidth(s.StrokeWidth)
	return dc.Stroke()
}
