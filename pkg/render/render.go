// Package render runs the polyview pipeline: validate, cull back faces,
// sort back to front, project, fit to the viewport and emit SVG.
//
// Render is synchronous and keeps no state between calls, so separate
// renders may run concurrently. Any error aborts the run and no partial
// document is returned.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/chazu/polyview/pkg/cull"
	"github.com/chazu/polyview/pkg/depth"
	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/meshio"
	"github.com/chazu/polyview/pkg/observe"
	"github.com/chazu/polyview/pkg/project"
	"github.com/chazu/polyview/pkg/raster"
	"github.com/chazu/polyview/pkg/svgout"
	"github.com/chazu/polyview/pkg/viewport"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Stats counts what happened to the mesh.
type Stats struct {
	Vertices int
	Faces    int // faces in the input mesh
	Culled   int // faces removed as back-facing
	Drawn    int // polygons in the document
	Warnings int // validation and orientation warnings
}

// Result is a finished render.
type Result struct {
	RunID string
	// Image holds the drawn faces in paint order with their final 2D
	// points (after fitting, when enabled).
	Image     *kernel.Image
	Document  []byte
	Stats     Stats
	Transform viewport.Transform
	Params    Params
	Options   Options
}

// Render draws m as seen from p.Eye.
func Render(m *kernel.Mesh, p Params, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(opts.Fit); err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	sink := observe.With(opts.Sink, slog.String("run", runID))
	stats := Stats{Vertices: m.VertexCount(), Faces: m.FaceCount()}

	checked := kernel.ValidateAll(m)
	if !checked.OK() {
		return nil, checked.Errors[0]
	}
	for _, w := range checked.Warnings {
		sink.Emit(observe.Warn(observe.EventMeshWarning,
			slog.String("code", w.Code),
			slog.Int("face", w.Face+1),
			slog.String("message", w.Message),
		))
	}
	stats.Warnings = len(checked.Warnings)

	if !depth.CheckOrientation(m, p.Eye, sink) {
		stats.Warnings++
	}

	visible := cull.Filter(m, p.Eye, cull.WithSink(sink), cull.WithThreshold(opts.ParallelThreshold))
	stats.Culled = m.FaceCount() - visible.FaceCount()

	ordered := depth.Sort(visible, depth.WithSink(sink), depth.WithThreshold(opts.ParallelThreshold))

	img, err := project.Image(ordered, p.Eye, project.WithSink(sink), project.WithThreshold(opts.ParallelThreshold))
	if err != nil {
		return nil, err
	}

	transform := viewport.Identity()
	frame := svgout.Options{
		Width:     float64(p.Width),
		Height:    float64(p.Height),
		Style:     opts.Style,
		Precision: opts.Precision,
		Title:     opts.Title,
		Sink:      sink,
	}
	if opts.Fit {
		img, transform, err = viewport.FitImage(img, p.Width, p.Height, opts.Margin, sink)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
	} else {
		frame.ViewBox, frame.Width, frame.Height = unfittedFrame(img, p)
	}
	stats.Drawn = img.PolygonCount()

	doc, err := svgout.Bytes(img, frame)
	if err != nil {
		return nil, err
	}

	sink.Emit(observe.NewEvent(observe.EventRenderCompleted,
		slog.Int("vertices", stats.Vertices),
		slog.Int("faces", stats.Faces),
		slog.Int("culled", stats.Culled),
		slog.Int("drawn", stats.Drawn),
		slog.Int("warnings", stats.Warnings),
	))

	return &Result{
		RunID:     runID,
		Image:     img,
		Document:  doc,
		Stats:     stats,
		Transform: transform,
		Params:    p,
		Options:   opts,
	}, nil
}

// RenderSource parses a mesh from r and renders it. Parse events carry
// the same run ID as the render.
func RenderSource(r io.Reader, p Params, opts Options) (*Result, error) {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	m, err := meshio.Parse(r,
		meshio.WithSink(observe.With(opts.Sink, slog.String("run", opts.RunID))),
		meshio.WithTriangulate(opts.Triangulate),
	)
	if err != nil {
		return nil, err
	}
	return Render(m, p, opts)
}

// RenderString is RenderSource over an in-memory mesh.
func RenderString(src string, p Params, opts Options) (*Result, error) {
	return RenderSource(strings.NewReader(src), p, opts)
}

// WritePNG paints the result's image as a PNG preview with the same size
// and style as the document. An unfitted image is shifted so its viewBox
// origin lands on the top-left pixel.
func (r *Result) WritePNG(w io.Writer) error {
	img := r.Image
	width, height := r.Params.Width, r.Params.Height
	if !r.Options.Fit {
		box, fw, fh := unfittedFrame(r.Image, r.Params)
		shift := viewport.Transform{Scale: 1, Center: box.Min}
		img = &kernel.Image{
			Vertices: lo.MapValues(r.Image.Vertices, func(p v2.Vec, _ int) v2.Vec { return shift.Apply(p) }),
			Faces:    r.Image.Faces,
		}
		width, height = max(int(math.Ceil(fw)), 1), max(int(math.Ceil(fh)), 1)
	}
	return raster.Write(w, img, raster.Options{
		Width:  width,
		Height: height,
		Style:  r.Options.Style,
		Sink:   observe.With(r.Options.Sink, slog.String("run", r.RunID)),
	})
}

// unfittedFrame picks the SVG frame when coordinates are left as
// projected: the viewBox is the drawn bounds, and the document size is
// the viewport when one was given, otherwise the bounds size.
func unfittedFrame(img *kernel.Image, p Params) (sdf.Box2, float64, float64) {
	box, ok := img.Bounds()
	if !ok {
		box = sdf.Box2{Max: v2.Vec{X: float64(max(p.Width, 1)), Y: float64(max(p.Height, 1))}}
	}
	w, h := float64(p.Width), float64(p.Height)
	if p.Width <= 0 || p.Height <= 0 {
		w, h = box.Max.X-box.Min.X, box.Max.Y-box.Min.Y
	}
	return box, w, h
}
