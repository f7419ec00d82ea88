// Command polyview draws a polygon mesh as an SVG line drawing seen from a
// chosen viewpoint.
//
//	polyview -x 2 -y 2 -z 10 -W 400 -H 400 -o cube.svg examples/cube.obj
//	polyview -scene examples/bracket.zy -png bracket.png -o bracket.svg
//
// The mesh is read from the positional argument ("-" for stdin) or built
// by a (render ...) call in the scene script.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/polyview/pkg/kernel/sdfx"
	"github.com/chazu/polyview/pkg/observe"
	"github.com/chazu/polyview/pkg/render"
	"github.com/chazu/polyview/pkg/scene"
	"github.com/chazu/polyview/pkg/style"
	"github.com/google/uuid"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitBadMesh    = 3
	exitProjection = 4
	exitScene      = 5
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type config struct {
	x, y, z       float64
	width, height int
	out           string
	pngPath       string
	scenePath     string
	fill, stroke  string
	strokeWidth   float64
	margin        float64
	noFit         bool
	precision     int
	triangulate   bool
	title         string
	verbose       bool

	set  map[string]bool // flags given on the command line
	args []string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	def := style.Default()
	c := &config{set: map[string]bool{}}

	fs := flag.NewFlagSet("polyview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: polyview [options] <mesh file | ->")
		fs.PrintDefaults()
	}
	fs.Float64Var(&c.x, "x", render.DefaultEye.X, "Viewer x coordinate.")
	fs.Float64Var(&c.y, "y", render.DefaultEye.Y, "Viewer y coordinate.")
	fs.Float64Var(&c.z, "z", render.DefaultEye.Z, "Viewer z coordinate.")
	fs.IntVar(&c.width, "W", render.DefaultWidth, "Viewport width.")
	fs.IntVar(&c.height, "H", render.DefaultHeight, "Viewport height.")
	fs.StringVar(&c.out, "o", "-", "Output SVG path (- for stdout).")
	fs.StringVar(&c.pngPath, "png", "", "Also write a PNG preview to this path.")
	fs.StringVar(&c.scenePath, "scene", "", "Scene script to evaluate before rendering.")
	fs.StringVar(&c.fill, "fill", def.Fill, "Polygon fill colour (#rgb, #rrggbb or none).")
	fs.StringVar(&c.stroke, "stroke", def.Stroke, "Polygon outline colour (#rgb, #rrggbb or none).")
	fs.Float64Var(&c.strokeWidth, "stroke-width", def.StrokeWidth, "Outline width.")
	fs.Float64Var(&c.margin, "margin", render.DefaultMargin, "Blank border kept when fitting, in pixels.")
	fs.BoolVar(&c.noFit, "nofit", false, "Write projected coordinates without fitting them to the viewport.")
	fs.IntVar(&c.precision, "precision", render.DefaultOptions().Precision, "Decimals per SVG coordinate.")
	fs.BoolVar(&c.triangulate, "triangulate", false, "Split quads into triangles when loading.")
	fs.StringVar(&c.title, "title", "", "Document title.")
	fs.BoolVar(&c.verbose, "v", false, "Log every pipeline stage to stderr.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { c.set[f.Name] = true })
	c.args = fs.Args()

	if len(c.args) > 1 {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected one mesh file, got %d arguments", errUsage, len(c.args))
	}
	if len(c.args) == 0 && c.scenePath == "" {
		fs.Usage()
		return nil, fmt.Errorf("%w: missing mesh file", errUsage)
	}
	return c, nil
}

// apply overlays the flags given on the command line. Flags left at their
// defaults do not override settings chosen by a scene script.
func (c *config) apply(p render.Params, o render.Options) (render.Params, render.Options) {
	for name := range c.set {
		switch name {
		case "x":
			p.Eye.X = c.x
		case "y":
			p.Eye.Y = c.y
		case "z":
			p.Eye.Z = c.z
		case "W":
			p.Width = c.width
		case "H":
			p.Height = c.height
		case "fill":
			o.Style.Fill = c.fill
		case "stroke":
			o.Style.Stroke = c.stroke
		case "stroke-width":
			o.Style.StrokeWidth = c.strokeWidth
		case "margin":
			o.Margin = c.margin
		case "nofit":
			o.Fit = !c.noFit
		}
	}
	o.Precision = c.precision
	o.Triangulate = c.triangulate
	o.Title = c.title
	return p, o
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	observe.SetLogger(logger)
	defer observe.SetLogger(nil)

	runID := uuid.NewString()
	p, o := render.DefaultParams(), render.DefaultOptions()
	o.RunID = runID
	o.Sink = observe.NewSlogSink(logger)

	res, err := execute(c, p, o, stdin)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitCode(err)
	}

	if err := writeOutputs(c, res, stdout); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFailure
	}
	return exitOK
}

// execute evaluates the scene script, if any, and renders the mesh.
func execute(c *config, p render.Params, o render.Options, stdin io.Reader) (*render.Result, error) {
	var sc *scene.Scene
	if c.scenePath != "" {
		src, err := os.ReadFile(c.scenePath)
		if err != nil {
			return nil, fmt.Errorf("read scene: %w", err)
		}
		ev := scene.NewEvaluator(sdfx.New(),
			scene.WithSink(observe.With(o.Sink, slog.String("run", o.RunID))),
		)
		sc, err = ev.Evaluate(string(src))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.scenePath, err)
		}
		p, o = render.ApplyScene(sc, p, o)
	}
	p, o = c.apply(p, o)

	if len(c.args) == 0 {
		if sc.Mesh == nil {
			return nil, fmt.Errorf("%w: no mesh file given and %s does not call render", errUsage, c.scenePath)
		}
		return render.Render(sc.Mesh, p, o)
	}
	if sc != nil && sc.Mesh != nil {
		return nil, fmt.Errorf("%w: mesh file given but %s also renders a solid", errUsage, c.scenePath)
	}

	path := c.args[0]
	if path == "-" {
		return render.RenderSource(stdin, p, o)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := render.RenderSource(f, p, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func writeOutputs(c *config, res *render.Result, stdout io.Writer) error {
	if c.out == "-" {
		if _, err := stdout.Write(res.Document); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	} else if err := os.WriteFile(c.out, res.Document, 0o644); err != nil {
		return fmt.Errorf("write svg %q: %w", c.out, err)
	}

	if c.pngPath == "" {
		return nil
	}
	f, err := os.Create(c.pngPath)
	if err != nil {
		return fmt.Errorf("create png %q: %w", c.pngPath, err)
	}
	if err := res.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write png %q: %w", c.pngPath, err)
	}
	return f.Close()
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return exitUsage
	}
	switch render.KindOf(err) {
	case render.KindParse, render.KindArity, render.KindReference:
		return exitBadMesh
	case render.KindProjection:
		return exitProjection
	case render.KindParams:
		return exitUsage
	case render.KindScene:
		return exitScene
	default:
		return exitFailure
	}
}
