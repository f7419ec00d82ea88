// Package meshio loads meshes from the line-oriented text format:
//
//	# comment
//	v <x> <y> <z>
//	f <id1> <id2> <id3> [<id4>]
//
// Vertices get sequential 1-based IDs in file order. Faces reference them
// by those IDs; relative (negative) indexing is not supported. Any
// malformed line aborts the load and no partial mesh is returned.
package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// maxLineBytes bounds a single source line.
const maxLineBytes = 1 << 20

type options struct {
	sink        observe.Sink
	triangulate bool
}

// Option configures Parse.
type Option func(*options)

// WithSink routes parse events to s.
func WithSink(s observe.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithTriangulate splits every quad (a,b,c,d) into (a,b,c) and (a,c,d) at
// load time, so non-planar quads are drawn as two flat triangles.
func WithTriangulate(on bool) Option {
	return func(o *options) { o.triangulate = on }
}

// ParseString parses a mesh held in memory.
func ParseString(src string, opts ...Option) (*kernel.Mesh, error) {
	return Parse(strings.NewReader(src), opts...)
}

// Parse reads a mesh from r. Errors are ParseError, ArityError or
// kernel.ReferenceError for bad input, or a wrapped read error.
func Parse(r io.Reader, opts ...Option) (*kernel.Mesh, error) {
	o := options{sink: observe.Nop}
	for _, opt := range opts {
		opt(&o)
	}
	o.sink = observe.OrNop(o.sink)

	m, err := parse(r, o.triangulate)
	if err != nil {
		o.sink.Emit(failureEvent(err))
		return nil, err
	}

	o.sink.Emit(observe.Event{
		Name:  observe.EventParsed,
		Level: slog.LevelDebug,
		Attrs: []slog.Attr{
			slog.Int("vertices", m.VertexCount()),
			slog.Int("faces", m.FaceCount()),
		},
	})
	return m, nil
}

func parse(r io.Reader, triangulate bool) (*kernel.Mesh, error) {
	m := kernel.NewMesh()
	var faceLines []int // source line of each face, parallel to m.Faces

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		switch tokens[0] {
		case "v":
			v, err := parseVertex(tokens, lineNo, line)
			if err != nil {
				return nil, err
			}
			m.AddVertex(v)

		case "f":
			f, err := parseFace(tokens, lineNo, line)
			if err != nil {
				return nil, err
			}
			faces := []kernel.Face{f}
			if triangulate {
				faces = f.Split()
			}
			for _, face := range faces {
				m.AddFace(face)
				faceLines = append(faceLines, lineNo)
			}

		default:
			return nil, ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("unrecognized token %q", tokens[0])}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("meshio: read line %d: %w", lineNo+1, err)
	}

	// References are resolved against the complete vertex map.
	if err := kernel.CheckReferences(m); err != nil {
		var refErr kernel.ReferenceError
		if errors.As(err, &refErr) {
			refErr.Line = faceLines[refErr.Face]
			return nil, refErr
		}
		return nil, err
	}
	return m, nil
}

func parseVertex(tokens []string, lineNo int, line string) (v3.Vec, error) {
	if len(tokens) != 4 {
		return v3.Vec{}, ParseError{
			Line:   lineNo,
			Text:   line,
			Reason: fmt.Sprintf("vertex needs 3 coordinates, got %d", len(tokens)-1),
		}
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return v3.Vec{}, ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("bad coordinate %q", tokens[i+1])}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v3.Vec{}, ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("non-finite coordinate %q", tokens[i+1])}
		}
		c[i] = f
	}
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

func parseFace(tokens []string, lineNo int, line string) (kernel.Face, error) {
	if len(tokens) != 4 && len(tokens) != 5 {
		return kernel.Face{}, ArityError{Line: lineNo, Count: len(tokens) - 1}
	}
	ids := make([]int, 0, 4)
	for _, tok := range tokens[1:] {
		id, err := strconv.Atoi(tok)
		if err != nil {
			return kernel.Face{}, ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("bad vertex index %q", tok)}
		}
		ids = append(ids, id)
	}
	return kernel.NewFace(ids...)
}

// failureEvent describes err for the sink.
func failureEvent(err error) observe.Event {
	attrs := []slog.Attr{slog.String("error", err.Error())}

	var pe ParseError
	var ae ArityError
	var re kernel.ReferenceError
	switch {
	case errors.As(err, &pe):
		attrs = append(attrs, slog.String("kind", "parse"), slog.Int("line", pe.Line))
	case errors.As(err, &ae):
		attrs = append(attrs, slog.String("kind", "arity"), slog.Int("line", ae.Line))
	case errors.As(err, &re):
		attrs = append(attrs, slog.String("kind", "reference"), slog.Int("line", re.Line), slog.Int("vertex", re.Vertex))
	default:
		attrs = append(attrs, slog.String("kind", "io"))
	}
	return observe.Event{Name: observe.EventParseFailed, Level: slog.LevelError, Attrs: attrs}
}
