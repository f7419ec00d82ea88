// Package scene evaluates polyview scene scripts.
//
// A scene script is a sandboxed zygomys (Lisp) program that configures a
// render and may model the solid to draw:
//
//	; a drilled block seen from above and to the right
//	(view :eye (vec3 3 3 12) :width 400 :height 300 :margin 20)
//	(style :fill "#ddeeff" :stroke "#334455" :stroke-width 0.5)
//	(render (difference (box 4 4 2) (cylinder :height 3 :radius 1)))
//
// Settings a script leaves out stay unset in the returned Scene so that the
// caller's defaults apply.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/observe"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the evaluator timeout.
	ErrTimeout = errors.New("scene: evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation was overtaken
	// by a newer one on the same Evaluator.
	ErrSuperseded = errors.New("scene: evaluation superseded by newer request")
)

// EvalError is an error in the script itself: a syntax error, an
// undefined symbol, or a builtin called with bad arguments.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// View holds the viewing settings a script chose. Nil fields were not set.
type View struct {
	Eye    *v3.Vec
	Width  *int
	Height *int
	Margin *float64
	Fit    *bool
}

// Style holds the paint settings a script chose. Nil fields were not set.
type Style struct {
	Fill        *string
	Stroke      *string
	StrokeWidth *float64
}

// Scene is the outcome of a script.
type Scene struct {
	View  View
	Style Style
	// Mesh is the tessellated solid passed to (render ...), or nil.
	Mesh *kernel.Mesh
}

// Evaluator runs scripts against a geometry kernel. Each Evaluate call
// gets a fresh sandbox. Starting a new evaluation makes any evaluation
// still in flight on the same Evaluator return ErrSuperseded, which suits
// an edit-and-rerun loop; independent callers should use separate
// Evaluators.
type Evaluator struct {
	kernel  kernel.Kernel
	timeout time.Duration
	sink    observe.Sink

	mu         sync.Mutex
	generation uint64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.timeout = d }
}

// WithSink routes evaluation events to s.
func WithSink(s observe.Sink) Option {
	return func(e *Evaluator) { e.sink = s }
}

// NewEvaluator returns an evaluator that builds solids with k. A nil k
// leaves the solid builtins failing with an error, which is enough for
// scripts that only configure the view.
func NewEvaluator(k kernel.Kernel, opts ...Option) *Evaluator {
	e := &Evaluator{kernel: k, timeout: DefaultTimeout, sink: observe.Nop}
	for _, opt := range opts {
		opt(e)
	}
	e.sink = observe.OrNop(e.sink)
	return e
}

// Evaluate runs source and returns what it configured. Script errors are
// returned as EvalError; ErrTimeout, ErrSuperseded and recovered panics
// are fatal.
func (e *Evaluator) Evaluate(source string) (*Scene, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("scene: panic during evaluation: %v", r)}
			}
		}()
		s, err := e.evaluate(source)
		ch <- evalResult{scene: s, err: err}
	}()

	s, err := e.wait(ch, gen)
	if err != nil {
		return nil, err
	}

	attrs := []slog.Attr{
		slog.Uint64("generation", gen),
		slog.Bool("has_mesh", s.Mesh != nil),
	}
	if s.Mesh != nil {
		attrs = append(attrs, slog.Int("faces", s.Mesh.FaceCount()))
	}
	e.sink.Emit(observe.Event{Name: observe.EventSceneEvaluated, Level: slog.LevelDebug, Attrs: attrs})
	return s, nil
}

func (e *Evaluator) evaluate(source string) (*Scene, error) {
	s := &Scene{}
	if strings.TrimSpace(source) == "" {
		return s, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := &builder{kernel: e.kernel, scene: s}
	b.register(env)

	if err := env.LoadString(preprocess(source)); err != nil {
		return nil, toEvalError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, toEvalError(err)
	}
	return s, nil
}

// linePattern matches zygomys messages such as "Error on line 3: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line 3: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// toEvalError pulls the line number, when there is one, out of a zygomys
// error.
func toEvalError(err error) EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return EvalError{Line: line, Message: strings.TrimSpace(m[2])}
		}
	}
	return EvalError{Message: strings.TrimSpace(msg)}
}
