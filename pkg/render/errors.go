package render

import (
	"errors"

	"github.com/chazu/polyview/pkg/kernel"
	"github.com/chazu/polyview/pkg/meshio"
	"github.com/chazu/polyview/pkg/project"
	"github.com/chazu/polyview/pkg/scene"
	"github.com/chazu/polyview/pkg/style"
	"github.com/chazu/polyview/pkg/viewport"
)

// ErrInvalidParams wraps every rejected parameter bundle or option set.
var ErrInvalidParams = errors.New("invalid parameters")

// ErrorKind classifies a pipeline error for reporting.
type ErrorKind int

const (
	KindNone       ErrorKind = iota // nil error
	KindParse                       // malformed mesh line
	KindArity                       // face with a vertex count other than 3 or 4
	KindReference                   // face names a missing vertex
	KindProjection                  // zero or non-finite perspective divide
	KindParams                      // bad viewpoint, viewport, style or option
	KindScene                       // scene script failed
	KindOther                       // I/O and anything unclassified
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindParse:
		return "parse"
	case KindArity:
		return "arity"
	case KindReference:
		return "reference"
	case KindProjection:
		return "projection"
	case KindParams:
		return "params"
	case KindScene:
		return "scene"
	default:
		return "other"
	}
}

// KindOf classifies err, looking through wrapping.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		parseErr meshio.ParseError
		arityErr meshio.ArityError
		validErr kernel.ValidationError
		refErr   kernel.ReferenceError
		missErr  kernel.MissingPointError
		projErr  project.ProjectionError
		sceneErr scene.EvalError
	)
	switch {
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &arityErr), errors.As(err, &validErr):
		return KindArity
	case errors.As(err, &refErr), errors.As(err, &missErr):
		return KindReference
	case errors.As(err, &projErr):
		return KindProjection
	case errors.Is(err, ErrInvalidParams), errors.Is(err, style.ErrInvalid), errors.Is(err, viewport.ErrNoArea):
		return KindParams
	case errors.As(err, &sceneErr), errors.Is(err, scene.ErrTimeout), errors.Is(err, scene.ErrSuperseded):
		return KindScene
	}
	return KindOther
}
