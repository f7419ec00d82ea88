package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/polyview/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// errNoKernel is returned by solid builtins when the evaluator has no kernel.
var errNoKernel = errors.New("no geometry kernel configured")

// ---------------------------------------------------------------------------
// Values passed between builtins
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpSolid struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return "(" + s.desc + ")"
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// keyword returns the name of a preprocessed :keyword.
func keyword(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// args splits a call's arguments into keyword and positional values.
type args struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(in []zygo.Sexp) args {
	a := args{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(in); i++ {
		name, ok := keyword(in[i])
		if !ok {
			a.positional = append(a.positional, in[i])
			continue
		}
		if i+1 < len(in) {
			a.kw[name] = in[i+1]
			i++
		} else {
			a.kw[name] = zygo.SexpNull
		}
	}
	return a
}

// number returns keyword name if present, else positional index pos when
// pos >= 0. found is false when neither was supplied.
func (a args) number(name string, pos int) (v float64, found bool, err error) {
	s, ok := a.kw[name]
	if !ok && pos >= 0 && pos < len(a.positional) {
		s, ok = a.positional[pos], true
	}
	if !ok {
		return 0, false, nil
	}
	v, err = toFloat64(s)
	return v, true, err
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %s", describe(s))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		if _, isKW := keyword(s); !isKW {
			return str.S, nil
		}
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %s", describe(s))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %s", describe(s))
}

func toSolid(s zygo.Sexp) (*sexpSolid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// builder collects the effects of one script run.
type builder struct {
	kernel kernel.Kernel
	scene  *Scene
}

type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// register installs the scene builtins into env. Source must go through
// preprocess first so keywords are recognisable.
func (b *builder) register(env *zygo.Zlisp) {
	fns := map[string]builtin{
		"vec3":         b.vec3,
		"view":         b.view,
		"style":        b.style,
		"box":          b.box,
		"cylinder":     b.cylinder,
		"sphere":       b.sphere,
		"union":        b.boolean("union", kernel.Kernel.Union),
		"difference":   b.boolean("difference", kernel.Kernel.Difference),
		"intersection": b.boolean("intersection", kernel.Kernel.Intersection),
		"translate":    b.transform("translate", kernel.Kernel.Translate),
		"rotate":       b.transform("rotate", kernel.Kernel.Rotate),
		"render":       b.render,
	}
	for name, fn := range fns {
		env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			out, err := fn(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return out, nil
		})
	}
}

// (vec3 x y z)
func (b *builder) vec3(in []zygo.Sexp) (zygo.Sexp, error) {
	if len(in) != 3 {
		return nil, fmt.Errorf("requires exactly 3 arguments, got %d", len(in))
	}
	var c [3]float64
	for i, s := range in {
		f, err := toFloat64(s)
		if err != nil {
			return nil, fmt.Errorf("%c: %w", "xyz"[i], err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
}

// (view :eye (vec3 0 0 10) :width 200 :height 200 :margin 10 :fit true)
func (b *builder) view(in []zygo.Sexp) (zygo.Sexp, error) {
	a := parseArgs(in)
	v := &b.scene.View

	if s, ok := a.kw["eye"]; ok {
		eye, err := toVec3(s)
		if err != nil {
			return nil, fmt.Errorf("eye: %w", err)
		}
		v.Eye = &eye
	}
	for _, dim := range []struct {
		key string
		dst **int
	}{{"width", &v.Width}, {"height", &v.Height}} {
		s, ok := a.kw[dim.key]
		if !ok {
			continue
		}
		n, err := toInt(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dim.key, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %d", dim.key, n)
		}
		*dim.dst = &n
	}
	if s, ok := a.kw["margin"]; ok {
		m, err := toFloat64(s)
		if err != nil {
			return nil, fmt.Errorf("margin: %w", err)
		}
		if m < 0 {
			return nil, fmt.Errorf("margin must not be negative, got %g", m)
		}
		v.Margin = &m
	}
	if s, ok := a.kw["fit"]; ok {
		fit, err := toBool(s)
		if err != nil {
			return nil, fmt.Errorf("fit: %w", err)
		}
		v.Fit = &fit
	}
	return zygo.SexpNull, nil
}

// (style :fill "#cccccc" :stroke "#000000" :stroke-width 1)
func (b *builder) style(in []zygo.Sexp) (zygo.Sexp, error) {
	a := parseArgs(in)
	st := &b.scene.Style

	for _, c := range []struct {
		key string
		dst **string
	}{{"fill", &st.Fill}, {"stroke", &st.Stroke}} {
		s, ok := a.kw[c.key]
		if !ok {
			continue
		}
		col, err := toString(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.dst = &col
	}
	if s, ok := a.kw["stroke-width"]; ok {
		w, err := toFloat64(s)
		if err != nil {
			return nil, fmt.Errorf("stroke-width: %w", err)
		}
		st.StrokeWidth = &w
	}
	return zygo.SexpNull, nil
}

// (box x y z) or (box :x 1 :y 2 :z 3)
func (b *builder) box(in []zygo.Sexp) (zygo.Sexp, error) {
	if b.kernel == nil {
		return nil, errNoKernel
	}
	a := parseArgs(in)
	var size [3]float64
	for i, key := range []string{"x", "y", "z"} {
		v, found, err := a.number(key, i)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if !found {
			return nil, fmt.Errorf("missing %s size", key)
		}
		size[i] = v
	}
	s, err := b.kernel.Box(size[0], size[1], size[2])
	if err != nil {
		return nil, err
	}
	return &sexpSolid{solid: s, desc: fmt.Sprintf("box %g %g %g", size[0], size[1], size[2])}, nil
}

// (cylinder :height 2 :radius 1) or (cylinder 2 1)
func (b *builder) cylinder(in []zygo.Sexp) (zygo.Sexp, error) {
	if b.kernel == nil {
		return nil, errNoKernel
	}
	a := parseArgs(in)
	h, found, err := a.number("height", 0)
	if err != nil || !found {
		return nil, fmt.Errorf("height: %w", orMissing(err))
	}
	r, found, err := a.number("radius", 1)
	if err != nil || !found {
		return nil, fmt.Errorf("radius: %w", orMissing(err))
	}
	s, err := b.kernel.Cylinder(h, r)
	if err != nil {
		return nil, err
	}
	return &sexpSolid{solid: s, desc: fmt.Sprintf("cylinder :height %g :radius %g", h, r)}, nil
}

// (sphere 1) or (sphere :radius 1)
func (b *builder) sphere(in []zygo.Sexp) (zygo.Sexp, error) {
	if b.kernel == nil {
		return nil, errNoKernel
	}
	r, found, err := parseArgs(in).number("radius", 0)
	if err != nil || !found {
		return nil, fmt.Errorf("radius: %w", orMissing(err))
	}
	s, err := b.kernel.Sphere(r)
	if err != nil {
		return nil, err
	}
	return &sexpSolid{solid: s, desc: fmt.Sprintf("sphere %g", r)}, nil
}

// boolean folds (op a b c ...) left to right.
func (b *builder) boolean(op string, fn func(kernel.Kernel, kernel.Solid, kernel.Solid) kernel.Solid) builtin {
	return func(in []zygo.Sexp) (zygo.Sexp, error) {
		if b.kernel == nil {
			return nil, errNoKernel
		}
		if len(in) < 2 {
			return nil, fmt.Errorf("requires at least 2 solids, got %d", len(in))
		}
		first, err := toSolid(in[0])
		if err != nil {
			return nil, fmt.Errorf("argument 1: %w", err)
		}
		acc := first.solid
		for i, s := range in[1:] {
			next, err := toSolid(s)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+2, err)
			}
			acc = fn(b.kernel, acc, next.solid)
		}
		return &sexpSolid{solid: acc, desc: fmt.Sprintf("%s of %d solids", op, len(in))}, nil
	}
}

// transform handles (translate s (vec3 ...)) and (rotate s (vec3 ...)).
func (b *builder) transform(op string, fn func(kernel.Kernel, kernel.Solid, float64, float64, float64) kernel.Solid) builtin {
	return func(in []zygo.Sexp) (zygo.Sexp, error) {
		if b.kernel == nil {
			return nil, errNoKernel
		}
		if len(in) != 2 {
			return nil, fmt.Errorf("requires a solid and a vec3, got %d arguments", len(in))
		}
		s, err := toSolid(in[0])
		if err != nil {
			return nil, err
		}
		v, err := toVec3(in[1])
		if err != nil {
			return nil, err
		}
		out := fn(b.kernel, s.solid, v.X, v.Y, v.Z)
		return &sexpSolid{solid: out, desc: fmt.Sprintf("%s (%s) %g %g %g", op, s.desc, v.X, v.Y, v.Z)}, nil
	}
}

// (render s) tessellates s into the scene mesh. Only one solid per scene.
func (b *builder) render(in []zygo.Sexp) (zygo.Sexp, error) {
	if b.kernel == nil {
		return nil, errNoKernel
	}
	if len(in) != 1 {
		return nil, fmt.Errorf("requires exactly 1 solid, got %d", len(in))
	}
	if b.scene.Mesh != nil {
		return nil, errors.New("a scene renders a single solid; combine solids with union")
	}
	s, err := toSolid(in[0])
	if err != nil {
		return nil, err
	}
	m, err := b.kernel.ToMesh(s.solid)
	if err != nil {
		return nil, err
	}
	m.Name = s.desc
	b.scene.Mesh = m
	return s, nil
}

func orMissing(err error) error {
	if err != nil {
		return err
	}
	return errors.New("missing value")
}
