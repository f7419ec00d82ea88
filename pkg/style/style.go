// Package style holds the fixed fill and stroke every polygon is drawn with.
package style

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid style")

// None disables a fill or stroke.
const None = "none"

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Style is the paint applied to each polygon.
type Style struct {
	Fill        string  // "#rgb", "#rrggbb" or "none"
	Stroke      string  // "#rgb", "#rrggbb" or "none"
	StrokeWidth float64 // >= 0
}

// Default is light grey faces with thin black edges, so overlapping faces
// stay distinguishable without shading.
func Default() Style {
	return Style{Fill: "#cccccc", Stroke: "#000000", StrokeWidth: 1}
}

// Validate checks both colours and the stroke width.
func (s Style) Validate() error {
	if !validColor(s.Fill) {
		return fmt.Errorf("%w: fill %q is not #rgb, #rrggbb or none", ErrInvalid, s.Fill)
	}
	if !validColor(s.Stroke) {
		return fmt.Errorf("%w: stroke %q is not #rgb, #rrggbb or none", ErrInvalid, s.Stroke)
	}
	if s.StrokeWidth < 0 || math.IsNaN(s.StrokeWidth) || math.IsInf(s.StrokeWidth, 0) {
		return fmt.Errorf("%w: stroke width %v", ErrInvalid, s.StrokeWidth)
	}
	return nil
}

// CSS renders the style as an inline style attribute value.
func (s Style) CSS() string {
	return "fill:" + s.Fill +
		";stroke:" + s.Stroke +
		";stroke-width:" + strconv.FormatFloat(s.StrokeWidth, 'g', -1, 64)
}

// HasFill reports whether faces are filled.
func (s Style) HasFill() bool { return s.Fill != None }

// HasStroke reports whether edges are drawn.
func (s Style) HasStroke() bool { return s.Stroke != None && s.StrokeWidth > 0 }

func validColor(c string) bool {
	return c == None || hexColor.MatchString(c)
}
