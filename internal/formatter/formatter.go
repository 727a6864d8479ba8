package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ColorKind selects an entry of the fixed palette
type ColorKind int

const (
	KindUnknown ColorKind = iota
	KindList
	KindDict
	KindKey
	KindString
	KindNumber
	KindBool
	KindExample
)

// palette maps every kind to its bold ANSI color; KindUnknown is absent
// and renders uncolored.
var palette = map[ColorKind]*color.Color{
	KindList:    newColor(color.FgRed),
	KindDict:    newColor(color.FgYellow),
	KindKey:     newColor(color.FgCyan),
	KindString:  newColor(color.FgWhite),
	KindNumber:  newColor(color.FgGreen),
	KindBool:    newColor(color.FgBlue),
	KindExample: newColor(color.FgMagenta),
}

func newColor(fg color.Attribute) *color.Color {
	c := color.New(fg, color.Bold)
	// Colors are decided by the Formatter, not by terminal detection.
	c.EnableColor()
	return c
}

// Colorize wraps text in the escape sequence of kind and a matching reset.
func Colorize(text string, kind ColorKind) string {
	c, ok := palette[kind]
	if !ok {
		return text
	}
	return c.Sprint(text)
}

// Formatter builds the indented, colored segments a document rendering is
// made of.
type Formatter struct {
	indent   string
	keyWidth int
	anchor   int
	color    bool
}

// Option configures a Formatter
type Option func(*Formatter)

// WithIndent sets the string repeated once per nesting level
func WithIndent(unit string) Option {
	return func(f *Formatter) { f.indent = unit }
}

// WithKeyWidth sets the minimum width of a mapping key field
func WithKeyWidth(width int) Option {
	return func(f *Formatter) { f.keyWidth = width }
}

// WithScalarAnchor sets the nominal depth scalar labels are aligned against
func WithScalarAnchor(depth int) Option {
	return func(f *Formatter) { f.anchor = depth }
}

// WithColor turns ANSI colors on or off
func WithColor(enabled bool) Option {
	return func(f *Formatter) { f.color = enabled }
}

// NewFormatter creates a Formatter using four-space indentation, 32
// character key fields, a scalar anchor of 9 and colors on.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		indent:   "    ",
		keyWidth: 32,
		anchor:   9,
		color:    true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Indent returns the indentation for depth levels. Negative depths yield
// no indentation.
func (f *Formatter) Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(f.indent, depth)
}

// Segment renders text at depth in the color of kind.
func (f *Formatter) Segment(depth int, text string, kind ColorKind) string {
	return f.paint(f.Indent(depth)+text, kind)
}

// KeySegment renders a mapping key at depth, padded to the key width.
// Longer keys are kept whole.
func (f *Formatter) KeySegment(depth int, key string) string {
	field := fmt.Sprintf("%-*s", f.keyWidth, key)
	return f.paint(f.Indent(depth)+":"+field, KindKey)
}

// ScalarSegment renders a scalar type label, indented by the distance
// between depth and the scalar anchor so labels line up on the right.
func (f *Formatter) ScalarSegment(depth int, label string, kind ColorKind) string {
	return f.paint(f.Indent(f.anchor-depth)+label, kind)
}

// ExampleSegment renders the literal of a scalar one level above depth.
func (f *Formatter) ExampleSegment(depth int, literal string) string {
	return f.paint(f.Indent(depth-1)+"-> "+literal, KindExample)
}

func (f *Formatter) paint(text string, kind ColorKind) string {
	if !f.color {
		return text
	}
	return Colorize(text, kind)
}
