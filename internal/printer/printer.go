// Package printer renders the shape of a parsed document as indented,
// colored lines.
//
// Containers are written at their own depth. Scalar type labels are
// right-aligned against a nominal maximum depth (9 by default), so deeper
// scalars sit further left. A sequence is assumed to be homogeneous: unless
// every element is requested, only its first element is walked.
//
// There is no recursion limit. Nesting is bounded by the input document
// and by the maximum goroutine stack size of the Go runtime.
package printer

import (
	"bufio"
	"io"
	"strings"

	"github.com/mcncl/lsjson/internal/config"
	"github.com/mcncl/lsjson/internal/errors"
	"github.com/mcncl/lsjson/internal/formatter"
	"github.com/mcncl/lsjson/internal/models"
)

// Mode selects how much of the document content is shown
type Mode int

const (
	// ShapeOnly prints type labels only and walks the first element of
	// every sequence.
	ShapeOnly Mode = iota
	// OneExample additionally shows the literal of every walked scalar.
	OneExample
	// AllContent walks every sequence element and shows every literal.
	AllContent
)

// String returns the config name of the mode
func (m Mode) String() string {
	switch m {
	case OneExample:
		return config.ModeExample
	case AllContent:
		return config.ModeAll
	default:
		return config.ModeShape
	}
}

// ModeFromName converts a config mode name into a Mode
func ModeFromName(name string) (Mode, error) {
	normalized, err := config.NormalizeMode(name)
	if err != nil {
		return ShapeOnly, err
	}
	switch normalized {
	case config.ModeExample:
		return OneExample, nil
	case config.ModeAll:
		return AllContent, nil
	default:
		return ShapeOnly, nil
	}
}

func (m Mode) showExamples() bool {
	return m == OneExample || m == AllContent
}

// Printer walks a value tree and writes its rendering to an output stream
type Printer struct {
	out *bufio.Writer
	fmt *formatter.Formatter
	err error
}

// NewPrinter creates a Printer writing to w with the given formatter.
// A nil formatter uses the defaults of formatter.NewFormatter.
func NewPrinter(w io.Writer, f *formatter.Formatter) *Printer {
	if f == nil {
		f = formatter.NewFormatter()
	}
	return &Printer{out: bufio.NewWriter(w), fmt: f}
}

// NewPrinterWithConfig creates a Printer whose layout and colors follow cfg
func NewPrinterWithConfig(w io.Writer, cfg *config.Config, isTerminal bool) *Printer {
	f := formatter.NewFormatter(
		formatter.WithIndent(cfg.Layout.Indent),
		formatter.WithKeyWidth(cfg.Layout.KeyWidth),
		formatter.WithScalarAnchor(cfg.Layout.ScalarAnchor),
		formatter.WithColor(cfg.UseColor(isTerminal)),
	)
	return NewPrinter(w, f)
}

// Print writes the rendering of v starting at depth. The only error it
// returns comes from the underlying writer.
func (p *Printer) Print(v models.Value, depth int, mode Mode) error {
	p.walk(v, depth, mode)
	if p.err == nil {
		p.err = p.out.Flush()
	}
	if p.err != nil {
		err := p.err
		p.err = nil
		return errors.NewRenderError("failed to write rendering", err)
	}
	return nil
}

// Line writes a single colored line outside of any walk, such as a banner
func (p *Printer) Line(text string, kind formatter.ColorKind) error {
	p.emit(p.fmt.Segment(0, text, kind), true)
	if p.err == nil {
		p.err = p.out.Flush()
	}
	if p.err != nil {
		err := p.err
		p.err = nil
		return errors.NewOutputError("failed to write line", err)
	}
	return nil
}

func (p *Printer) emit(segment string, newline bool) {
	if p.err != nil {
		return
	}
	if _, err := p.out.WriteString(segment); err != nil {
		p.err = err
		return
	}
	if newline {
		p.err = p.out.WriteByte('\n')
	}
}

func (p *Printer) walk(v models.Value, depth int, mode Mode) {
	switch v.Kind {
	case models.KindSequence:
		p.walkSequence(v, depth, mode)
	case models.KindMapping:
		p.walkMapping(v, depth, mode)
	case models.KindBool:
		p.walkScalar(v, depth, mode, formatter.KindBool)
	case models.KindInt, models.KindFloat:
		p.walkScalar(v, depth, mode, formatter.KindNumber)
	case models.KindStr:
		p.walkScalar(v, depth, mode, formatter.KindString)
	default:
		p.emit(p.fmt.Segment(depth, v.TypeName(), formatter.KindUnknown), true)
	}
}

func (p *Printer) walkSequence(v models.Value, depth int, mode Mode) {
	if len(v.Items) == 0 {
		p.emit(p.fmt.Segment(depth, "[]", formatter.KindList), true)
		return
	}

	p.emit(p.fmt.Segment(depth, "["+v.Kind.String(), formatter.KindList), true)

	samples := v.Items[:1]
	if mode == AllContent {
		samples = v.Items
	}
	for _, sample := range samples {
		p.walk(sample, depth+1, mode)
	}

	if mode == AllContent {
		p.emit(p.fmt.Segment(depth, "]", formatter.KindList), true)
	} else {
		p.emit(p.fmt.Segment(depth, "... ]", formatter.KindList), true)
	}
}

func (p *Printer) walkMapping(v models.Value, depth int, mode Mode) {
	if len(v.Members) == 0 {
		p.emit(p.fmt.Segment(depth, "{}", formatter.KindDict), true)
		return
	}

	p.emit(p.fmt.Segment(depth, "{"+v.Kind.String(), formatter.KindDict), true)
	for _, member := range v.Members {
		// Int, Bool and Str labels continue the key line.
		p.emit(p.fmt.KeySegment(depth+1, member.Key), !member.Value.IsInline())
		p.walk(member.Value, depth+2, mode)
	}
	p.emit(p.fmt.Segment(depth, "}", formatter.KindDict), true)
}

func (p *Printer) walkScalar(v models.Value, depth int, mode Mode, kind formatter.ColorKind) {
	p.emit(p.fmt.ScalarSegment(depth, v.Kind.String(), kind), true)
	if mode.showExamples() {
		p.emit(p.fmt.ExampleSegment(depth, v.Repr()), true)
	}
}

// Render is a convenience wrapper printing v from depth zero to w with the
// default layout.
func Render(w io.Writer, v models.Value, mode Mode) error {
	return NewPrinter(w, nil).Print(v, 0, mode)
}

// String returns the uncolored rendering of v, mainly for diagnostics.
func String(v models.Value, mode Mode) string {
	var sb strings.Builder
	_ = NewPrinter(&sb, formatter.NewFormatter(formatter.WithColor(false))).Print(v, 0, mode)
	return sb.String()
}
