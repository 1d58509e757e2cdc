// Package diagnostics provides typed, coded errors and warnings shared by
// the grammar compiler, the scanner and the indentation calculator.
//
// Grammar-construction and scan failures are, per design, mostly advisory.
// The fatal ones are an unresolvable precedence cycle (G001), a self-equal
// level after solving (G004), and, while scanning, a self-equal level or a
// grammar inconsistency (S003, S004). Everything else is collected as a
// warning and surfaced to the caller alongside a usable result.
package diagnostics

import "fmt"

// Phase identifies which stage of the pipeline raised a diagnostic.
type Phase string

const (
	PhaseGrammar Phase = "grammar"
	PhaseScan    Phase = "scan"
	PhaseIndent  Phase = "indent"
)

// Code is a stable, documented identifier for a diagnostic.
type Code string

const (
	// Grammar-construction
	ErrG001 Code = "G001" // unresolvable precedence cycle
	ErrG002 Code = "G002" // prec2 cell conflict (non-fatal, first value kept)
	ErrG003 Code = "G003" // prec2 cell conflict resolved by override (override wins)
	ErrG004 Code = "G004" // self-equal level after solving (fatal grammar error)
	ErrG005 Code = "G005" // grammar inconsistency: operator-grammar assumption violated

	// Scanning
	ErrS001 Code = "S001" // fell back to host balanced-delimiter skip
	ErrS002 Code = "S002" // host balanced-delimiter skip reported a scan error
	ErrS003 Code = "S003" // self-equal level encountered while scanning (fatal)
	ErrS004 Code = "S004" // grammar inconsistency encountered while popping levels

	// Indentation
	ErrI001 Code = "I001" // internal calculator failure, column 0 substituted
)

var templates = map[Code]string{
	ErrG001: "cannot resolve precedence table to levels: cycle through %s",
	ErrG002: "conflicting precedence for (%s, %s): kept %s, saw %s",
	ErrG003: "conflicting precedence for (%s, %s): override %s wins over computed %s",
	ErrG004: "token %q has equal left and right level %d after solving",
	ErrG005: "operator grammar assumption violated near %s",
	ErrS001: "no token at cursor; falling back to balanced-delimiter skip",
	ErrS002: "unbalanced delimiter while skipping",
	ErrS003: "token %q has equal left/right level %d during scan",
	ErrS004: "grammar inconsistency: levels emptied by a non-opener, non-equal token %q",
	ErrI001: "indentation calculation failed, defaulting to column 0",
}

// Diagnostic is a single warning or error produced by the engine.
type Diagnostic struct {
	Code  Code
	Phase Phase
	Args  []interface{}
	Fatal bool
	// Pos is the buffer cursor position the diagnostic was raised at, or -1
	// if none applies (e.g. a grammar-construction diagnostic, which has no
	// buffer to point into). The scanner only ever sees a host through
	// tokenizer.Interface, which reports an opaque cursor position and
	// nothing richer (no line/column): a concrete host such as
	// tokenizer.SliceBuffer knows how to turn that back into source
	// coordinates for display, the way File is filled in by a caller that
	// knows which source the position belongs to.
	Pos  int
	File string
}

func (d *Diagnostic) Error() string {
	tmpl, ok := templates[d.Code]
	if !ok {
		return fmt.Sprintf("[%s] unknown diagnostic code: %s", d.Phase, d.Code)
	}
	msg := fmt.Sprintf(tmpl, d.Args...)

	prefix := ""
	if d.File != "" {
		prefix = d.File + ": "
	}
	if d.Pos >= 0 {
		return fmt.Sprintf("%s[%s] error at %d [%s]: %s", prefix, d.Phase, d.Pos, d.Code, msg)
	}
	return fmt.Sprintf("%s[%s] error [%s]: %s", prefix, d.Phase, d.Code, msg)
}

func New(phase Phase, code Code, fatal bool, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, Args: args, Fatal: fatal, Pos: -1}
}

// NewAt is New plus a buffer cursor position, for diagnostics raised while a
// scan or indentation calculation has a cursor in scope.
func NewAt(phase Phase, code Code, fatal bool, pos int, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, Args: args, Fatal: fatal, Pos: pos}
}

// At sets the position and, optionally, the source file on an existing
// Diagnostic and returns it, for callers that learn the position only after
// New has already been called (e.g. wrapping a lower-level error).
func (d *Diagnostic) At(pos int, file string) *Diagnostic {
	d.Pos = pos
	d.File = file
	return d
}

// Bag accumulates diagnostics across a single grammar build or scan so
// callers can inspect warnings without aborting the operation that produced
// them.
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) All() []*Diagnostic { return b.items }

func (b *Bag) HasFatal() bool {
	for _, d := range b.items {
		if d.Fatal {
			return true
		}
	}
	return false
}

// FirstFatal returns the first fatal diagnostic recorded, if any, as an error.
func (b *Bag) FirstFatal() error {
	for _, d := range b.items {
		if d.Fatal {
			return d
		}
	}
	return nil
}
