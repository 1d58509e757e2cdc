// Package compiler stages grammar compilation — BNF/precedence-list input
// through prec2 construction, override merging and level solving — as a
// Processor pipeline, generalizing the teacher's lexer/parser/analyzer
// PipelineContext/Processor/Pipeline composition (internal/pipeline) from a
// source-to-AST pipeline into a grammar-to-levels one.
package compiler

import (
	"github.com/opgindent/opgindent/internal/diagnostics"
	"github.com/opgindent/opgindent/internal/opg"
)

// Context holds all the data passed between compilation stages.
type Context struct {
	// BNF is the BNF-form grammar to compile, if any.
	BNF opg.Grammar
	// Precs is the precedence-list form, if any. Both forms may be
	// supplied; Precs is compiled into an override table before BNF
	// compilation, per spec §4.1.
	Precs []opg.OperatorGroup

	// Overrides accumulates additional pre-built override tables (e.g. a
	// precedence-list table plus hand-written tweaks) before BNF
	// compilation consults them.
	Overrides []*opg.Prec2Table

	// mergedOverride is the single override table produced by collapsing
	// Overrides, consulted by the BNF compilation stage.
	mergedOverride *opg.Prec2Table

	Prec2  *opg.Prec2Table
	Levels *opg.LevelTable

	Diagnostics []*diagnostics.Diagnostic
	Err         error
}

// NewContext builds a Context ready for a Pipeline.Run.
func NewContext(bnf opg.Grammar, precs []opg.OperatorGroup) *Context {
	return &Context{BNF: bnf, Precs: precs}
}

// AddDiagnostics appends ds to the context's running diagnostic log.
func (c *Context) AddDiagnostics(ds []*diagnostics.Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, ds...)
}
