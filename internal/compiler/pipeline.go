package compiler

import "github.com/opgindent/opgindent/internal/opg"

// Processor is any stage that can process a Context and return a (possibly
// the same) modified Context, mirroring the teacher's pipeline.Processor.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline is a sequence of compilation stages.
type Pipeline struct {
	stages []Processor
}

// New builds a Pipeline from stages, run in order.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order, short-circuiting once a stage records
// a fatal error on the context.
func (p *Pipeline) Run(initial *Context) *Context {
	ctx := initial
	for _, stage := range p.stages {
		if ctx.Err != nil {
			break
		}
		ctx = stage.Process(ctx)
	}
	return ctx
}

// precsStage compiles ctx.Precs into a Prec2Table and appends it to
// Overrides, so BNF compilation below treats precedence-list declarations
// as override material per spec §4.1.
type precsStage struct{}

func PrecsStage() Processor { return precsStage{} }

func (precsStage) Process(ctx *Context) *Context {
	if len(ctx.Precs) == 0 {
		return ctx
	}
	t := opg.PrecsPrecedenceTable(ctx.Precs)
	ctx.Overrides = append(ctx.Overrides, t)
	ctx.AddDiagnostics(t.Diagnostics())
	return ctx
}

// mergeOverridesStage collapses every override table accumulated so far
// into one, later tables winning per opg.MergePrec2.
type mergeOverridesStage struct{}

func MergeOverridesStage() Processor { return mergeOverridesStage{} }

func (mergeOverridesStage) Process(ctx *Context) *Context {
	if len(ctx.Overrides) == 0 {
		return ctx
	}
	merged := opg.MergePrec2(ctx.Overrides)
	ctx.AddDiagnostics(merged.Diagnostics())
	ctx.mergedOverride = merged
	return ctx
}

// bnfStage compiles ctx.BNF against the merged override table into the
// final Prec2Table. If ctx.BNF has no productions, the merged override
// table (precedence-list form alone) becomes the final Prec2Table.
type bnfStage struct{}

func BNFStage() Processor { return bnfStage{} }

func (bnfStage) Process(ctx *Context) *Context {
	if len(ctx.BNF.Productions) == 0 {
		if ctx.mergedOverride == nil {
			ctx.mergedOverride = opg.NewPrec2Table()
		}
		ctx.Prec2 = ctx.mergedOverride
		return ctx
	}
	t := opg.BnfPrecedenceTable(ctx.BNF, ctx.mergedOverride)
	ctx.Prec2 = t
	ctx.AddDiagnostics(t.Diagnostics())
	return ctx
}

// levelStage solves ctx.Prec2 into ctx.Levels.
type levelStage struct{}

func LevelStage() Processor { return levelStage{} }

func (levelStage) Process(ctx *Context) *Context {
	lvl, err := opg.Prec2Levels(ctx.Prec2)
	ctx.Levels = lvl
	if err != nil {
		ctx.Err = err
	}
	if lvl != nil {
		ctx.AddDiagnostics(lvl.Diagnostics())
	}
	return ctx
}

// Default is the standard compilation pipeline: precedence list -> override
// table, merge overrides, BNF compile against the merge, solve levels.
func Default() *Pipeline {
	return New(PrecsStage(), MergeOverridesStage(), BNFStage(), LevelStage())
}

// Compile is the convenience entry point used by demolang.Setup and the
// CLI: run the default pipeline over a grammar plus optional extra override
// tables, returning the solved level table and the first fatal error if
// compilation failed. Only the solver's own diagnostics reach the caller,
// through the returned table's Diagnostics; prec2-construction diagnostics
// stay on the pipeline Context and are not returned.
func Compile(bnf opg.Grammar, precs []opg.OperatorGroup, extraOverrides ...*opg.Prec2Table) (*opg.LevelTable, error) {
	ctx := NewContext(bnf, precs)
	ctx.Overrides = append(ctx.Overrides, extraOverrides...)
	ctx = Default().Run(ctx)
	return ctx.Levels, ctx.Err
}
