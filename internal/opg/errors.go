package opg

import "github.com/opgindent/opgindent/internal/diagnostics"

func grammarInconsistency(a, b Token) *diagnostics.Diagnostic {
	return diagnostics.New(diagnostics.PhaseGrammar, diagnostics.ErrG005, false,
		string(a)+" "+string(b))
}
