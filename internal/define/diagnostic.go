package define

import (
	"github.com/ben-ranford/cmdast/internal/syntax"
)

type DiagnosticKind string

const (
	DiagnosticEmptyDefine          DiagnosticKind = "empty-define"
	DiagnosticIDFallback           DiagnosticKind = "id-fallback"
	DiagnosticDependenciesFallback DiagnosticKind = "dependencies-fallback"
	DiagnosticDroppedDependency    DiagnosticKind = "dropped-dependency"
	DiagnosticSkippedRequire       DiagnosticKind = "skipped-require"
)

// Diagnostic describes input the scanner accepted but could not use. None of
// them are errors.
type Diagnostic struct {
	Kind    DiagnosticKind
	Span    syntax.Span
	Text    string
	Message string
}

// DiagnosticFunc receives diagnostics synchronously. A nil func discards them.
type DiagnosticFunc func(Diagnostic)

func (f DiagnosticFunc) report(kind DiagnosticKind, node syntax.Node, message string) {
	if f == nil {
		return
	}
	f(Diagnostic{Kind: kind, Span: node.Span(), Text: node.Text(), Message: message})
}
