package define

import (
	"github.com/ben-ranford/cmdast/internal/syntax"
)

// Requires returns the targets of every require('literal') call below node, in
// call order. Calls whose argument is not a single string literal are skipped
// silently; use RequiresWith to observe them.
func Requires(node syntax.Node) []string {
	return RequiresWith(node, nil)
}

// RequiresWith is Requires reporting every skipped call to report.
func RequiresWith(node syntax.Node, report DiagnosticFunc) []string {
	deps := make([]string, 0)
	syntax.Walk(node, func(n syntax.Node) bool {
		if !isCallTo(n, requireName) {
			return true
		}
		args := n.Args()
		if len(args) == 1 {
			if value, ok := args[0].StringValue(); ok {
				deps = append(deps, value)
				return false
			}
		}
		report.report(DiagnosticSkippedRequire, n, "require target is not a single string literal")
		return false
	})
	return deps
}
