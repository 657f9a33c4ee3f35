// Package define finds, infers and rewrites CMD module definitions:
//
//	define(id?, dependencies?, factory)
//
// Scan classifies every top-level define call in a tree, Requires infers the
// dependencies of a factory from its require calls, RewriteRequires renames
// require targets in place, and Emit regenerates define statements.
package define

import (
	"github.com/ben-ranford/cmdast/internal/syntax"
)

const (
	defineName  = "define"
	requireName = "require"
)

// Module is one definition found by Scan.
type Module struct {
	// ID is only meaningful when HasID is set, i.e. a string literal occupied
	// the id position.
	ID    string
	HasID bool
	// Dependencies are string literals in source order, or inferred require
	// targets in call order. Never nil for scanned modules.
	Dependencies []string
	// Factory is borrowed from the scanned tree.
	Factory syntax.Node
	// Span covers the whole define call.
	Span    syntax.Span
	Outcome Classification
}

// Classification records how a define call was interpreted, including every
// position that fell back to its default because the argument had the wrong
// kind.
type Classification struct {
	Arity                int
	IDFallback           bool
	DependenciesFallback bool
	DroppedDependencies  int
	Inferred             bool
}

// Fallback reports whether any argument was ignored or defaulted.
func (c Classification) Fallback() bool {
	return c.IDFallback || c.DependenciesFallback || c.DroppedDependencies > 0
}

// Fallbacks lists the fallback reasons in a stable order.
func (c Classification) Fallbacks() []string {
	reasons := make([]string, 0, 3)
	if c.IDFallback {
		reasons = append(reasons, string(DiagnosticIDFallback))
	}
	if c.DependenciesFallback {
		reasons = append(reasons, string(DiagnosticDependenciesFallback))
	}
	if c.DroppedDependencies > 0 {
		reasons = append(reasons, string(DiagnosticDroppedDependency))
	}
	return reasons
}

func isCallTo(node syntax.Node, name string) bool {
	return node.Kind() == syntax.KindCall && node.Callee().IsIdentifier(name)
}
