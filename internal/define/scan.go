package define

import (
	"context"
	"fmt"

	"github.com/ben-ranford/cmdast/internal/syntax"
)

// ScanOptions configures ScanWith.
type ScanOptions struct {
	OnDiagnostic DiagnosticFunc
}

// pendingFactory is a one-argument function factory whose dependencies are
// inferred once the walk has finished.
type pendingFactory struct {
	call    syntax.Node
	factory syntax.Node
}

type scanState struct {
	modules []Module
	pending []pendingFactory
}

// Scan returns every define call of tree in discovery order, followed by the
// one-argument function factories with inferred dependencies. Calls nested
// inside another define call are not visited.
func Scan(tree *syntax.Tree) []Module {
	return ScanWith(tree, ScanOptions{})
}

// ScanWith is Scan with diagnostics delivered to opts.OnDiagnostic.
func ScanWith(tree *syntax.Tree, opts ScanOptions) []Module {
	state := collectDefinitions(tree, opts.OnDiagnostic)

	modules := state.modules
	for _, item := range state.pending {
		modules = append(modules, Module{
			Dependencies: RequiresWith(item.factory, opts.OnDiagnostic),
			Factory:      item.factory,
			Span:         item.call.Span(),
			Outcome:      Classification{Arity: 1, Inferred: true},
		})
	}
	return modules
}

// ScanFirst returns the first module Scan finds, or the zero Module.
func ScanFirst(tree *syntax.Tree) Module {
	modules := Scan(tree)
	if len(modules) == 0 {
		return Module{}
	}
	return modules[0]
}

// ScanSource parses text and scans it.
func ScanSource(ctx context.Context, text string) ([]Module, error) {
	tree, err := syntax.ParseString(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	return Scan(tree), nil
}

func collectDefinitions(tree *syntax.Tree, report DiagnosticFunc) scanState {
	state := scanState{modules: make([]Module, 0)}
	if tree == nil {
		return state
	}
	tree.Walk(func(node syntax.Node) bool {
		if !isCallTo(node, defineName) {
			return true
		}
		classifyDefine(&state, node, report)
		return false
	})
	return state
}

func classifyDefine(state *scanState, call syntax.Node, report DiagnosticFunc) {
	args := call.Args()
	switch len(args) {
	case 0:
		report.report(DiagnosticEmptyDefine, call, "define call without arguments")
	case 1:
		if args[0].Kind() == syntax.KindFunction {
			state.pending = append(state.pending, pendingFactory{call: call, factory: args[0]})
			return
		}
		state.modules = append(state.modules, Module{
			Dependencies: []string{},
			Factory:      args[0],
			Span:         call.Span(),
			Outcome:      Classification{Arity: 1},
		})
	case 2:
		state.modules = append(state.modules, classifyPair(call, args, report))
	default:
		state.modules = append(state.modules, classifyTriple(call, args, report))
	}
}

// classifyPair handles define(id, factory) and define(deps, factory).
func classifyPair(call syntax.Node, args []syntax.Node, report DiagnosticFunc) Module {
	module := Module{
		Dependencies: []string{},
		Factory:      args[1],
		Span:         call.Span(),
		Outcome:      Classification{Arity: 2},
	}
	first := args[0]
	switch first.Kind() {
	case syntax.KindArray:
		module.Dependencies, module.Outcome.DroppedDependencies = dependencyList(first, report)
	case syntax.KindString:
		module.ID, module.HasID = first.StringValue()
	case syntax.KindCall, syntax.KindIdentifier, syntax.KindFunction, syntax.KindObject, syntax.KindOther:
		module.Outcome.IDFallback = true
		module.Outcome.DependenciesFallback = true
		report.report(DiagnosticIDFallback, first, fmt.Sprintf("expected id string or dependency array, found %s", first.Kind()))
	}
	return module
}

// classifyTriple handles define(id, deps, factory). Each position falls back
// on its own; arguments after the factory are ignored.
func classifyTriple(call syntax.Node, args []syntax.Node, report DiagnosticFunc) Module {
	module := Module{
		Dependencies: []string{},
		Factory:      args[2],
		Span:         call.Span(),
		Outcome:      Classification{Arity: len(args)},
	}

	switch id := args[0]; id.Kind() {
	case syntax.KindString:
		module.ID, module.HasID = id.StringValue()
	case syntax.KindCall, syntax.KindIdentifier, syntax.KindArray, syntax.KindFunction, syntax.KindObject, syntax.KindOther:
		module.Outcome.IDFallback = true
		report.report(DiagnosticIDFallback, id, fmt.Sprintf("expected id string, found %s", id.Kind()))
	}

	switch deps := args[1]; deps.Kind() {
	case syntax.KindArray:
		module.Dependencies, module.Outcome.DroppedDependencies = dependencyList(deps, report)
	case syntax.KindCall, syntax.KindIdentifier, syntax.KindString, syntax.KindFunction, syntax.KindObject, syntax.KindOther:
		module.Outcome.DependenciesFallback = true
		report.report(DiagnosticDependenciesFallback, deps, fmt.Sprintf("expected dependency array, found %s", deps.Kind()))
	}
	return module
}

// dependencyList keeps the string literals of an array and counts the rest.
func dependencyList(array syntax.Node, report DiagnosticFunc) ([]string, int) {
	elements := array.Elements()
	deps := make([]string, 0, len(elements))
	dropped := 0
	for _, element := range elements {
		if value, ok := element.StringValue(); ok {
			deps = append(deps, value)
			continue
		}
		dropped++
		report.report(DiagnosticDroppedDependency, element, fmt.Sprintf("dependency is not a string literal (%s)", element.Kind()))
	}
	return deps, dropped
}
