package define

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ben-ranford/cmdast/internal/syntax"
)

var ErrDynamicRequire = errors.New("require target is not a string literal")

// EmitOptions configures Emit. The zero value re-emits every definition
// unchanged with the factory printed as written.
type EmitOptions struct {
	ID           Mapping
	Dependencies Mapping
	Require      Mapping
	Print        syntax.PrintOptions
	// Strict fails the emit when a require call had to be skipped during
	// inference instead of silently leaving it out of the dependency list.
	Strict       bool
	OnDiagnostic DiagnosticFunc
}

// Uniform applies fn to ids, to each dependency and to require targets.
func Uniform(fn func(string) string) EmitOptions {
	mapping := Transform(fn)
	return EmitOptions{ID: mapping, Dependencies: mapping, Require: mapping}
}

// Emit rewrites require targets, scans the result and prints one define
// statement per module, each terminated by a newline.
func Emit(ctx context.Context, tree *syntax.Tree, opts EmitOptions) (string, error) {
	rewritten, err := RewriteRequires(ctx, tree, opts.Require)
	if err != nil {
		return "", fmt.Errorf("rewrite requires: %w", err)
	}

	var skipped []Diagnostic
	modules := ScanWith(rewritten, ScanOptions{OnDiagnostic: func(d Diagnostic) {
		if d.Kind == DiagnosticSkippedRequire {
			skipped = append(skipped, d)
		}
		if opts.OnDiagnostic != nil {
			opts.OnDiagnostic(d)
		}
	}})
	if opts.Strict && len(skipped) > 0 {
		first := skipped[0]
		return "", fmt.Errorf("%w: %s at %d:%d", ErrDynamicRequire, first.Text, first.Span.Line, first.Span.Column)
	}

	var b strings.Builder
	for _, module := range modules {
		b.WriteString(FormatModule(module, opts))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// EmitSource parses text and emits it.
func EmitSource(ctx context.Context, text string, opts EmitOptions) (string, error) {
	tree, err := syntax.ParseString(ctx, text)
	if err != nil {
		return "", fmt.Errorf("parse source: %w", err)
	}
	return Emit(ctx, tree, opts)
}

// FormatModule prints a single define statement without a trailing newline.
// An id is written only when the mapped id is present and non-empty.
func FormatModule(module Module, opts EmitOptions) string {
	id, hasID := mapID(module, opts.ID)
	deps := formatList(opts.Dependencies.ApplyList(module.Dependencies))
	factory := syntax.Print(module.Factory, opts.Print)
	if hasID && id != "" {
		return fmt.Sprintf("define(%s, %s, %s)", quote(id), deps, factory)
	}
	return fmt.Sprintf("define(%s, %s)", deps, factory)
}

func mapID(module Module, mapping Mapping) (string, bool) {
	switch mapping.kind {
	case mappingFixed:
		return mapping.value, true
	case mappingTransform:
		if module.HasID {
			return mapping.fn(module.ID), true
		}
	}
	return module.ID, module.HasID
}

func formatList(values []string) string {
	items := make([]string, 0, len(values))
	for _, value := range values {
		items = append(items, quote(value))
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func quote(value string) string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return syntax.QuoteString(value, '"')
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
