package define

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRewriteRequiresWithAlias(t *testing.T) {
	tree := mustParse(t, "define(function(require) { var $ = require('jquery'); var _ = require('underscore') })")
	rewritten, err := RewriteRequires(context.Background(), tree, Alias(map[string]string{"jquery": "$"}))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	module := ScanFirst(rewritten)
	if !reflect.DeepEqual(module.Dependencies, []string{"$", "underscore"}) {
		t.Fatalf("expected [$ underscore], got %v", module.Dependencies)
	}
	if !strings.Contains(tree.String(), "require('jquery')") {
		t.Fatalf("expected the input tree to be untouched")
	}
}

func TestRewriteRequiresPreservesLayout(t *testing.T) {
	src := lines(
		"// header",
		"define(function(require) {",
		"  var a = require( 'a' ) // trailing",
		"  var b = require(\"b\");",
		"  var c = require('c', 'extra');",
		"  var d = other('a');",
		"})",
	)
	rewritten, err := RewriteRequires(context.Background(), mustParse(t, src), Transform(strings.ToUpper))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	want := lines(
		"// header",
		"define(function(require) {",
		"  var a = require( 'A' ) // trailing",
		"  var b = require(\"B\");",
		"  var c = require('c', 'extra');",
		"  var d = other('a');",
		"})",
	)
	if rewritten.String() != want {
		t.Fatalf("expected %q, got %q", want, rewritten.String())
	}
}

func TestRewriteRequiresEscapesReplacement(t *testing.T) {
	tree := mustParse(t, "require('a')")
	rewritten, err := RewriteRequires(context.Background(), tree, Fixed("it's"))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if rewritten.String() != `require('it\'s')` {
		t.Fatalf("unexpected source %q", rewritten.String())
	}
	if got := Requires(rewritten.Root()); !reflect.DeepEqual(got, []string{"it's"}) {
		t.Fatalf("expected decoded value, got %v", got)
	}
}

func TestRewriteRequiresIdentity(t *testing.T) {
	tree := mustParse(t, "require('a')")
	out, err := RewriteRequires(context.Background(), tree, Identity())
	if err != nil || out != tree {
		t.Fatalf("expected identity rewrite to return the same tree, got %v", err)
	}
	if _, err := RewriteRequires(context.Background(), nil, Suffix("x")); !errors.Is(err, ErrNilTree) {
		t.Fatalf("expected ErrNilTree, got %v", err)
	}
}

func TestRewriteRequiresInsideParentheses(t *testing.T) {
	tree := mustParse(t, "define(function(require){ require(('a')); other(('a')) })")
	rewritten, err := RewriteRequires(context.Background(), tree, Alias(map[string]string{"a": "$"}))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	want := "define(function(require){ require(('$')); other(('a')) })"
	if rewritten.String() != want {
		t.Fatalf("expected %q, got %q", want, rewritten.String())
	}
	if deps := ScanFirst(rewritten).Dependencies; !reflect.DeepEqual(deps, []string{"$"}) {
		t.Fatalf("expected [$], got %v", deps)
	}
}
