package syntax

import (
	"context"
	"testing"
)

func factoryOf(t *testing.T, src string) Node {
	t.Helper()
	tree := mustParse(t, src)
	args := firstCall(t, tree, "define").Args()
	return args[len(args)-1]
}

func TestPrintKeepsSourceByDefault(t *testing.T) {
	src := "define(function(require) {\n  // jquery\n  var $ = require('jquery'); /* inline */\n})"
	factory := factoryOf(t, src)
	want := "function(require) {\n  // jquery\n  var $ = require('jquery'); /* inline */\n}"
	if got := Print(factory, PrintOptions{}); got != want {
		t.Fatalf("expected verbatim factory, got %q", got)
	}
}

func TestPrintStripComments(t *testing.T) {
	src := "define(function(require) {\n  // jquery\n  var $ = require('jquery'); /* inline */\n  return a/**/+b\n})"
	factory := factoryOf(t, src)
	want := "function(require) {\n  var $ = require('jquery'); \n  return a +b\n}"
	if got := Print(factory, PrintOptions{StripComments: true}); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPrintCompact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts PrintOptions
		want string
	}{
		{
			name: "block",
			src:  "define(function (require) {\n  var a = require('a');\n  return typeof a;\n})",
			opts: PrintOptions{Compact: true},
			want: "function(require){var a=require('a');return typeof a;}",
		},
		{
			name: "asi newline kept",
			src:  "define(function () {\n  var a = 1\n  var b = 2\n})",
			opts: PrintOptions{Compact: true},
			want: "function(){var a=1\nvar b=2}",
		},
		{
			name: "line comment kept",
			src:  "define(function () {\n  // note\n  go()\n})",
			opts: PrintOptions{Compact: true},
			want: "function(){// note\ngo()}",
		},
		{
			name: "comments stripped",
			src:  "define(function () {\n  // note\n  go() /* x */\n})",
			opts: PrintOptions{Compact: true, StripComments: true},
			want: "function(){go()}",
		},
		{
			name: "ambiguous operators",
			src:  "define(function () { return a + +b - -c })",
			opts: PrintOptions{Compact: true},
			want: "function(){return a+ +b- -c}",
		},
		{
			name: "strings verbatim",
			src:  "define({ 'a b': \"c  d\", t: `x ${ y } z` })",
			opts: PrintOptions{Compact: true},
			want: "{'a b':\"c  d\",t:`x ${ y } z`}",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Print(factoryOf(t, tc.src), tc.opts); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPrintCompactReparses(t *testing.T) {
	factory := factoryOf(t, "define(function () {\n  var x = 1\n  x++\n  return x\n})")
	out := Print(factory, PrintOptions{Compact: true})
	if _, err := ParseString(context.Background(), "("+out+")"); err != nil {
		t.Fatalf("compact output %q does not parse: %v", out, err)
	}
}

func TestPrintZeroNode(t *testing.T) {
	if got := Print(Node{}, PrintOptions{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
