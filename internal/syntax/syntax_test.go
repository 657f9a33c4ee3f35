package syntax

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return tree
}

func firstCall(t *testing.T, tree *Tree, callee string) Node {
	t.Helper()
	var found Node
	tree.Walk(func(node Node) bool {
		if !found.IsZero() {
			return false
		}
		if node.Kind() == KindCall && node.Callee().IsIdentifier(callee) {
			found = node
			return false
		}
		return true
	})
	if found.IsZero() {
		t.Fatalf("no %s call found", callee)
	}
	return found
}

func TestParseRejectsMalformedSource(t *testing.T) {
	_, err := ParseString(context.Background(), "define('a', [\n")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Line < 1 || parseErr.Column < 1 {
		t.Fatalf("expected 1-based position, got %d:%d", parseErr.Line, parseErr.Column)
	}
	if !strings.Contains(parseErr.Error(), "syntax error") {
		t.Fatalf("unexpected message %q", parseErr.Error())
	}
}

func TestParseEmptySource(t *testing.T) {
	tree := mustParse(t, "")
	if tree.Root().IsZero() {
		t.Fatalf("expected a program root for empty source")
	}
}

func TestParseCopiesSource(t *testing.T) {
	src := []byte("define({})")
	tree, err := Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	src[0] = 'X'
	if tree.String() != "define({})" {
		t.Fatalf("expected tree to own its source, got %q", tree.String())
	}
}

func TestNodeKinds(t *testing.T) {
	tree := mustParse(t, "define('id', ['a', b], function(require) {}, {k: 1}, () => 1, x, 42)")
	call := firstCall(t, tree, "define")
	args := call.Args()
	want := []Kind{KindString, KindArray, KindFunction, KindObject, KindFunction, KindIdentifier, KindOther}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(args))
	}
	for i, kind := range want {
		if args[i].Kind() != kind {
			t.Fatalf("arg %d: expected %s, got %s (%s)", i, kind, args[i].Kind(), args[i].Type())
		}
	}
	elements := args[1].Elements()
	if len(elements) != 2 || elements[0].Kind() != KindString || elements[1].Kind() != KindIdentifier {
		t.Fatalf("unexpected array elements: %#v", elements)
	}
}

func TestArgsSkipComments(t *testing.T) {
	tree := mustParse(t, "define(/* id */ 'a', // deps\n ['b'])")
	args := firstCall(t, tree, "define").Args()
	if len(args) != 2 {
		t.Fatalf("expected comments to be excluded from args, got %d", len(args))
	}
}

func TestArgsUnwrapParentheses(t *testing.T) {
	tree := mustParse(t, "define((('a')), ([(('b'))]), (x, y))")
	args := firstCall(t, tree, "define").Args()
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if value, ok := args[0].StringValue(); !ok || value != "a" {
		t.Fatalf("expected unwrapped string a, got %q", args[0].Text())
	}
	elements := args[1].Elements()
	if len(elements) != 1 || elements[0].Text() != "'b'" {
		t.Fatalf("expected unwrapped array element, got %q", args[1].Text())
	}
	if args[2].Type() != "parenthesized_expression" {
		t.Fatalf("expected sequence to stay parenthesized, got %s", args[2].Type())
	}
	if got := elements[0].Parenthesized().Text(); got != "(('b'))" {
		t.Fatalf("expected outermost parentheses, got %q", got)
	}
}

func TestStringValue(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`x('plain')`, "plain"},
		{`x("double")`, "double"},
		{`x('it\'s')`, "it's"},
		{`x("a\\b")`, `a\b`},
		{`x("line\nbreak")`, "line\nbreak"},
		{`x("\x41B\u{43}")`, "ABC"},
		{`x("😀")`, "\U0001F600"},
		{`x('')`, ""},
		{`x('\101\x41')`, "AA"},
		{`x('\01')`, "\x01"},
		{`x('\0')`, "\x00"},
		{`x('\08')`, "\x008"},
		{`x('\1012')`, "A2"},
		{`x('\477')`, "'7"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			tree := mustParse(t, tc.src)
			args := firstCall(t, tree, "x").Args()
			value, ok := args[0].StringValue()
			if !ok {
				t.Fatalf("expected string literal")
			}
			if value != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, value)
			}
		})
	}
}

func TestStringValueRejectsNonStrings(t *testing.T) {
	tree := mustParse(t, "x(`tpl`, name, 1)")
	for _, arg := range firstCall(t, tree, "x").Args() {
		if _, ok := arg.StringValue(); ok {
			t.Fatalf("expected %s not to decode as a string", arg.Type())
		}
	}
}

func TestQuoteString(t *testing.T) {
	cases := []struct {
		value string
		quote byte
		want  string
	}{
		{"jquery", '\'', `'jquery'`},
		{"jquery", '"', `"jquery"`},
		{"it's", '\'', `'it\'s'`},
		{`say "hi"`, '"', `"say \"hi\""`},
		{"a\\b\n", '"', `"a\\b\n"`},
		{"x", 0, `"x"`},
	}
	for _, tc := range cases {
		if got := QuoteString(tc.value, tc.quote); got != tc.want {
			t.Fatalf("QuoteString(%q, %q): expected %s, got %s", tc.value, tc.quote, tc.want, got)
		}
	}
}

func TestWalkStopsDescent(t *testing.T) {
	tree := mustParse(t, "outer(inner(deep()))")
	seen := make([]string, 0)
	tree.Walk(func(node Node) bool {
		if node.Kind() != KindCall {
			return true
		}
		seen = append(seen, node.Callee().Text())
		return node.Callee().Text() != "inner"
	})
	if strings.Join(seen, ",") != "outer,inner" {
		t.Fatalf("expected walk to stop below inner, got %v", seen)
	}
}

func TestTransformSplicesAndReparses(t *testing.T) {
	tree := mustParse(t, "// keep\nrequire('a'); require(\"b\");\n")
	out, err := tree.Transform(context.Background(), func(node Node) (string, bool) {
		value, ok := node.StringValue()
		if !ok {
			return "", false
		}
		return QuoteString(strings.ToUpper(value), node.Quote()), true
	})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	want := "// keep\nrequire('A'); require(\"B\");\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
	if tree.String() == want {
		t.Fatalf("expected original tree to be left untouched")
	}
}

func TestTransformWithoutEditsReturnsSameTree(t *testing.T) {
	tree := mustParse(t, "a()")
	out, err := tree.Transform(context.Background(), func(Node) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out != tree {
		t.Fatalf("expected identical tree when nothing changes")
	}
}

func TestTransformReportsBrokenReplacement(t *testing.T) {
	tree := mustParse(t, "require('a')")
	_, err := tree.Transform(context.Background(), func(node Node) (string, bool) {
		if node.Kind() == KindString {
			return "'unterminated", true
		}
		return "", false
	})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error from broken replacement, got %v", err)
	}
}

func TestSpanIsOneBased(t *testing.T) {
	tree := mustParse(t, "\n  define({})")
	span := firstCall(t, tree, "define").Span()
	if span.Line != 2 || span.Column != 3 {
		t.Fatalf("expected 2:3, got %d:%d", span.Line, span.Column)
	}
	if span.Start != 3 || span.End != len("\n  define({})") {
		t.Fatalf("unexpected byte range %d-%d", span.Start, span.End)
	}
}

func TestParentAndEqual(t *testing.T) {
	tree := mustParse(t, "require('a')")
	call := firstCall(t, tree, "require")
	arg := call.Args()[0]
	if arg.Parent().Type() != "arguments" {
		t.Fatalf("expected arguments parent, got %s", arg.Parent().Type())
	}
	if !arg.Parent().Parent().Equal(call) {
		t.Fatalf("expected grandparent to be the call")
	}
	if arg.Equal(call) || !(Node{}).Equal(Node{}) {
		t.Fatalf("unexpected Equal result")
	}
}
