// Package syntax wraps the tree-sitter JavaScript grammar with the small set of
// parse, walk, transform and print primitives the define tooling needs.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

const maxSnippetLength = 40

var errNilTree = errors.New("tree-sitter returned nil tree")

// ParseError reports the first syntax error found in the source.
type ParseError struct {
	Line    int
	Column  int
	Snippet string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("syntax error at %d:%d", e.Line, e.Column)
	}
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Line, e.Column, e.Snippet)
}

// Tree owns a parsed program and the exact bytes it was parsed from.
type Tree struct {
	source []byte
	tree   *sitter.Tree
}

// Parse parses src as a JavaScript program. Sources that tree-sitter can only
// recover with ERROR or missing nodes are rejected with a *ParseError.
func Parse(ctx context.Context, src []byte) (*Tree, error) {
	content := append([]byte(nil), src...)

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, errNilTree
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(root, content)
	}
	return &Tree{source: content, tree: tree}, nil
}

// ParseString is Parse for source held in a string.
func ParseString(ctx context.Context, text string) (*Tree, error) {
	return Parse(ctx, []byte(text))
}

// Root returns the program node, or the zero Node for a nil tree.
func (t *Tree) Root() Node {
	if t == nil || t.tree == nil {
		return Node{}
	}
	return Node{n: t.tree.RootNode(), src: t.source}
}

// Source returns the bytes the tree was parsed from. Callers must not modify it.
func (t *Tree) Source() []byte {
	if t == nil {
		return nil
	}
	return t.source
}

func (t *Tree) String() string {
	return string(t.Source())
}

// Walk visits every node of the tree depth-first. See Walk.
func (t *Tree) Walk(visit func(Node) bool) {
	Walk(t.Root(), visit)
}

type edit struct {
	start uint32
	end   uint32
	text  string
}

// Transform lets replace substitute the source text of any node. Replaced nodes
// are not descended into. The edits are applied to a copy of the source which is
// parsed again, so the receiver is left untouched and the result is a new tree.
// When nothing is replaced the receiver itself is returned.
func (t *Tree) Transform(ctx context.Context, replace func(Node) (string, bool)) (*Tree, error) {
	edits := make([]edit, 0)
	t.Walk(func(node Node) bool {
		text, ok := replace(node)
		if !ok {
			return true
		}
		edits = append(edits, edit{start: node.n.StartByte(), end: node.n.EndByte(), text: text})
		return false
	})
	if len(edits) == 0 {
		return t, nil
	}
	return Parse(ctx, splice(t.source, edits))
}

// splice expects edits ordered by start offset and not overlapping, which is
// what a pre-order walk that stops at replaced nodes produces.
func splice(source []byte, edits []edit) []byte {
	var b strings.Builder
	b.Grow(len(source))
	cursor := uint32(0)
	for _, e := range edits {
		b.Write(source[cursor:e.start])
		b.WriteString(e.text)
		cursor = e.end
	}
	b.Write(source[cursor:])
	return []byte(b.String())
}

func newParseError(root *sitter.Node, content []byte) *ParseError {
	bad := firstErrorNode(root)
	if bad == nil {
		return &ParseError{Line: 1, Column: 1}
	}
	point := bad.StartPoint()
	parseErr := &ParseError{
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
	if bad.IsMissing() {
		parseErr.Snippet = "missing " + bad.Type()
		return parseErr
	}
	snippet := strings.TrimSpace(string(content[bad.StartByte():bad.EndByte()]))
	if idx := strings.IndexAny(snippet, "\r\n"); idx >= 0 {
		snippet = snippet[:idx]
	}
	if len(snippet) > maxSnippetLength {
		snippet = snippet[:maxSnippetLength]
	}
	parseErr.Snippet = snippet
	return parseErr
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
