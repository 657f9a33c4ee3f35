package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// PrintOptions controls Print. The zero value keeps the source layout and its
// comments.
type PrintOptions struct {
	// Compact joins tokens with the least whitespace that keeps the program
	// equivalent instead of reproducing the original layout.
	Compact bool
	// StripComments drops comment nodes.
	StripComments bool
}

// verbatimTypes are printed from source as a whole even though tree-sitter
// gives them children.
var verbatimTypes = map[string]bool{
	"string":          true,
	"template_string": true,
	"regex":           true,
	"comment":         true,
	"jsx_text":        true,
	"hash_bang_line":  true,
}

// Print renders node back to JavaScript text.
func Print(node Node, opts PrintOptions) string {
	if node.IsZero() {
		return ""
	}
	if opts.Compact {
		return printCompact(node, !opts.StripComments)
	}
	if !opts.StripComments {
		return node.Text()
	}
	return printWithoutComments(node)
}

func printWithoutComments(node Node) string {
	base := int(node.n.StartByte())
	text := node.src[base:node.n.EndByte()]

	comments := make([]Span, 0)
	Walk(node, func(child Node) bool {
		if child.Type() == "comment" {
			comments = append(comments, child.Span())
			return false
		}
		return true
	})
	if len(comments) == 0 {
		return string(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, span := range comments {
		start, end := span.Start-base, span.End-base
		if start < cursor {
			continue
		}
		lineStart, lineEnd, ownLine := commentLine(text, start, end, cursor)
		if ownLine {
			b.Write(text[cursor:lineStart])
			cursor = lineEnd
			continue
		}
		b.Write(text[cursor:start])
		if start > 0 && end < len(text) && !isSpace(text[start-1]) && !isSpace(text[end]) {
			b.WriteByte(' ')
		}
		cursor = end
	}
	b.Write(text[cursor:])
	return b.String()
}

// commentLine reports whether the comment at [start,end) is the only content of
// its line and, if so, the range covering the whole line including its newline.
func commentLine(text []byte, start, end, floor int) (int, int, bool) {
	lineStart := start
	for lineStart > floor && (text[lineStart-1] == ' ' || text[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart > 0 && text[lineStart-1] != '\n' {
		return 0, 0, false
	}
	lineEnd := end
	for lineEnd < len(text) && (text[lineEnd] == ' ' || text[lineEnd] == '\t' || text[lineEnd] == '\r') {
		lineEnd++
	}
	if lineEnd < len(text) && text[lineEnd] != '\n' {
		return 0, 0, false
	}
	if lineEnd < len(text) {
		lineEnd++
	}
	return lineStart, lineEnd, true
}

type token struct {
	text        string
	start       uint32
	end         uint32
	comment     bool
	lineComment bool
}

func printCompact(node Node, keepComments bool) string {
	tokens := make([]token, 0)
	collectTokens(node.n, node.src, &tokens)

	var b strings.Builder
	var prev *token
	for i := range tokens {
		tok := &tokens[i]
		if tok.comment && !keepComments {
			continue
		}
		if prev != nil {
			gap := string(node.src[prev.end:tok.start])
			switch {
			case prev.lineComment:
				b.WriteByte('\n')
			case strings.ContainsAny(gap, "\r\n") && !canDropNewline(prev.text, tok.text):
				b.WriteByte('\n')
			case needsSpace(prev.text, tok.text):
				b.WriteByte(' ')
			}
		}
		b.WriteString(tok.text)
		prev = tok
	}
	return b.String()
}

func collectTokens(node *sitter.Node, src []byte, tokens *[]token) {
	if node == nil {
		return
	}
	if node.ChildCount() == 0 || verbatimTypes[node.Type()] {
		if node.EndByte() == node.StartByte() {
			return
		}
		text := string(src[node.StartByte():node.EndByte()])
		tok := token{text: text, start: node.StartByte(), end: node.EndByte()}
		if node.Type() == "comment" {
			tok.comment = true
			tok.lineComment = strings.HasPrefix(text, "//")
		}
		*tokens = append(*tokens, tok)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectTokens(node.Child(i), src, tokens)
	}
}

// canDropNewline reports whether a newline between two tokens carries no
// meaning, i.e. automatic semicolon insertion cannot depend on it.
func canDropNewline(prev, next string) bool {
	last := prev[len(prev)-1]
	if strings.IndexByte("{;,([", last) >= 0 {
		return true
	}
	return strings.IndexByte(")]};,", next[0]) >= 0
}

func needsSpace(prev, next string) bool {
	last, first := prev[len(prev)-1], next[0]
	if isWordByte(last) && isWordByte(first) {
		return true
	}
	if isDigit(last) && first == '.' {
		return true
	}
	switch {
	case last == '+' && first == '+',
		last == '-' && first == '-',
		last == '/' && (first == '/' || first == '*'):
		return true
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
