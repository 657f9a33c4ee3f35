package syntax

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind is the closed set of node shapes the define tooling distinguishes.
type Kind int

const (
	KindOther Kind = iota
	KindCall
	KindIdentifier
	KindString
	KindArray
	KindFunction
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindIdentifier:
		return "identifier"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindObject:
		return "object"
	default:
		return "other"
	}
}

// Span locates a node in its source. Start and End are byte offsets, Line and
// Column are 1-based.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

// Node is a handle on a tree-sitter node plus the source it was parsed from.
// The zero Node is valid and reports IsZero.
type Node struct {
	n   *sitter.Node
	src []byte
}

func (n Node) IsZero() bool {
	return n.n == nil
}

func (n Node) Type() string {
	if n.n == nil {
		return ""
	}
	return n.n.Type()
}

func (n Node) Kind() Kind {
	switch n.Type() {
	case "call_expression":
		return KindCall
	case "identifier":
		return KindIdentifier
	case "string":
		return KindString
	case "array":
		return KindArray
	case "function", "function_expression", "arrow_function", "generator_function",
		"function_declaration", "generator_function_declaration":
		return KindFunction
	case "object":
		return KindObject
	default:
		return KindOther
	}
}

func (n Node) Text() string {
	if n.n == nil {
		return ""
	}
	return string(n.src[n.n.StartByte():n.n.EndByte()])
}

func (n Node) Span() Span {
	if n.n == nil {
		return Span{}
	}
	point := n.n.StartPoint()
	return Span{
		Start:  int(n.n.StartByte()),
		End:    int(n.n.EndByte()),
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
}

// Equal reports whether two handles from the same tree denote the same node.
func (n Node) Equal(other Node) bool {
	if n.n == nil || other.n == nil {
		return n.n == nil && other.n == nil
	}
	return n.Type() == other.Type() && n.Span() == other.Span()
}

func (n Node) Parent() Node {
	if n.n == nil {
		return Node{}
	}
	return n.wrap(n.n.Parent())
}

// IsIdentifier reports whether the node is the bare identifier name.
func (n Node) IsIdentifier(name string) bool {
	return n.Kind() == KindIdentifier && n.Text() == name
}

// Callee returns the function position of a call expression.
func (n Node) Callee() Node {
	if n.Kind() != KindCall {
		return Node{}
	}
	return n.wrap(n.n.ChildByFieldName("function"))
}

// Args returns the arguments of a call expression in source order. Tagged
// template calls have no argument list and report none.
func (n Node) Args() []Node {
	if n.Kind() != KindCall {
		return nil
	}
	arguments := n.wrap(n.n.ChildByFieldName("arguments"))
	if arguments.Type() != "arguments" {
		return nil
	}
	return unparenAll(arguments.namedChildren())
}

// Elements returns the elements of an array literal. Holes are not nodes and
// do not appear.
func (n Node) Elements() []Node {
	if n.Kind() != KindArray {
		return nil
	}
	return unparenAll(n.namedChildren())
}

// Unparen returns the expression inside any number of enclosing parentheses.
// (a, b) stays a sequence expression.
func (n Node) Unparen() Node {
	for n.Type() == "parenthesized_expression" {
		inner := n.namedChildren()
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

// Parenthesized returns the outermost parenthesized expression that holds only
// n, or n itself.
func (n Node) Parenthesized() Node {
	for {
		parent := n.Parent()
		if parent.Type() != "parenthesized_expression" || len(parent.namedChildren()) != 1 {
			return n
		}
		n = parent
	}
}

func unparenAll(nodes []Node) []Node {
	for i, node := range nodes {
		nodes[i] = node.Unparen()
	}
	return nodes
}

// Quote returns the quote character of a string literal, or 0.
func (n Node) Quote() byte {
	if n.Kind() != KindString {
		return 0
	}
	text := n.Text()
	if text == "" {
		return 0
	}
	return text[0]
}

// StringValue decodes a string literal node.
func (n Node) StringValue() (string, bool) {
	if n.Kind() != KindString {
		return "", false
	}
	text := n.Text()
	if len(text) < 2 {
		return "", false
	}
	quote := text[0]
	if (quote != '"' && quote != '\'') || text[len(text)-1] != quote {
		return "", false
	}
	return unescape(text[1 : len(text)-1]), true
}

func (n Node) wrap(child *sitter.Node) Node {
	if child == nil {
		return Node{}
	}
	return Node{n: child, src: n.src}
}

func (n Node) namedChildren() []Node {
	count := int(n.n.NamedChildCount())
	children := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.wrap(n.n.NamedChild(i))
		if child.IsZero() || child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

// Walk visits node and then, if visit returns true, its named descendants in
// pre-order. Returning false skips the children of that node only.
func Walk(node Node, visit func(Node) bool) {
	if node.IsZero() {
		return
	}
	if !visit(node) {
		return
	}
	for i := 0; i < int(node.n.NamedChildCount()); i++ {
		Walk(node.wrap(node.n.NamedChild(i)), visit)
	}
}

// QuoteString renders value as a JavaScript string literal using quote.
func QuoteString(value string, quote byte) string {
	if quote != '\'' {
		quote = '"'
	}
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte(quote)
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r == rune(quote) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

func unescape(body string) string {
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := body[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			r, width := decodeOctal(body[i:])
			b.WriteRune(r)
			i += width - 1
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			r, width := decodeHex(body[i+1:], 2)
			if width == 0 {
				b.WriteByte(e)
				continue
			}
			b.WriteRune(r)
			i += width
		case 'u':
			r, width := decodeUnicodeEscape(body[i+1:])
			if width == 0 {
				b.WriteByte(e)
				continue
			}
			i += width
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+1:], `\u`) {
				low, lowWidth := decodeUnicodeEscape(body[i+3:])
				if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
					b.WriteRune(pair)
					i += 2 + lowWidth
					continue
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(e)
		}
	}
	return b.String()
}

// decodeOctal reads a legacy octal escape: up to three digits when the first
// is 0-3, up to two otherwise, so the value never exceeds \377.
func decodeOctal(s string) (rune, int) {
	limit := 2
	if s[0] <= '3' {
		limit = 3
	}
	var value rune
	width := 0
	for width < limit && width < len(s) && s[width] >= '0' && s[width] <= '7' {
		value = value*8 + rune(s[width]-'0')
		width++
	}
	return value, width
}

func decodeUnicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		value, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || value > utf8.MaxRune {
			return 0, 0
		}
		return rune(value), end + 1
	}
	return decodeHex(s, 4)
}

func decodeHex(s string, digits int) (rune, int) {
	if len(s) < digits {
		return 0, 0
	}
	value, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(value), digits
}
