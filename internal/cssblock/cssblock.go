// Package cssblock splits a stylesheet into named blocks, imports and plain
// text using spm's comment directives:
//
//	/*! define id */
//	/*! block id */ ... /*! endblock */
//	/*! import id */  or  @import url('id');
package cssblock

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

type NodeType string

const (
	TypeBlock  NodeType = "block"
	TypeImport NodeType = "import"
	TypeString NodeType = "string"
)

var (
	ErrBlockNotFinished = errors.New("block not finished")
	ErrBlockIndent      = errors.New("block indent error")
)

// Node is one piece of a parsed stylesheet. Blocks carry Children, strings
// carry Code and imports only carry ID.
type Node struct {
	Type     NodeType
	ID       string
	Code     string
	Children []Node
}

// MarshalJSON writes blocks as {"type","id","code":[...]} and strings as
// {"type","code":"..."}.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case TypeBlock:
		children := n.Children
		if children == nil {
			children = []Node{}
		}
		return json.Marshal(struct {
			Type NodeType `json:"type"`
			ID   string   `json:"id,omitempty"`
			Code []Node   `json:"code"`
		}{n.Type, n.ID, children})
	case TypeImport:
		return json.Marshal(struct {
			Type NodeType `json:"type"`
			ID   string   `json:"id"`
		}{n.Type, n.ID})
	default:
		return json.Marshal(struct {
			Type NodeType `json:"type"`
			Code string   `json:"code"`
		}{n.Type, n.Code})
	}
}

var (
	lineBreakPattern = regexp.MustCompile(`\r\n|\r|\n`)
	endBlockPattern  = regexp.MustCompile(`/\*!\s*endblock(\s+[^*]*)?\s*\*/$`)
	importPattern    = regexp.MustCompile(`^@import\s+(?:url\()?(['"])([^)]+)(['"])\)?;?\s*$`)
	directiveCache   = map[string]*regexp.Regexp{
		"define": directivePattern("define"),
		"block":  directivePattern("block"),
		"import": directivePattern("import"),
	}
)

func directivePattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`^/\*!\s*` + key + `\s+(.*?)\s*\*/$`)
}

// directive returns the value of a "/*! key value */" line.
func directive(text, key string) string {
	m := directiveCache[key].FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// Parse returns the root block of code. Its ID comes from a define directive
// on the first non-blank line, which otherwise stays part of the content.
func Parse(code string) (Node, error) {
	lines := lineBreakPattern.Split(code, -1)
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	root := Node{Type: TypeBlock}
	if len(lines) > 0 {
		root.ID = directive(lines[0], "define")
	}
	children, err := parseBlock(lines)
	if err != nil {
		return Node{}, err
	}
	root.Children = children
	return root, nil
}

type blockParser struct {
	lines []string
	tree  []Node
	text  string
	block Node
	body  string
	depth int
}

func parseBlock(lines []string) ([]Node, error) {
	p := &blockParser{lines: lines, tree: make([]Node, 0)}
	for len(p.lines) > 0 {
		if err := p.parseInBlock(); err != nil {
			return nil, err
		}
		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}
	if p.depth != 0 {
		return nil, ErrBlockNotFinished
	}
	p.flushString()
	return p.tree, nil
}

func (p *blockParser) shift() string {
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line
}

func (p *blockParser) flushString() {
	text := strings.Trim(p.text, "\n")
	p.text = ""
	if text != "" {
		p.tree = append(p.tree, Node{Type: TypeString, Code: text})
	}
}

func (p *blockParser) parseLine() error {
	if p.depth != 0 || len(p.lines) == 0 {
		return nil
	}
	line := p.shift()
	id := directive(line, "import")
	if id == "" {
		if m := importPattern.FindStringSubmatch(line); m != nil && m[1] == m[3] {
			id = m[2]
		}
	}
	if id == "" {
		p.text += "\n" + line
		return nil
	}
	p.flushString()
	p.tree = append(p.tree, Node{Type: TypeImport, ID: id})
	return nil
}

func (p *blockParser) parseInBlock() error {
	line := p.lines[0]
	if id := directive(line, "block"); id != "" {
		p.shift()
		if p.depth == 0 {
			p.flushString()
			p.block = Node{Type: TypeBlock, ID: id}
			p.body = ""
		} else {
			p.body += "\n" + line
		}
		p.depth++
		return nil
	}

	if endBlockPattern.MatchString(line) {
		p.depth--
		if p.depth < 0 {
			return ErrBlockIndent
		}
		p.shift()
		if p.depth > 0 {
			p.body += "\n" + line
			return nil
		}
		children, err := parseBlock(lineBreakPattern.Split(p.body, -1))
		if err != nil {
			return err
		}
		p.block.Children = children
		p.tree = append(p.tree, p.block)
		p.block = Node{}
		return nil
	}

	if p.depth > 0 {
		p.shift()
		p.body += "\n" + line
	}
	return nil
}
