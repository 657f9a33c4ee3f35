package define

import (
	"context"
	"errors"

	"github.com/ben-ranford/cmdast/internal/syntax"
)

var ErrNilTree = errors.New("nil syntax tree")

// RewriteRequires replaces the target of every require('literal') call with
// mapping.Apply(target). Only the literal's bytes change: the quote character is
// kept and all other source, comments included, is copied as is. The returned
// tree must be used in place of tree.
func RewriteRequires(ctx context.Context, tree *syntax.Tree, mapping Mapping) (*syntax.Tree, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	if mapping.IsIdentity() {
		return tree, nil
	}
	return tree.Transform(ctx, func(node syntax.Node) (string, bool) {
		if node.Kind() != syntax.KindString || !isSoleRequireArgument(node) {
			return "", false
		}
		value, ok := node.StringValue()
		if !ok {
			return "", false
		}
		mapped := mapping.Apply(value)
		if mapped == value {
			return "", false
		}
		return syntax.QuoteString(mapped, node.Quote()), true
	})
}

func isSoleRequireArgument(node syntax.Node) bool {
	call := node.Parenthesized().Parent().Parent()
	if !isCallTo(call, requireName) {
		return false
	}
	args := call.Args()
	return len(args) == 1 && args[0].Equal(node)
}
