// Package pyfront turns Python source into the pyast model using tree-sitter.
package pyfront

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"vipyrdocs/internal/pyast"
)

// ErrNilTree is returned when tree-sitter produced no root node.
var ErrNilTree = errors.New("tree-sitter returned no tree")

// Parse converts src into a module. Syntax errors do not fail the parse:
// tree-sitter recovers and the module is returned with HasErrors set.
func Parse(ctx context.Context, path string, src []byte) (*pyast.Module, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("%s: file too large: %w", path, err)
	}

	// новый парсер на каждый вызов: sitter.Parser не потокобезопасен
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	if tree == nil {
		return nil, ErrNilTree
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, ErrNilTree
	}

	c := &converter{src: src}
	mod := &pyast.Module{
		Path: path,
		Body: c.block(root),
	}
	if root.HasError() {
		mod.HasErrors = true
		collectErrors(root, &mod.ErrorAt)
	}
	return mod, nil
}

// collectErrors records ERROR and MISSING nodes, descending only into
// subtrees that contain errors.
func collectErrors(n *sitter.Node, out *[]pyast.Base) {
	if n.IsError() || n.IsMissing() {
		*out = append(*out, base(n))
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch != nil && ch.HasError() {
			collectErrors(ch, out)
		}
	}
}
