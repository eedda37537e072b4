package pyast

import "vipyrdocs/internal/source"

// Node is implemented by every syntax node.
type Node interface {
	Pos() source.LineCol
	Span() source.Span
	isNode()
}

// Expr marks expression nodes.
type Expr interface {
	Node
	isExpr()
}

// Stmt marks statement nodes.
type Stmt interface {
	Node
	isStmt()
}

// Base carries the location shared by all nodes.
type Base struct {
	At source.LineCol
	Sp source.Span
}

func (b Base) Pos() source.LineCol { return b.At }
func (b Base) Span() source.Span    { return b.Sp }
