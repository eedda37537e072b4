package pyast

import "vipyrdocs/internal/source"

// Name is a bare identifier reference.
type Name struct {
	Base
	ID string
}

// Attribute is `Value.Attr`.
type Attribute struct {
	Base
	Value Expr
	Attr  string
}

// Call is `Func(Args...)`. Keyword argument values are appended to Args.
type Call struct {
	Base
	Func Expr
	Args []Expr
}

// ConstKind classifies literal constants.
type ConstKind uint8

const (
	ConstOther ConstKind = iota
	ConstNone
	ConstStr
	ConstNumber
	ConstBool
	ConstEllipsis
)

// Constant is a literal. For strings Value holds the raw text between the
// quotes (no escape processing) and ValueAt the position of its first byte.
type Constant struct {
	Base
	Kind    ConstKind
	Value   string
	ValueAt source.LineCol
}

// Yield is `yield`, `yield x` or `yield from x` (From set).
type Yield struct {
	Base
	Value Expr
	From  bool
}

// Lambda is an anonymous function. Its body is another scope and is not kept.
type Lambda struct {
	Base
}

// OtherExpr stands for any other expression; Children keeps its
// sub-expressions so nested yields stay visible.
type OtherExpr struct {
	Base
	Kind     string
	Children []Expr
}

func (*Name) isNode()      {}
func (*Name) isExpr()      {}
func (*Attribute) isNode() {}
func (*Attribute) isExpr() {}
func (*Call) isNode()      {}
func (*Call) isExpr()      {}
func (*Constant) isNode()  {}
func (*Constant) isExpr()  {}
func (*Yield) isNode()     {}
func (*Yield) isExpr()     {}
func (*Lambda) isNode()    {}
func (*Lambda) isExpr()    {}
func (*OtherExpr) isNode() {}
func (*OtherExpr) isExpr() {}

// IsNone reports whether e is the literal None.
func IsNone(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Kind == ConstNone
}
