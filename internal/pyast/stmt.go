package pyast

// ParamKind distinguishes the parameter slots of a Python signature.
type ParamKind uint8

const (
	ParamPositional ParamKind = iota
	ParamPositionalOnly
	ParamKeywordOnly
	ParamVarPositional // *args
	ParamVarKeyword    // **kwargs
)

func (k ParamKind) String() string {
	switch k {
	case ParamPositional:
		return "positional"
	case ParamPositionalOnly:
		return "positional-only"
	case ParamKeywordOnly:
		return "keyword-only"
	case ParamVarPositional:
		return "var-positional"
	case ParamVarKeyword:
		return "var-keyword"
	}
	return "unknown"
}

// Param is one parameter of a function signature.
type Param struct {
	Base
	Name string
	Kind ParamKind
}

// FunctionDef is `def` or `async def`. At points at the `def` keyword line.
type FunctionDef struct {
	Base
	Name       string
	Async      bool
	Decorators []Expr
	Params     []Param
	Body       []Stmt
}

// ClassDef is a class statement.
type ClassDef struct {
	Base
	Name       string
	Decorators []Expr
	Bases      []Expr
	Body       []Stmt
}

// Return is `return` with an optional value.
type Return struct {
	Base
	Value Expr
}

// Raise is `raise`, `raise Exc` or `raise Exc from cause`.
type Raise struct {
	Base
	Exc   Expr
	Cause Expr
}

// Assign covers plain, augmented and annotated assignments. Value may be nil
// for a bare annotation (`x: int`).
type Assign struct {
	Base
	Targets []Expr
	Value   Expr
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Base
	Value Expr
}

// Compound is any block statement (if, for, while, try, with, match) with its
// header expressions and every nested body, clauses included, in source order.
type Compound struct {
	Base
	Keyword string
	Exprs   []Expr
	Bodies  [][]Stmt
}

// OtherStmt is any simple statement not modelled above (pass, import, del, ...).
type OtherStmt struct {
	Base
	Kind  string
	Exprs []Expr
}

func (*FunctionDef) isNode() {}
func (*FunctionDef) isStmt() {}
func (*ClassDef) isNode()    {}
func (*ClassDef) isStmt()    {}
func (*Return) isNode()      {}
func (*Return) isStmt()      {}
func (*Raise) isNode()       {}
func (*Raise) isStmt()       {}
func (*Assign) isNode()      {}
func (*Assign) isStmt()      {}
func (*ExprStmt) isNode()    {}
func (*ExprStmt) isStmt()    {}
func (*Compound) isNode()    {}
func (*Compound) isStmt()    {}
func (*OtherStmt) isNode()   {}
func (*OtherStmt) isStmt()   {}
