package pyast

// Children returns the direct sub-expressions of e. Lambda bodies belong to
// another scope and are never returned.
func Children(e Expr) []Expr {
	switch x := e.(type) {
	case *Attribute:
		return []Expr{x.Value}
	case *Call:
		out := make([]Expr, 0, len(x.Args)+1)
		out = append(out, x.Func)
		return append(out, x.Args...)
	case *Yield:
		if x.Value != nil {
			return []Expr{x.Value}
		}
	case *OtherExpr:
		return x.Children
	}
	return nil
}

// InspectExpr walks e in pre-order. Returning false from fn skips the
// children of the current node.
func InspectExpr(e Expr, fn func(Expr) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, c := range Children(e) {
		InspectExpr(c, fn)
	}
}

// stmtExprs lists the expressions owned directly by a statement.
func stmtExprs(s Stmt) []Expr {
	switch x := s.(type) {
	case *Return:
		return nonNil(x.Value)
	case *Raise:
		return nonNil(x.Exc, x.Cause)
	case *Assign:
		out := make([]Expr, 0, len(x.Targets)+1)
		out = append(out, x.Targets...)
		return append(out, nonNil(x.Value)...)
	case *ExprStmt:
		return nonNil(x.Value)
	case *Compound:
		return x.Exprs
	case *OtherStmt:
		return x.Exprs
	}
	return nil
}

func nonNil(es ...Expr) []Expr {
	out := es[:0:0]
	for _, e := range es {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Visitor receives the nodes of one scope.
type Visitor interface {
	Stmt(s Stmt) bool
	Expr(e Expr) bool
}

// InspectScope walks the statements of one scope in source order, visiting
// every statement and expression. Nested function and class definitions are
// reported to v.Stmt but never entered. Returning false from v.Stmt skips the
// statement's expressions and nested bodies.
func InspectScope(body []Stmt, v Visitor) {
	for _, s := range body {
		if !v.Stmt(s) {
			continue
		}
		switch s.(type) {
		case *FunctionDef, *ClassDef:
			continue
		}
		for _, e := range stmtExprs(s) {
			InspectExpr(e, v.Expr)
		}
		if c, ok := s.(*Compound); ok {
			for _, b := range c.Bodies {
				InspectScope(b, v)
			}
		}
	}
}

// VisitFuncs adapts two functions to Visitor. A nil function accepts everything.
type VisitFuncs struct {
	OnStmt func(Stmt) bool
	OnExpr func(Expr) bool
}

func (f VisitFuncs) Stmt(s Stmt) bool {
	if f.OnStmt == nil {
		return true
	}
	return f.OnStmt(s)
}

func (f VisitFuncs) Expr(e Expr) bool {
	if f.OnExpr == nil {
		return true
	}
	return f.OnExpr(e)
}
