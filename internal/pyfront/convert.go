package pyfront

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"vipyrdocs/internal/pyast"
	"vipyrdocs/internal/source"
)

type converter struct {
	src []byte
}

func base(n *sitter.Node) pyast.Base {
	p := n.StartPoint()
	return pyast.Base{
		At: source.LineCol{Line: p.Row + 1, Col: p.Column + 1},
		Sp: source.Span{Start: n.StartByte(), End: n.EndByte()},
	}
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// namedChildren skips comments, which tree-sitter attaches anywhere.
func namedChildren(n *sitter.Node) []*sitter.Node {
	cnt := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, cnt)
	for i := 0; i < cnt; i++ {
		ch := n.NamedChild(i)
		if ch == nil || ch.Type() == "comment" {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func (c *converter) block(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	kids := namedChildren(n)
	out := make([]pyast.Stmt, 0, len(kids))
	for _, ch := range kids {
		if st := c.stmt(ch); st != nil {
			out = append(out, st)
		}
	}
	return out
}

func (c *converter) stmt(n *sitter.Node) pyast.Stmt {
	switch n.Type() {
	case "function_definition":
		return c.function(n, nil)
	case "class_definition":
		return c.class(n, nil)
	case "decorated_definition":
		return c.decorated(n)
	case "expression_statement":
		return c.exprStmt(n)
	case "return_statement":
		r := &pyast.Return{Base: base(n)}
		if kids := namedChildren(n); len(kids) > 0 {
			r.Value = c.expr(kids[0])
		}
		return r
	case "raise_statement":
		return c.raise(n)
	case "ERROR":
		return &pyast.OtherStmt{Base: base(n), Kind: "ERROR"}
	}
	return c.generic(n)
}

func (c *converter) decorated(n *sitter.Node) pyast.Stmt {
	var decorators []pyast.Expr
	for _, ch := range namedChildren(n) {
		if ch.Type() != "decorator" {
			continue
		}
		if kids := namedChildren(ch); len(kids) > 0 {
			decorators = append(decorators, c.expr(kids[0]))
		}
	}
	def := n.ChildByFieldName("definition")
	if def == nil {
		return &pyast.OtherStmt{Base: base(n), Kind: n.Type(), Exprs: decorators}
	}
	switch def.Type() {
	case "function_definition":
		return c.function(def, decorators)
	case "class_definition":
		return c.class(def, decorators)
	}
	return &pyast.OtherStmt{Base: base(n), Kind: n.Type(), Exprs: decorators}
}

func (c *converter) function(n *sitter.Node, decorators []pyast.Expr) *pyast.FunctionDef {
	fn := &pyast.FunctionDef{Base: base(n), Decorators: decorators}
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Name = c.text(name)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch == nil {
			continue
		}
		if ch.Type() == "async" {
			fn.Async = true
		}
		if ch.Type() == "def" {
			break
		}
	}
	fn.Params = c.params(n.ChildByFieldName("parameters"))
	fn.Body = c.block(n.ChildByFieldName("body"))
	return fn
}

func (c *converter) class(n *sitter.Node, decorators []pyast.Expr) *pyast.ClassDef {
	cls := &pyast.ClassDef{Base: base(n), Decorators: decorators}
	if name := n.ChildByFieldName("name"); name != nil {
		cls.Name = c.text(name)
	}
	if sup := n.ChildByFieldName("superclasses"); sup != nil {
		cls.Bases = c.arguments(sup)
	}
	cls.Body = c.block(n.ChildByFieldName("body"))
	return cls
}

func (c *converter) params(n *sitter.Node) []pyast.Param {
	if n == nil {
		return nil
	}
	var out []pyast.Param
	kind := pyast.ParamPositional
	for _, ch := range namedChildren(n) {
		switch ch.Type() {
		case "positional_separator":
			// всё, что слева от "/", только позиционное
			for i := range out {
				if out[i].Kind == pyast.ParamPositional {
					out[i].Kind = pyast.ParamPositionalOnly
				}
			}
			continue
		case "keyword_separator":
			kind = pyast.ParamKeywordOnly
			continue
		}
		name, k, ok := c.paramName(ch)
		if !ok {
			continue
		}
		switch k {
		case pyast.ParamVarPositional:
			kind = pyast.ParamKeywordOnly
		case pyast.ParamPositional:
			k = kind
		}
		out = append(out, pyast.Param{Base: base(ch), Name: name, Kind: k})
	}
	return out
}

func (c *converter) paramName(n *sitter.Node) (string, pyast.ParamKind, bool) {
	switch n.Type() {
	case "identifier":
		return c.text(n), pyast.ParamPositional, true
	case "typed_parameter":
		if kids := namedChildren(n); len(kids) > 0 {
			return c.paramName(kids[0])
		}
	case "default_parameter", "typed_default_parameter":
		if name := n.ChildByFieldName("name"); name != nil {
			return c.paramName(name)
		}
	case "list_splat_pattern":
		if kids := namedChildren(n); len(kids) > 0 {
			return c.text(kids[0]), pyast.ParamVarPositional, true
		}
	case "dictionary_splat_pattern":
		if kids := namedChildren(n); len(kids) > 0 {
			return c.text(kids[0]), pyast.ParamVarKeyword, true
		}
	}
	return "", 0, false
}

func (c *converter) exprStmt(n *sitter.Node) pyast.Stmt {
	kids := namedChildren(n)
	if len(kids) == 1 {
		switch kids[0].Type() {
		case "assignment", "augmented_assignment":
			return c.assign(kids[0])
		}
		return &pyast.ExprStmt{Base: base(n), Value: c.expr(kids[0])}
	}
	return &pyast.ExprStmt{Base: base(n), Value: &pyast.OtherExpr{
		Base:     base(n),
		Kind:     "expression_list",
		Children: c.exprs(kids),
	}}
}

// assign flattens chained assignments: `a = b = v` gives targets [a, b].
func (c *converter) assign(n *sitter.Node) *pyast.Assign {
	a := &pyast.Assign{Base: base(n)}
	cur := n
	for cur != nil {
		if left := cur.ChildByFieldName("left"); left != nil {
			a.Targets = append(a.Targets, c.expr(left))
		}
		right := cur.ChildByFieldName("right")
		if right == nil {
			break
		}
		if right.Type() == "assignment" || right.Type() == "augmented_assignment" {
			cur = right
			continue
		}
		a.Value = c.expr(right)
		break
	}
	return a
}

func (c *converter) raise(n *sitter.Node) *pyast.Raise {
	r := &pyast.Raise{Base: base(n)}
	cause := n.ChildByFieldName("cause")
	for _, ch := range namedChildren(n) {
		if sameNode(ch, cause) {
			continue
		}
		if r.Exc == nil {
			r.Exc = c.expr(ch)
		}
	}
	if cause != nil {
		r.Cause = c.expr(cause)
	}
	return r
}

// generic handles every other statement. Block statements (if, for, while,
// try, with, match and their clauses) become Compound; the rest OtherStmt.
func (c *converter) generic(n *sitter.Node) pyast.Stmt {
	var exprs []pyast.Expr
	var bodies [][]pyast.Stmt
	c.collect(n, &exprs, &bodies)
	if len(bodies) == 0 {
		return &pyast.OtherStmt{Base: base(n), Kind: n.Type(), Exprs: exprs}
	}
	return &pyast.Compound{
		Base:    base(n),
		Keyword: strings.TrimSuffix(strings.TrimSuffix(n.Type(), "_statement"), "_clause"),
		Exprs:   exprs,
		Bodies:  bodies,
	}
}

func (c *converter) collect(n *sitter.Node, exprs *[]pyast.Expr, bodies *[][]pyast.Stmt) {
	for _, ch := range namedChildren(n) {
		t := ch.Type()
		switch {
		case t == "block":
			*bodies = append(*bodies, c.block(ch))
		case strings.HasSuffix(t, "_clause"), t == "with_item", t == "case_pattern":
			c.collect(ch, exprs, bodies)
		case strings.HasSuffix(t, "_statement"), t == "function_definition",
			t == "class_definition", t == "decorated_definition":
			// однострочное тело без block, например "if x: return 1"
			if st := c.stmt(ch); st != nil {
				*bodies = append(*bodies, []pyast.Stmt{st})
			}
		case t == "ERROR":
		default:
			*exprs = append(*exprs, c.expr(ch))
		}
	}
}

func (c *converter) exprs(nodes []*sitter.Node) []pyast.Expr {
	out := make([]pyast.Expr, 0, len(nodes))
	for _, n := range nodes {
		if e := c.expr(n); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (c *converter) expr(n *sitter.Node) pyast.Expr {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier":
		return &pyast.Name{Base: base(n), ID: c.text(n)}
	case "attribute":
		a := &pyast.Attribute{Base: base(n), Value: c.expr(n.ChildByFieldName("object"))}
		if attr := n.ChildByFieldName("attribute"); attr != nil {
			a.Attr = c.text(attr)
		}
		return a
	case "call":
		call := &pyast.Call{Base: base(n), Func: c.expr(n.ChildByFieldName("function"))}
		if args := n.ChildByFieldName("arguments"); args != nil {
			if args.Type() == "argument_list" {
				call.Args = c.arguments(args)
			} else {
				call.Args = []pyast.Expr{c.expr(args)}
			}
		}
		return call
	case "none":
		return &pyast.Constant{Base: base(n), Kind: pyast.ConstNone, Value: "None"}
	case "true", "false":
		return &pyast.Constant{Base: base(n), Kind: pyast.ConstBool, Value: c.text(n)}
	case "integer", "float":
		return &pyast.Constant{Base: base(n), Kind: pyast.ConstNumber, Value: c.text(n)}
	case "ellipsis":
		return &pyast.Constant{Base: base(n), Kind: pyast.ConstEllipsis, Value: "..."}
	case "string":
		return c.str(n)
	case "concatenated_string":
		return c.concatenated(n)
	case "yield":
		return c.yield(n)
	case "lambda":
		return &pyast.Lambda{Base: base(n)}
	case "parenthesized_expression":
		if kids := namedChildren(n); len(kids) == 1 {
			return c.expr(kids[0])
		}
	}
	return &pyast.OtherExpr{Base: base(n), Kind: n.Type(), Children: c.exprs(namedChildren(n))}
}

// arguments converts an argument_list; keyword argument values are kept
// in order, their names dropped.
func (c *converter) arguments(n *sitter.Node) []pyast.Expr {
	kids := namedChildren(n)
	out := make([]pyast.Expr, 0, len(kids))
	for _, ch := range kids {
		if ch.Type() == "keyword_argument" {
			if v := ch.ChildByFieldName("value"); v != nil {
				out = append(out, c.expr(v))
			}
			continue
		}
		out = append(out, c.expr(ch))
	}
	return out
}

func (c *converter) yield(n *sitter.Node) *pyast.Yield {
	y := &pyast.Yield{Base: base(n)}
	for i := 0; i < int(n.ChildCount()); i++ {
		if ch := n.Child(i); ch != nil && !ch.IsNamed() && ch.Type() == "from" {
			y.From = true
		}
	}
	if kids := namedChildren(n); len(kids) > 0 {
		if len(kids) == 1 {
			y.Value = c.expr(kids[0])
		} else {
			y.Value = &pyast.OtherExpr{Base: base(n), Kind: "expression_list", Children: c.exprs(kids)}
		}
	}
	return y
}
