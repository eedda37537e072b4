package pyast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vipyrdocs/internal/source"
)

func at(line, col uint32) Base {
	return Base{At: source.LineCol{Line: line, Col: col}}
}

func TestDocstring(t *testing.T) {
	doc := &Constant{Base: at(2, 5), Kind: ConstStr, Value: "Summary."}
	c, ok := Docstring([]Stmt{&ExprStmt{Base: at(2, 5), Value: doc}, &Return{Base: at(3, 5)}})
	require.True(t, ok)
	assert.Equal(t, "Summary.", c.Value)

	_, ok = Docstring([]Stmt{&ExprStmt{Value: &Constant{Kind: ConstNumber, Value: "1"}}})
	assert.False(t, ok, "numbers are not docstrings")

	_, ok = Docstring([]Stmt{&Return{}, &ExprStmt{Value: doc}})
	assert.False(t, ok, "only the first statement counts")

	_, ok = Docstring(nil)
	assert.False(t, ok)
}

func TestDefinitionsSourceOrder(t *testing.T) {
	method := &FunctionDef{Base: at(3, 5), Name: "method"}
	guarded := &FunctionDef{Base: at(6, 9), Name: "guarded"}
	inner := &FunctionDef{Base: at(9, 9), Name: "inner"}
	cls := &ClassDef{Base: at(2, 1), Name: "C", Body: []Stmt{
		method,
		&Compound{Base: at(5, 5), Keyword: "if", Bodies: [][]Stmt{{guarded}}},
	}}
	outer := &FunctionDef{Base: at(8, 1), Name: "outer", Body: []Stmt{inner}}

	defs := Definitions(&Module{Body: []Stmt{cls, outer}})
	require.Len(t, defs, 5)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		switch n := d.Node.(type) {
		case *FunctionDef:
			names = append(names, n.Name)
		case *ClassDef:
			names = append(names, n.Name)
		}
	}
	assert.Equal(t, []string{"C", "method", "guarded", "outer", "inner"}, names)
	assert.False(t, defs[0].InClass)
	assert.True(t, defs[1].InClass)
	assert.True(t, defs[2].InClass, "def under if in a class body is still a method")
	assert.False(t, defs[4].InClass)
	assert.Same(t, outer, defs[4].Parent)
}

func TestInspectScopeStopsAtDefinitions(t *testing.T) {
	nestedYield := &Yield{Value: &Name{ID: "x"}}
	ownYield := &Yield{Value: &Name{ID: "y"}}
	body := []Stmt{
		&FunctionDef{Name: "nested", Body: []Stmt{&ExprStmt{Value: nestedYield}}},
		&Compound{Keyword: "for", Exprs: []Expr{&Name{ID: "i"}}, Bodies: [][]Stmt{
			{&ExprStmt{Value: &OtherExpr{Kind: "binary_operator", Children: []Expr{ownYield}}}},
		}},
		&ExprStmt{Value: &Lambda{}},
	}

	var yields []*Yield
	InspectScope(body, VisitFuncs{OnExpr: func(e Expr) bool {
		if y, ok := e.(*Yield); ok {
			yields = append(yields, y)
		}
		return true
	}})
	require.Len(t, yields, 1)
	assert.Same(t, ownYield, yields[0])
}

func TestIsNone(t *testing.T) {
	assert.True(t, IsNone(&Constant{Kind: ConstNone}))
	assert.False(t, IsNone(&Name{ID: "None"}))
}
