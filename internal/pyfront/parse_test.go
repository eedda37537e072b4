package pyfront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vipyrdocs/internal/pyast"
	"vipyrdocs/internal/testkit"
)

// dotted renders Name / Attribute chains as "a.b.c"; other shapes give "".
func dotted(e pyast.Expr) string {
	switch x := e.(type) {
	case *pyast.Name:
		return x.ID
	case *pyast.Attribute:
		if base := dotted(x.Value); base != "" {
			return base + "." + x.Attr
		}
	}
	return ""
}

func parse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := Parse(context.Background(), "sample.py", []byte(src))
	require.NoError(t, err)
	return mod
}

func TestParseFunctionShape(t *testing.T) {
	mod := parse(t, `@property
async def fetch(self, a, /, b: int = 1, *args, c, **kwargs):
    """Fetch things.

    Args:
        a: first
    """
    return a
`)
	require.Len(t, mod.Body, 1)
	fn, ok := mod.Body[0].(*pyast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "fetch", fn.Name)
	assert.True(t, fn.Async)
	require.Len(t, fn.Decorators, 1)
	assert.Equal(t, "property", dotted(fn.Decorators[0]))
	assert.EqualValues(t, 2, fn.Pos().Line, "definition starts at the def line")

	kinds := map[string]pyast.ParamKind{}
	names := []string{}
	for _, p := range fn.Params {
		kinds[p.Name] = p.Kind
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"self", "a", "b", "args", "c", "kwargs"}, names)
	assert.Equal(t, pyast.ParamPositionalOnly, kinds["a"])
	assert.Equal(t, pyast.ParamPositional, kinds["b"])
	assert.Equal(t, pyast.ParamVarPositional, kinds["args"])
	assert.Equal(t, pyast.ParamKeywordOnly, kinds["c"])
	assert.Equal(t, pyast.ParamVarKeyword, kinds["kwargs"])

	doc, ok := pyast.Docstring(fn.Body)
	require.True(t, ok)
	assert.Equal(t, "Fetch things.\n\n    Args:\n        a: first\n    ", doc.Value)
	assert.EqualValues(t, 3, doc.ValueAt.Line)
	assert.EqualValues(t, 8, doc.ValueAt.Col, "column just past the opening quotes")

	ret, ok := fn.Body[1].(*pyast.Return)
	require.True(t, ok)
	assert.IsType(t, &pyast.Name{}, ret.Value)
}

func TestParseStatements(t *testing.T) {
	mod := parse(t, `class C(Base):
    x = y = 1
    def __init__(self):
        self.a, self.b = 1, 2
        if cond:
            raise ValueError("bad") from err
        else:
            raise
        yield from gen()
        z = lambda: (yield)
`)
	require.Len(t, mod.Body, 1)
	cls := mod.Body[0].(*pyast.ClassDef)
	require.Len(t, cls.Bases, 1)

	assign := cls.Body[0].(*pyast.Assign)
	require.Len(t, assign.Targets, 2)
	assert.Equal(t, "1", assign.Value.(*pyast.Constant).Value)

	init := cls.Body[1].(*pyast.FunctionDef)
	tuple := init.Body[0].(*pyast.Assign)
	require.Len(t, tuple.Targets, 1)
	assert.IsType(t, &pyast.OtherExpr{}, tuple.Targets[0])

	ifs := init.Body[1].(*pyast.Compound)
	assert.Equal(t, "if", ifs.Keyword)
	require.Len(t, ifs.Bodies, 2)
	r := ifs.Bodies[0][0].(*pyast.Raise)
	assert.Equal(t, "ValueError", dotted(r.Exc.(*pyast.Call).Func))
	assert.Equal(t, "err", dotted(r.Cause))
	bare := ifs.Bodies[1][0].(*pyast.Raise)
	assert.Nil(t, bare.Exc)

	y := init.Body[2].(*pyast.ExprStmt).Value.(*pyast.Yield)
	assert.True(t, y.From)

	lam := init.Body[3].(*pyast.Assign)
	assert.IsType(t, &pyast.Lambda{}, lam.Value)
	assert.False(t, mod.HasErrors)
}

func TestParseStringPrefixes(t *testing.T) {
	cases := []struct {
		raw     string
		prefix  int
		quote   int
		content string
	}{
		{`"""doc"""`, 0, 3, "doc"},
		{`r'''raw\n'''`, 1, 3, `raw\n`},
		{`"one"`, 0, 1, "one"},
		{`Rb"x"`, 2, 1, "x"},
	}
	for _, tc := range cases {
		p, q, body := literal(tc.raw)
		assert.Equal(t, tc.prefix, p, tc.raw)
		assert.Equal(t, tc.quote, q, tc.raw)
		assert.Equal(t, tc.content, body, tc.raw)
	}
}

func TestParseRecoversFromErrors(t *testing.T) {
	mod := parse(t, "def ok():\n    return 1\n\ndef broken(:\n    pass\n")
	assert.True(t, mod.HasErrors)
	assert.NotEmpty(t, mod.ErrorAt)
	defs := pyast.Definitions(mod)
	require.NotEmpty(t, defs)
	assert.Equal(t, "ok", defs[0].Node.(*pyast.FunctionDef).Name)
}

func TestParseSpanInvariants(t *testing.T) {
	src := `import os


class Store(Base, metaclass=Meta):
    """Keeps things."""

    limit: int = 3

    @staticmethod
    def load(path, *, strict=False):
        """Load path."""
        if not path:
            raise ValueError("empty") from None
        elif strict:
            return None
        else:
            with open(path) as fh:
                for line in fh:
                    yield line.strip()
        try:
            os.remove(path)
        except OSError as err:
            raise
        finally:
            pass
`
	mod := parse(t, src)
	require.False(t, mod.HasErrors)
	require.NoError(t, testkit.CheckSpanInvariants(mod, []byte(src)))
}
