package facts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vipyrdocs/internal/facts"
	"vipyrdocs/internal/pyast"
	"vipyrdocs/internal/pyfront"
)

// extract parses src and returns the facts of every definition by name.
func extract(t *testing.T, src string) map[string]*facts.Definition {
	t.Helper()
	mod, err := pyfront.Parse(context.Background(), "sample.py", []byte(src))
	require.NoError(t, err)
	out := map[string]*facts.Definition{}
	for _, d := range pyast.Definitions(mod) {
		f := facts.Extract(d.Node, d.InClass)
		out[f.Name] = f
	}
	return out
}

func TestReturnsValue(t *testing.T) {
	defs := extract(t, `
def bare():
    return

def none():
    return None

def value(x):
    if x:
        return
    return x + 1

def nested():
    def inner():
        return 1
    return

def after_raise():
    raise ValueError()
    return 1
`)
	assert.False(t, defs["bare"].ReturnsValue)
	assert.False(t, defs["none"].ReturnsValue)
	assert.True(t, defs["value"].ReturnsValue)
	assert.EqualValues(t, 11, defs["value"].ReturnAt.Line)
	assert.False(t, defs["nested"].ReturnsValue, "inner returns do not count")
	assert.True(t, defs["inner"].ReturnsValue)
	assert.True(t, defs["after_raise"].ReturnsValue, "no reachability analysis")
}

func TestYieldsValue(t *testing.T) {
	defs := extract(t, `
def gen():
    yield 1

def bare():
    yield

def none():
    yield None

def delegate():
    yield from other()

def assigned():
    x = yield 5

def lam():
    f = lambda: (yield 1)
`)
	assert.True(t, defs["gen"].YieldsValue)
	assert.False(t, defs["bare"].YieldsValue)
	assert.True(t, defs["none"].YieldsValue, "only a bare yield is exempt")
	assert.True(t, defs["delegate"].YieldsValue)
	assert.True(t, defs["assigned"].YieldsValue)
	assert.False(t, defs["lam"].YieldsValue, "lambda bodies are another scope")
}

func TestRaises(t *testing.T) {
	defs := extract(t, `
def f(x):
    try:
        pass
    except KeyError:
        raise
    if x:
        raise ValueError("x")
    raise errors.NotFound
    raise ValueError
    raise make_error()()

def only_reraise():
    try:
        pass
    except Exception:
        raise
`)
	f := defs["f"]
	assert.True(t, f.RaisesExplicit)
	assert.True(t, f.Reraises)
	assert.EqualValues(t, 6, f.ReraiseAt.Line)
	assert.EqualValues(t, 8, f.RaiseAt.Line)
	names := []string{}
	for _, r := range f.Raised {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"ValueError", "NotFound"}, names)

	o := defs["only_reraise"]
	assert.False(t, o.RaisesExplicit)
	assert.True(t, o.Reraises)
}

func TestParamsAndKinds(t *testing.T) {
	defs := extract(t, `
def top(a, _b, *args, **kw):
    pass

class C:
    def method(self, x):
        pass

    @staticmethod
    def static(x, y):
        pass

    @classmethod
    def build(cls):
        pass
`)
	names := func(ps []facts.Named) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}
	top := defs["top"]
	assert.Equal(t, facts.KindFunction, top.Kind)
	assert.Equal(t, []string{"a", "_b", "args", "kw"}, names(top.Params))
	assert.Equal(t, []string{"a", "args", "kw"}, names(top.PublicParams()))

	assert.Equal(t, facts.KindMethod, defs["method"].Kind)
	assert.Equal(t, []string{"x"}, names(defs["method"].Params))
	assert.True(t, defs["static"].IsStaticMethod)
	assert.Equal(t, []string{"x", "y"}, names(defs["static"].Params))
	assert.Empty(t, defs["build"].Params)
	assert.Equal(t, facts.KindClass, defs["C"].Kind)
}

func TestAttributes(t *testing.T) {
	defs := extract(t, `
class Model:
    kind = "model"
    _hidden = 1

    def __init__(self):
        self.value = 1
        self._private = 2
        self.value = 3
        self.a, self.b = 1, 2

        def helper():
            self.not_counted = 1

    def other(this):
        this.late = 1

class Empty:
    def method(self):
        return self.value
`)
	m := defs["Model"]
	assert.True(t, m.HasPublicAttributes)
	names := []string{}
	for _, a := range m.Attributes {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"value", "a", "b", "late"}, names)
	assert.EqualValues(t, 7, m.Attributes[0].At.Line, "first assignment wins")
	assert.Equal(t, []string{"kind"}, m.ClassAttributes)
	assert.True(t, m.HasAttribute("kind"))
	assert.False(t, m.HasAttribute("not_counted"))

	assert.False(t, defs["Empty"].HasPublicAttributes)
}

func TestDocstringFacts(t *testing.T) {
	defs := extract(t, `
def documented():
    """Summary."""

def blank():
    """   """

def missing():
    pass
`)
	require.NotNil(t, defs["documented"].Doc)
	assert.Equal(t, "Summary.", defs["documented"].Doc.Raw)
	assert.True(t, defs["documented"].HasDocstring())
	assert.False(t, defs["blank"].HasDocstring())
	assert.Nil(t, defs["missing"].Doc)
}

func TestExtractPanicsOnMisuse(t *testing.T) {
	assert.Panics(t, func() {
		facts.Extract(&pyast.Return{}, false)
	})
}
