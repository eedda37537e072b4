package rules

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/docstring"
	"vipyrdocs/internal/facts"
	"vipyrdocs/internal/source"
)

func lc(line, col uint32) source.LineCol { return source.LineCol{Line: line, Col: col} }

// function builds facts for `def f(...)` at 1:1 with a docstring starting at 2:8.
func function(doc string, edit func(d *facts.Definition)) *facts.Definition {
	d := &facts.Definition{Kind: facts.KindFunction, Name: "f", At: lc(1, 1)}
	if doc != "" {
		d.Doc = &facts.Doc{Raw: doc, At: lc(2, 8)}
	}
	if edit != nil {
		edit(d)
	}
	return d
}

func codes(ds []diag.Diagnostic) []diag.Code {
	out := []diag.Code{}
	for _, d := range ds {
		out = append(out, d.Code)
	}
	return out
}

func run(d *facts.Definition) []diag.Diagnostic {
	return NewEvaluator(Options{}).Check(d)
}

func TestReturnsMissingExactlyOnce(t *testing.T) {
	for _, doc := range []string{"Summary.", "Summary.\n\n    Args:\n        x: y\n    ", "Summary.\n\n    Yields:\n        v\n    "} {
		d := function(doc, func(d *facts.Definition) {
			d.ReturnsValue = true
			d.ReturnAt = lc(5, 5)
		})
		got := codes(run(d))
		assert.Equal(t, 1, count(got, diag.ReturnsSectionMissing), doc)
		assert.Zero(t, count(got, diag.ReturnsSectionUnexpected), doc)
	}
}

func TestReturnsUnexpectedExactlyOnce(t *testing.T) {
	for n := 1; n <= 3; n++ {
		doc := "Summary.\n" + strings.Repeat("\n    Returns:\n        v\n", n)
		got := codes(run(function(doc, nil)))
		assert.Equal(t, 1, count(got, diag.ReturnsSectionUnexpected), doc)
	}
}

func TestReturnsDuplicateCarriesCount(t *testing.T) {
	for n := 2; n <= 5; n++ {
		doc := "Summary.\n" + strings.Repeat("\n    Returns:\n        anything: at all\n\n", n)
		ds := run(function(doc, func(d *facts.Definition) { d.ReturnsValue = true }))
		var dups []diag.Diagnostic
		for _, d := range ds {
			if d.Code == diag.ReturnsSectionDuplicate {
				dups = append(dups, d)
			}
		}
		require.Len(t, dups, 1)
		assert.Contains(t, dups[0].Message, fmt.Sprintf("found %d", n))
	}
}

func TestEvaluationIsIdempotent(t *testing.T) {
	d := function("Summary.\n\n    Returns:\n    Returns:\n    Raises:\n        KeyError: k\n    ", func(d *facts.Definition) {
		d.YieldsValue = true
		d.RaisesExplicit = true
		d.Raised = []facts.Named{{Name: "ValueError", At: lc(7, 9)}}
		d.Params = []facts.Named{{Name: "x", At: lc(1, 7)}}
	})
	parsed := docstring.Parse(d.Doc.Raw)
	ev := NewEvaluator(Options{})
	first := ev.Evaluate(d, parsed)
	second := ev.Evaluate(d, parsed)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestMissingDocstringSuppressesEverything(t *testing.T) {
	for _, doc := range []string{"", "   \n   "} {
		d := function(doc, func(d *facts.Definition) {
			d.ReturnsValue = true
			d.YieldsValue = true
			d.RaisesExplicit = true
			d.Params = []facts.Named{{Name: "x"}}
		})
		if doc != "" {
			d.Doc = &facts.Doc{Raw: doc, At: lc(2, 8)}
		}
		ds := run(d)
		require.Len(t, ds, 1)
		assert.Equal(t, diag.DocstrMissing, ds[0].Code)
		assert.Equal(t, lc(1, 1), ds[0].Loc)
	}
}

func TestPropertyExemptsReturnsMissingOnly(t *testing.T) {
	d := function("Summary.", func(d *facts.Definition) {
		d.Kind = facts.KindMethod
		d.ReturnsValue = true
		d.IsProperty = true
	})
	assert.Empty(t, run(d))

	d = function("Summary.\n\n    Returns:\n        v\n    ", func(d *facts.Definition) {
		d.Kind = facts.KindMethod
		d.IsProperty = true
	})
	assert.Equal(t, []diag.Code{diag.ReturnsSectionUnexpected}, codes(run(d)))
}

func TestFamilyOrderAndLocations(t *testing.T) {
	doc := "Summary.\n\n    Returns:\n        v\n    Yields:\n        v\n    Yields:\n        w\n    "
	d := function(doc, func(d *facts.Definition) {
		d.Params = []facts.Named{{Name: "x", At: lc(1, 7)}}
		d.RaisesExplicit = true
		d.RaiseAt = lc(12, 5)
	})
	ds := run(d)
	assert.Equal(t, []diag.Code{
		diag.ReturnsSectionUnexpected,
		diag.YieldsSectionUnexpected,
		diag.YieldsSectionDuplicate,
		diag.ArgsSectionMissing,
		diag.RaisesSectionMissing,
	}, codes(ds))
	assert.Equal(t, lc(4, 5), ds[0].Loc, "first returns heading")
	assert.Equal(t, lc(6, 5), ds[1].Loc, "first yields heading")
	assert.Equal(t, lc(8, 5), ds[2].Loc, "second yields heading")
	assert.Equal(t, lc(1, 7), ds[3].Loc, "first parameter")
	assert.Equal(t, lc(12, 5), ds[4].Loc, "first raise")
}

func TestHeadingOnFirstDocstringLine(t *testing.T) {
	d := function("Returns:\n        v\n    ", nil)
	ds := run(d)
	require.Len(t, ds, 1)
	assert.Equal(t, lc(2, 8), ds[0].Loc)
}

func TestArgsRules(t *testing.T) {
	params := []facts.Named{{Name: "a", At: lc(1, 7)}, {Name: "_b", At: lc(1, 10)}, {Name: "c", At: lc(1, 14)}}
	d := function("Summary.\n\n    Args:\n        a: x\n        _b: hidden\n        z: ghost\n        a: again\n    ", func(d *facts.Definition) {
		d.Params = params
	})
	ds := run(d)
	assert.Equal(t, []diag.Code{diag.ArgUndocumented, diag.ArgNotInSignature, diag.ArgDocumentedTwice}, codes(ds))
	assert.Equal(t, lc(1, 14), ds[0].Loc)
	assert.Contains(t, ds[0].Message, `"c" argument`)
	assert.Equal(t, lc(7, 9), ds[1].Loc)
	assert.Equal(t, lc(8, 9), ds[2].Loc)

	noParams := function("Summary.\n\n    Args:\n        a: x\n    ", nil)
	assert.Equal(t, []diag.Code{diag.ArgsSectionUnexpected}, codes(run(noParams)))

	onlyPrivate := function("Summary.", func(d *facts.Definition) {
		d.Params = []facts.Named{{Name: "_x"}}
	})
	assert.Empty(t, run(onlyPrivate), "private parameters need no args section")

	twice := function("Summary.\n\n    Args:\n        a: x\n    Args:\n        b: y\n    ", func(d *facts.Definition) {
		d.Params = []facts.Named{{Name: "q"}}
	})
	assert.Equal(t, []diag.Code{diag.ArgsSectionDuplicate}, codes(run(twice)), "per-name rules need a single section")
}

func TestRaisesRules(t *testing.T) {
	d := function("Summary.\n\n    Raises:\n        KeyError: k\n        KeyError: again\n    ", func(d *facts.Definition) {
		d.RaisesExplicit = true
		d.RaiseAt = lc(9, 5)
		d.Raised = []facts.Named{{Name: "ValueError", At: lc(9, 5)}}
	})
	ds := run(d)
	assert.Equal(t, []diag.Code{diag.ExcUndocumented, diag.ExcNotRaised, diag.ExcDocumentedTwice}, codes(ds))
	assert.Equal(t, lc(9, 5), ds[0].Loc)
	assert.Equal(t, lc(5, 9), ds[1].Loc)

	withReraise := function("Summary.\n\n    Raises:\n        KeyError: k\n    ", func(d *facts.Definition) {
		d.RaisesExplicit = true
		d.Reraises = true
		d.Raised = []facts.Named{{Name: "KeyError"}}
	})
	assert.Empty(t, run(withReraise))

	bareOnly := function("Summary.", func(d *facts.Definition) {
		d.Reraises = true
		d.ReraiseAt = lc(6, 9)
	})
	ds = run(bareOnly)
	require.Len(t, ds, 1)
	assert.Equal(t, diag.ReraiseUndocumented, ds[0].Code)
	assert.Equal(t, lc(6, 9), ds[0].Loc)

	bareDocumented := function("Summary.\n\n    Raises:\n        KeyError: k\n    ", func(d *facts.Definition) {
		d.Reraises = true
	})
	assert.Empty(t, run(bareDocumented))

	unexpected := function("Summary.\n\n    Raises:\n        KeyError: k\n    ", nil)
	assert.Equal(t, []diag.Code{diag.RaisesSectionUnexpected}, codes(run(unexpected)))
}

func class(doc string, edit func(d *facts.Definition)) *facts.Definition {
	d := function(doc, edit)
	d.Kind = facts.KindClass
	return d
}

func TestAttributesRules(t *testing.T) {
	missing := class("Summary.", func(d *facts.Definition) {
		d.HasPublicAttributes = true
		d.Attributes = []facts.Named{{Name: "value", At: lc(5, 9)}}
	})
	ds := run(missing)
	require.Len(t, ds, 1)
	assert.Equal(t, diag.AttrsSectionMissing, ds[0].Code)
	assert.Equal(t, lc(2, 8), ds[0].Loc, "docstring start")

	perName := class("Summary.\n\n    Attributes:\n        kind: class level\n        _cache: private\n        ghost: nope\n        kind: twice\n    ", func(d *facts.Definition) {
		d.HasPublicAttributes = true
		d.Attributes = []facts.Named{{Name: "value", At: lc(9, 9)}}
		d.ClassAttributes = []string{"kind"}
	})
	ds = run(perName)
	assert.Equal(t, []diag.Code{diag.AttrUndocumented, diag.AttrNotDefined, diag.AttrDocumentedTwice}, codes(ds))
	assert.Equal(t, lc(9, 9), ds[0].Loc)
	assert.Contains(t, ds[1].Message, `"ghost"`)

	classOnly := class("Summary.\n\n    Attributes:\n        kind: k\n    ", func(d *facts.Definition) {
		d.ClassAttributes = []string{"kind"}
	})
	assert.Empty(t, run(classOnly))

	none := class("Summary.\n\n    Attributes:\n    ", nil)
	assert.Equal(t, []diag.Code{diag.AttrsSectionUnexpected}, codes(run(none)))

	// классы не проверяются на returns/args
	notCallable := class("Summary.\n\n    Returns:\n        v\n    ", nil)
	assert.Empty(t, run(notCallable))
}

func TestDisabledCodes(t *testing.T) {
	doc := "Summary.\n\n    Returns:\n    Returns:\n    "
	d := function(doc, nil)
	ev := NewEvaluator(Options{Disabled: map[diag.Code]bool{diag.ReturnsSectionUnexpected: true}})
	assert.Equal(t, []diag.Code{diag.ReturnsSectionDuplicate}, codes(ev.Check(d)))

	nodoc := function("", nil)
	ev = NewEvaluator(Options{Disabled: map[diag.Code]bool{diag.DocstrMissing: true}})
	assert.Empty(t, ev.Check(nodoc), "disabling 010 does not unlock section rules")
}

func TestMessageFormat(t *testing.T) {
	d := function("Summary.\n\n    Returns:\n    Returns:\n    ", func(d *facts.Definition) { d.ReturnsValue = true })
	ds := NewEvaluator(Options{MoreInfoBase: "https://docs.example.org/rules/"}).Check(d)
	require.Len(t, ds, 1)
	assert.Equal(t,
		"DCO032 a docstring should only contain a single returns section, found 2 (more info: https://docs.example.org/rules/dco032)",
		ds[0].Message)
	assert.Equal(t, diag.SevError, ds[0].Severity)
}

func TestTableOrder(t *testing.T) {
	table := Table()
	require.Len(t, table, len(diag.RuleCodes()))
	assert.Equal(t, diag.DocstrMissing, table[0].Code)
	assert.Equal(t, "returns", table[1].Family)
	assert.Equal(t, diag.AttrDocumentedTwice, table[len(table)-1].Code)
	for _, r := range table {
		assert.NotEmpty(t, r.Template, r.ID)
	}
}

func count(cs []diag.Code, c diag.Code) int {
	n := 0
	for _, x := range cs {
		if x == c {
			n++
		}
	}
	return n
}

func TestDocLocation(t *testing.T) {
	c := &evalCtx{ev: NewEvaluator(Options{}), def: function("Summary.", nil)}
	tests := []struct {
		name           string
		offset, indent int
		want           source.LineCol
	}{
		{"first line", 0, 3, lc(2, 11)},
		{"later line", 3, 4, lc(5, 5)},
		{"negative offset", -1, 4, lc(2, 8)},
		{"negative indent", 2, -4, lc(2, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.docLoc(tt.offset, tt.indent))
		})
	}
}
