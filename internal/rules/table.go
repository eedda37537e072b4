// Package rules cross-checks definition facts against docstring sections.
//
// The rule table is fixed at init and never mutated. Families run in a fixed
// order (docstring, returns, yields, args, raises, attributes) and each
// family emits missing, unexpected and duplicate findings before its
// per-name findings, so output is stable for identical input.
package rules

import (
	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/docstring"
	"vipyrdocs/internal/facts"
)

// family groups the rules checking one docstring section.
type family struct {
	Name    string
	Section string // docstring section name, "" for the presence rule
	Codes   []diag.Code
	// Kinds are the definition kinds the family applies to.
	Kinds []facts.Kind

	check func(c *evalCtx)
}

func (f *family) applies(k facts.Kind) bool {
	for _, fk := range f.Kinds {
		if fk == k {
			return true
		}
	}
	return false
}

var callables = []facts.Kind{facts.KindFunction, facts.KindMethod}

var families = []family{
	{
		Name:  "docstring",
		Codes: []diag.Code{diag.DocstrMissing},
		Kinds: []facts.Kind{facts.KindFunction, facts.KindMethod, facts.KindClass},
		check: checkDocstring,
	},
	{
		Name:    "returns",
		Section: docstring.SectionReturns,
		Codes:   []diag.Code{diag.ReturnsSectionMissing, diag.ReturnsSectionUnexpected, diag.ReturnsSectionDuplicate},
		Kinds:   callables,
		check:   checkReturns,
	},
	{
		Name:    "yields",
		Section: docstring.SectionYields,
		Codes:   []diag.Code{diag.YieldsSectionMissing, diag.YieldsSectionUnexpected, diag.YieldsSectionDuplicate},
		Kinds:   callables,
		check:   checkYields,
	},
	{
		Name:    "args",
		Section: docstring.SectionArgs,
		Codes: []diag.Code{
			diag.ArgsSectionMissing, diag.ArgsSectionUnexpected, diag.ArgsSectionDuplicate,
			diag.ArgUndocumented, diag.ArgNotInSignature, diag.ArgDocumentedTwice,
		},
		Kinds: callables,
		check: checkArgs,
	},
	{
		Name:    "raises",
		Section: docstring.SectionRaises,
		Codes: []diag.Code{
			diag.RaisesSectionMissing, diag.RaisesSectionUnexpected, diag.RaisesSectionDuplicate,
			diag.ExcUndocumented, diag.ExcNotRaised, diag.ReraiseUndocumented, diag.ExcDocumentedTwice,
		},
		Kinds: callables,
		check: checkRaises,
	},
	{
		Name:    "attributes",
		Section: docstring.SectionAttributes,
		Codes: []diag.Code{
			diag.AttrsSectionMissing, diag.AttrsSectionUnexpected, diag.AttrsSectionDuplicate,
			diag.AttrUndocumented, diag.AttrNotDefined, diag.AttrDocumentedTwice,
		},
		Kinds: []facts.Kind{facts.KindClass},
		check: checkAttributes,
	},
}

// Rule describes one row of the table.
type Rule struct {
	Code     diag.Code
	ID       string
	Name     string
	Family   string
	Template string
}

// Table lists every rule in evaluation order. The returned slice is a copy.
func Table() []Rule {
	var out []Rule
	for i := range families {
		f := &families[i]
		for _, c := range f.Codes {
			out = append(out, Rule{
				Code:     c,
				ID:       c.ID(),
				Name:     c.Title(),
				Family:   f.Name,
				Template: c.Template(),
			})
		}
	}
	return out
}
