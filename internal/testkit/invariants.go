package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"vipyrdocs/internal/pyast"
	"vipyrdocs/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed module:
// 1) every statement span is non-empty and within content bounds
// 2) sibling statements do not overlap and appear in source order
// 3) nested bodies and owned expressions stay inside their statement span
func CheckSpanInvariants(mod *pyast.Module, content []byte) error {
	if mod == nil {
		return fmt.Errorf("nil module")
	}
	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	file := source.Span{Start: 0, End: lenContent}
	return checkBody(mod.Body, file)
}

func checkBody(body []pyast.Stmt, parent source.Span) error {
	var prevEnd uint32
	for i, st := range body {
		sp := st.Span()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty statement span: %v", sp)
		}
		if !within(sp, parent) {
			return fmt.Errorf("statement span %v is outside parent span %v", sp, parent)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("statement span %v overlaps previous statement ending at %d", sp, prevEnd)
		}
		prevEnd = sp.End

		if err := checkStmt(st, sp); err != nil {
			return err
		}
	}
	return nil
}

func checkStmt(st pyast.Stmt, sp source.Span) error {
	var exprs []pyast.Expr
	var bodies [][]pyast.Stmt
	switch s := st.(type) {
	case *pyast.FunctionDef:
		// декораторы лежат до def, их не проверяем
		bodies = [][]pyast.Stmt{s.Body}
	case *pyast.ClassDef:
		exprs = s.Bases
		bodies = [][]pyast.Stmt{s.Body}
	case *pyast.Compound:
		exprs = s.Exprs
		bodies = s.Bodies
	case *pyast.Return:
		exprs = nonNil(s.Value)
	case *pyast.Raise:
		exprs = nonNil(s.Exc, s.Cause)
	case *pyast.Assign:
		exprs = append(nonNil(s.Value), s.Targets...)
	case *pyast.ExprStmt:
		exprs = nonNil(s.Value)
	case *pyast.OtherStmt:
		exprs = s.Exprs
	}
	for _, e := range exprs {
		if es := e.Span(); !within(es, sp) {
			return fmt.Errorf("expression span %v is outside statement span %v", es, sp)
		}
	}
	for _, b := range bodies {
		if err := checkBody(b, sp); err != nil {
			return err
		}
	}
	return nil
}

func within(inner, outer source.Span) bool {
	return inner.Start >= outer.Start && inner.End <= outer.End
}

func nonNil(es ...pyast.Expr) []pyast.Expr {
	out := make([]pyast.Expr, 0, len(es))
	for _, e := range es {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
