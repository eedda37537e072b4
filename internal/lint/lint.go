// Package lint runs the docstring rules over every definition of a module.
package lint

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/docstring"
	"vipyrdocs/internal/facts"
	"vipyrdocs/internal/pyast"
	"vipyrdocs/internal/rules"
	"vipyrdocs/internal/trace"
)

// Options select the rules and the exemptions. Every exemption is off in the
// zero value.
type Options struct {
	Rules rules.Options

	// SkipOverloads exempts @overload / @typing.overload stubs.
	SkipOverloads bool
	// SkipTests exempts test_* functions and pytest fixtures in test files
	// (test_*.py and conftest.py).
	SkipTests bool
	// SkipPrivate exempts definitions named _x (dunder names are still checked).
	SkipPrivate bool
}

// Linter is immutable once built and may be shared between goroutines.
type Linter struct {
	opts Options
	ev   *rules.Evaluator
}

func New(opts Options) *Linter {
	return &Linter{opts: opts, ev: rules.NewEvaluator(opts.Rules)}
}

// Module returns the findings of a module: definitions in source order, each
// definition's findings in rule-table order.
func (l *Linter) Module(ctx context.Context, mod *pyast.Module) []diag.Diagnostic {
	if mod == nil {
		return nil
	}
	tracer := trace.FromContext(ctx)
	parent := trace.ParentID(ctx)
	testFile := IsTestFile(mod.Path)

	var out []diag.Diagnostic
	for _, d := range pyast.Definitions(mod) {
		f := facts.Extract(d.Node, d.InClass)
		if reason := l.exemption(f, testFile); reason != "" {
			trace.Point(tracer, trace.ScopeDefinition, "skip:"+f.Name, reason, trace.F("line", f.At.Line))
			continue
		}
		span := trace.Begin(tracer, trace.ScopeDefinition, f.Kind.String()+":"+f.Name, parent, trace.F("line", f.At.Line))
		var parsed docstring.Parsed
		if f.Doc != nil {
			parsed = docstring.Parse(f.Doc.Raw)
		}
		found := l.ev.Evaluate(f, parsed)
		span.End(pluralDiags(len(found)))
		out = append(out, found...)
	}
	return out
}

// exemption names the reason a definition is skipped, "" when it is checked.
func (l *Linter) exemption(f *facts.Definition, testFile bool) string {
	if l.opts.SkipOverloads && f.IsOverload {
		return "overload"
	}
	if l.opts.SkipTests && testFile {
		if f.Kind != facts.KindClass && strings.HasPrefix(f.Name, "test_") {
			return "test function"
		}
		if f.IsFixture {
			return "fixture"
		}
	}
	if l.opts.SkipPrivate && isPrivateName(f.Name) {
		return "private"
	}
	return ""
}

// IsTestFile reports whether path names a pytest test module or conftest.py.
func IsTestFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, "test_") || base == "conftest.py"
}

func isPrivateName(name string) bool {
	if !strings.HasPrefix(name, "_") {
		return false
	}
	return !(strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4)
}

func pluralDiags(n int) string {
	if n == 1 {
		return "1 diagnostic"
	}
	return fmt.Sprintf("%d diagnostics", n)
}
