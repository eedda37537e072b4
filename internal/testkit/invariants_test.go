package testkit

import (
	"strings"
	"testing"

	"vipyrdocs/internal/pyast"
	"vipyrdocs/internal/source"
)

func stmtAt(start, end uint32) pyast.Stmt {
	return &pyast.OtherStmt{Base: pyast.Base{Sp: source.Span{Start: start, End: end}}, Kind: "pass"}
}

func TestCheckSpanInvariants(t *testing.T) {
	content := []byte(strings.Repeat("x", 40))

	tests := []struct {
		name    string
		mod     *pyast.Module
		wantErr string
	}{
		{
			name: "ok",
			mod: &pyast.Module{Body: []pyast.Stmt{
				&pyast.FunctionDef{
					Base: pyast.Base{Sp: source.Span{Start: 0, End: 20}},
					Body: []pyast.Stmt{stmtAt(10, 14), stmtAt(15, 20)},
				},
				stmtAt(21, 25),
			}},
		},
		{
			name:    "nil module",
			wantErr: "nil module",
		},
		{
			name:    "empty span",
			mod:     &pyast.Module{Body: []pyast.Stmt{stmtAt(3, 3)}},
			wantErr: "empty statement span",
		},
		{
			name:    "beyond content",
			mod:     &pyast.Module{Body: []pyast.Stmt{stmtAt(30, 41)}},
			wantErr: "outside parent span",
		},
		{
			name:    "overlap",
			mod:     &pyast.Module{Body: []pyast.Stmt{stmtAt(0, 10), stmtAt(5, 12)}},
			wantErr: "overlaps previous statement",
		},
		{
			name: "body escapes def",
			mod: &pyast.Module{Body: []pyast.Stmt{
				&pyast.FunctionDef{
					Base: pyast.Base{Sp: source.Span{Start: 0, End: 10}},
					Body: []pyast.Stmt{stmtAt(5, 12)},
				},
			}},
			wantErr: "outside parent span",
		},
		{
			name: "expression escapes statement",
			mod: &pyast.Module{Body: []pyast.Stmt{
				&pyast.Return{
					Base:  pyast.Base{Sp: source.Span{Start: 0, End: 8}},
					Value: &pyast.Name{Base: pyast.Base{Sp: source.Span{Start: 7, End: 9}}, ID: "x"},
				},
			}},
			wantErr: "expression span",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSpanInvariants(tt.mod, content)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
