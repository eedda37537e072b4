package pyfront

import (
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"vipyrdocs/internal/pyast"
	"vipyrdocs/internal/source"
)

// literal splits a Python string literal into prefix, quote and body. The body
// is returned as written, escapes untouched, so its lines map one to one onto
// the file.
func literal(raw string) (prefixLen, quoteLen int, body string) {
	for prefixLen < len(raw) && strings.IndexByte("rRbBuUfFtT", raw[prefixLen]) >= 0 {
		prefixLen++
	}
	rest := raw[prefixLen:]
	switch {
	case strings.HasPrefix(rest, `"""`), strings.HasPrefix(rest, `'''`):
		quoteLen = 3
	case strings.HasPrefix(rest, `"`), strings.HasPrefix(rest, `'`):
		quoteLen = 1
	default:
		return prefixLen, 0, rest
	}
	body = rest[quoteLen:]
	closing := rest[:quoteLen]
	body = strings.TrimSuffix(body, closing)
	return prefixLen, quoteLen, body
}

func (c *converter) str(n *sitter.Node) *pyast.Constant {
	b := base(n)
	p, q, body := literal(c.text(n))
	off, err := safecast.Conv[uint32](p + q)
	if err != nil {
		off = 0 // позиция значения совпадает с началом литерала
	}
	return &pyast.Constant{
		Base:    b,
		Kind:    pyast.ConstStr,
		Value:   body,
		ValueAt: source.LineCol{Line: b.At.Line, Col: b.At.Col + off},
	}
}

func (c *converter) concatenated(n *sitter.Node) *pyast.Constant {
	var parts []string
	var first *pyast.Constant
	for _, ch := range namedChildren(n) {
		if ch.Type() != "string" {
			continue
		}
		s := c.str(ch)
		if first == nil {
			first = s
		}
		parts = append(parts, s.Value)
	}
	out := &pyast.Constant{Base: base(n), Kind: pyast.ConstStr, Value: strings.Join(parts, "")}
	if first != nil {
		out.ValueAt = first.ValueAt
	}
	return out
}
