package diagfmt

import (
	"io"
	"strings"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/source"
)

// Short печатает одну строку на диагностику: "<path>:<line>:<col>: <message>".
// Rule messages already carry their code; other codes get it prepended.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	out := &stickyWriter{w: w}
	items := bag.Items()
	for i := range items {
		d := &items[i]
		msg := d.Message
		if !strings.HasPrefix(msg, d.Code.ID()+" ") {
			msg = d.Code.ID() + " " + msg
		}
		if path, loc, ok := location(d, fs, mode); ok {
			out.printf("%s:%d:%d: %s\n", path, loc.Line, loc.Col, msg)
			continue
		}
		out.printf("%s\n", msg)
	}
	return out.err
}
