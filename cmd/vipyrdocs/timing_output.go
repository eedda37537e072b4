package main

import (
	"io"

	"vipyrdocs/internal/driver"
)

// printTimings prints one line per driver phase and the total.
func printTimings(out io.Writer, res *driver.Result) {
	if out == nil || res == nil {
		return
	}
	_ = res.Timing.Write(out)
}
