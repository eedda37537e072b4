package lint

import (
	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/rules"
)

func rulesOff(codes ...diag.Code) rules.Options {
	off := make(map[diag.Code]bool, len(codes))
	for _, c := range codes {
		off[c] = true
	}
	return rules.Options{Disabled: off}
}
