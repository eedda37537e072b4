package driver

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"vipyrdocs/internal/lint"
)

// Options управляют прогоном проверки.
type Options struct {
	Lint lint.Options

	// Jobs ограничивает число параллельно проверяемых файлов; <= 0 означает GOMAXPROCS.
	Jobs int
	// Exclude - glob-шаблоны (path.Match по slash-пути относительно корня обхода
	// или по имени файла/каталога).
	Exclude []string
	// MaxDiagnostics ограничивает общий Bag; <= 0 означает «без лимита».
	MaxDiagnostics int

	// Cache is optional; nil disables the disk cache.
	Cache *DiskCache
	// Progress is optional.
	Progress ProgressSink
	// Timings appends an ObsTimings diagnostic to the result bag.
	Timings bool
}

// fingerprint hashes every option that changes the findings of a file. Jobs,
// progress and cache location do not.
func (o *Options) fingerprint() Digest {
	disabled := make([]string, 0, len(o.Lint.Rules.Disabled))
	for c, off := range o.Lint.Rules.Disabled {
		if off {
			disabled = append(disabled, c.ID())
		}
	}
	sort.Strings(disabled)

	var b strings.Builder
	fmt.Fprintf(&b, "schema=%d\n", diskCacheSchemaVersion)
	fmt.Fprintf(&b, "disabled=%s\n", strings.Join(disabled, ","))
	fmt.Fprintf(&b, "base=%s\n", o.Lint.Rules.MoreInfoBase)
	fmt.Fprintf(&b, "skip=%t,%t,%t\n", o.Lint.SkipOverloads, o.Lint.SkipTests, o.Lint.SkipPrivate)
	return sha256.Sum256([]byte(b.String()))
}
