package source

import "fmt"

// Span is a half-open byte range inside one file of a FileSet.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// WithFile rebinds the span. Front ends produce spans before the file has
// an ID in a FileSet.
func (s Span) WithFile(id FileID) Span {
	s.File = id
	return s
}
