package diag

// Severity defines the importance of a diagnostic. Rule findings are errors;
// the lower levels are for front-end and run-level trouble.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the lowercase label used by every output format.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
