// Package facts derives behavioural facts from a single function, method or
// class definition: whether it returns or yields a value, what it raises,
// which parameters it takes, which public attributes it exposes and how its
// decorators classify it.
//
// Extraction is purely syntactic. No reachability analysis is performed, so a
// `return 1` after an unconditional raise still counts. Nested function,
// class and lambda bodies belong to their own definitions and never
// contribute to the enclosing one.
package facts
