package diag

import (
	"fmt"
	"strings"
)

// DefaultMoreInfoBase is the URL prefix appended to every rule message.
const DefaultMoreInfoBase = "https://example.com/"

// Шаблоны сообщений. {N} - количество, {name} - имя аргумента/исключения/атрибута.
var ruleMessages = map[Code]string{
	DocstrMissing: "docstring should be defined for a function/ method/ class",

	ArgsSectionMissing:    "a function/ method with arguments should have the arguments section in the docstring",
	ArgsSectionUnexpected: "a function/ method without arguments should not have the arguments section in the docstring",
	ArgsSectionDuplicate:  "a docstring should only contain a single arguments section, found {N}",
	ArgUndocumented:       `"{name}" argument should be described in the docstring`,
	ArgNotInSignature:     `"{name}" argument should not be described in the docstring`,
	ArgDocumentedTwice:    `"{name}" argument documented multiple times`,

	ReturnsSectionMissing:    "function/ method that returns a value should have the returns section in the docstring",
	ReturnsSectionUnexpected: "function/ method that does not return a value should not have the returns section in the docstring",
	ReturnsSectionDuplicate:  "a docstring should only contain a single returns section, found {N}",

	YieldsSectionMissing:    "function/ method that yields a value should have the yields section in the docstring",
	YieldsSectionUnexpected: "function/ method that does not yield a value should not have the yields section in the docstring",
	YieldsSectionDuplicate:  "a docstring should only contain a single yields section, found {N}",

	RaisesSectionMissing:    "a function/ method that raises an exception should have the raises section in the docstring",
	RaisesSectionUnexpected: "a function/ method that does not raise an exception should not have the raises section in the docstring",
	RaisesSectionDuplicate:  "a docstring should only contain a single raises section, found {N}",
	ExcUndocumented:         `"{name}" exception should be described in the docstring`,
	ExcNotRaised:            `"{name}" exception should not be described in the docstring`,
	ReraiseUndocumented:     "a function/ method that re-raises exceptions should describe at least one exception in the raises section of the docstring",
	ExcDocumentedTwice:      `"{name}" exception documented multiple times`,

	AttrsSectionMissing:    "a class with public attributes should have the attributes section in the docstring",
	AttrsSectionUnexpected: "a class without public attributes should not have the attributes section in the docstring",
	AttrsSectionDuplicate:  "a docstring should only contain a single attributes section, found {N}",
	AttrUndocumented:       `"{name}" attribute should be described in the docstring`,
	AttrNotDefined:         `"{name}" attribute should not be described in the docstring`,
	AttrDocumentedTwice:    `"{name}" attribute documented multiple times`,
}

// Template returns the raw message template of a rule code, or "" for
// non-rule codes.
func (c Code) Template() string {
	return ruleMessages[c]
}

// MessageArgs fills the placeholders of a template.
type MessageArgs struct {
	Count int
	Name  string
}

// Render produces the final message: "<ID> <text> (more info: <base><id>)".
// An empty base falls back to DefaultMoreInfoBase.
func (c Code) Render(base string, args MessageArgs) string {
	tmpl, ok := ruleMessages[c]
	if !ok {
		tmpl = c.Title()
	}
	if base == "" {
		base = DefaultMoreInfoBase
	}
	text := strings.NewReplacer(
		"{N}", fmt.Sprint(args.Count),
		"{name}", args.Name,
	).Replace(tmpl)
	id := c.ID()
	return fmt.Sprintf("%s %s (more info: %s%s)", id, text, base, strings.ToLower(id))
}
