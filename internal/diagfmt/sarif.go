package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRule struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	ShortDescription     sarifText    `json:"shortDescription"`
	HelpURI              string       `json:"helpUri,omitempty"`
	DefaultConfiguration sarifRuleCfg `json:"defaultConfiguration"`
}

type sarifRuleCfg struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// sarifCatalogue starts with every rule code in table order; other codes are
// appended the first time a result uses them.
type sarifCatalogue struct {
	base  string
	rules []sarifRule
	index map[diag.Code]int
}

func newSarifCatalogue(base string) *sarifCatalogue {
	if base == "" {
		base = diag.DefaultMoreInfoBase
	}
	c := &sarifCatalogue{base: base, index: make(map[diag.Code]int)}
	for _, code := range diag.RuleCodes() {
		c.add(code, diag.SevError)
	}
	return c
}

func (c *sarifCatalogue) add(code diag.Code, sev diag.Severity) int {
	if i, ok := c.index[code]; ok {
		return i
	}
	r := sarifRule{
		ID:                   code.ID(),
		Name:                 code.Title(),
		ShortDescription:     sarifText{Text: code.Title()},
		DefaultConfiguration: sarifRuleCfg{Level: sarifLevel(sev)},
	}
	if tmpl := code.Template(); tmpl != "" {
		r.ShortDescription.Text = tmpl
		r.HelpURI = c.base + strings.ToLower(code.ID())
	}
	c.rules = append(c.rules, r)
	c.index[code] = len(c.rules) - 1
	return c.index[code]
}

// buildSarif формирует SARIF-лог без сериализации.
func buildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) sarifLog {
	cat := newSarifCatalogue(meta.MoreInfoBase)
	items := bag.Items()
	results := make([]sarifResult, 0, len(items))
	for i := range items {
		d := &items[i]
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: cat.add(d.Code, d.Severity),
			Level:     sarifLevel(d.Severity),
			Message:   sarifText{Text: d.Message},
		}
		if path, loc, ok := location(d, fs, PathModeRelative); ok {
			res.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysical{
					ArtifactLocation: sarifArtifact{URI: filepath.ToSlash(path)},
					Region:           sarifRegion{StartLine: loc.Line, StartColumn: loc.Col},
				},
			}}
		}
		results = append(results, res)
	}

	name := meta.ToolName
	if name == "" {
		name = "vipyrdocs"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           name,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          cat.rules,
		}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: true,
		}}
	}
	return sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildSarif(bag, fs, meta))
}
