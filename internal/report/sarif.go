package report

import (
	"cmp"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
)

const (
	sarifSchemaURI     = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion       = "2.1.0"
	parseErrorRule     = "cmdast/parse-error"
	diagnosticRulePath = "cmdast/diagnostic/"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string        `json:"id"`
	Name             string        `json:"name,omitempty"`
	ShortDescription sarifMessage  `json:"shortDescription"`
	Help             *sarifMessage `json:"help,omitempty"`
}

type sarifResult struct {
	RuleID     string                 `json:"ruleId"`
	Level      string                 `json:"level,omitempty"`
	Message    sarifMessage           `json:"message"`
	Locations  []sarifLocation        `json:"locations,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// diagnosticRules describes each diagnostic kind the scanner reports.
type ruleText struct {
	short string
	help  string
	level string
}

var diagnosticRules = map[string]ruleText{
	"empty-define": {
		short: "define() call without arguments",
		help:  "Remove the call or pass a factory.",
		level: "note",
	},
	"id-fallback": {
		short: "Module id is not a string literal",
		help:  "Use a string literal id so tools can read it without evaluating code.",
		level: "warning",
	},
	"dependencies-fallback": {
		short: "Dependency list is not an array literal",
		help:  "Declare dependencies as an array of string literals.",
		level: "warning",
	},
	"dropped-dependency": {
		short: "Dependency entry is not a string literal",
		help:  "Only string literal entries are kept in the dependency list.",
		level: "warning",
	},
	"skipped-require": {
		short: "require() target is not a single string literal",
		help:  "Dynamic requires cannot be inferred; declare the dependency explicitly.",
		level: "warning",
	},
}

var parseErrorText = ruleText{
	short: "File is not valid JavaScript",
	help:  "Fix the syntax error so module definitions can be scanned.",
	level: "error",
}

// sarifBuilder collects results and the rules they reference.
type sarifBuilder struct {
	rules   map[string]sarifRule
	results []sarifResult
}

func formatSARIF(rep Report) (string, error) {
	b := &sarifBuilder{rules: make(map[string]sarifRule)}
	for _, file := range rep.Files {
		if file.ParseError != nil {
			b.add(parseErrorRule, "parse-error", parseErrorText, file.Path, file.ParseError.Message, "", file.ParseError.Location)
		}
		for _, diag := range file.Diagnostics {
			text, known := diagnosticRules[diag.Kind]
			if !known {
				text = ruleText{short: "Scanner diagnostic", level: "note"}
			}
			b.add(diagnosticRulePath+diag.Kind, diag.Kind, text, file.Path, diag.Message, diag.Text, diag.Location)
		}
	}
	slices.SortStableFunc(b.results, compareResults)

	version := strings.TrimSpace(rep.SchemaVersion)
	if version == "" {
		version = SchemaVersion
	}
	rules := make([]sarifRule, 0, len(b.rules))
	for _, id := range slices.Sorted(maps.Keys(b.rules)) {
		rules = append(rules, b.rules[id])
	}

	return formatJSON(sarifLog{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "cmdast", Version: version, Rules: rules}},
			Results: b.results,
		}},
	})
}

func (b *sarifBuilder) add(ruleID, name string, text ruleText, file, message, source string, location Location) {
	if _, ok := b.rules[ruleID]; !ok {
		rule := sarifRule{ID: ruleID, Name: name, ShortDescription: sarifMessage{Text: text.short}}
		if text.help != "" {
			rule.Help = &sarifMessage{Text: text.help}
		}
		b.rules[ruleID] = rule
	}

	result := sarifResult{
		RuleID:  ruleID,
		Level:   text.level,
		Message: sarifMessage{Text: fmt.Sprintf("%s: %s", file, message)},
	}
	if source != "" {
		result.Properties = map[string]interface{}{"source": source}
	}
	if loc, ok := toSARIFLocation(location); ok {
		result.Locations = []sarifLocation{loc}
	}
	b.results = append(b.results, result)
}

// compareResults orders by file, line and column, then rule id. Results
// without a location come first.
func compareResults(a, b sarifResult) int {
	return cmp.Or(
		cmp.Compare(resultURI(a), resultURI(b)),
		cmp.Compare(resultRegion(a).StartLine, resultRegion(b).StartLine),
		cmp.Compare(resultRegion(a).StartColumn, resultRegion(b).StartColumn),
		cmp.Compare(a.RuleID, b.RuleID),
	)
}

func resultURI(result sarifResult) string {
	if len(result.Locations) == 0 {
		return ""
	}
	return result.Locations[0].PhysicalLocation.ArtifactLocation.URI
}

func resultRegion(result sarifResult) sarifRegion {
	if len(result.Locations) == 0 || result.Locations[0].PhysicalLocation.Region == nil {
		return sarifRegion{}
	}
	return *result.Locations[0].PhysicalLocation.Region
}

func toSARIFLocation(location Location) (sarifLocation, bool) {
	file := strings.TrimSpace(location.File)
	if file == "" {
		return sarifLocation{}, false
	}
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: path.Clean(strings.ReplaceAll(file, "\\", "/"))},
		},
	}
	if location.Line > 0 || location.Column > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: location.Line, StartColumn: location.Column}
	}
	return loc, true
}
