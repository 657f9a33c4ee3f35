package report

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ben-ranford/cmdast/internal/cssblock"
	"github.com/ben-ranford/cmdast/internal/iduri"
	"github.com/xeipuuv/gojsonschema"
)

func sampleReport() Report {
	files := []FileReport{
		{
			Path: "lib/app.js",
			Modules: []Module{
				{ID: "app", Dependencies: []string{"jquery", "./util"}, Location: Location{File: "lib/app.js", Line: 1, Column: 1}, Arity: 3},
				{Dependencies: []string{"moment"}, Location: Location{File: "lib/app.js", Line: 9, Column: 1}, Arity: 1, Inferred: true},
				{Dependencies: []string{}, Location: Location{File: "lib/app.js", Line: 12, Column: 1}, Arity: 2, Fallbacks: []string{"id-fallback", "dependencies-fallback"}},
			},
			Diagnostics: []Diagnostic{
				{Kind: "id-fallback", Message: "expected id string or dependency array, found identifier", Text: "name", Location: Location{File: "lib/app.js", Line: 12, Column: 8}},
				{Kind: "skipped-require", Message: "require target is not a single string literal", Text: "require(x)", Location: Location{File: "lib/app.js", Line: 10, Column: 3}},
			},
		},
		{
			Path:       "lib/broken.js",
			Modules:    []Module{},
			ParseError: &ParseError{Message: "syntax error at 2:5 near \"(\"", Location: Location{File: "lib/broken.js", Line: 2, Column: 5}},
		},
	}
	return Report{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		RepoPath:      "/repo",
		Files:         files,
		Summary:       ComputeSummary(files),
		Warnings:      []string{"parse errors in 1 file(s): lib/broken.js"},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatTable, "TABLE": FormatTable, " json ": FormatJSON, "sarif": FormatSARIF}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q): expected %q, got %q (%v)", in, want, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestComputeSummary(t *testing.T) {
	summary := sampleReport().Summary
	want := Summary{FileCount: 2, ModuleCount: 3, InferredCount: 1, FallbackCount: 1, DiagnosticCount: 2, ParseErrorCount: 1}
	if *summary != want {
		t.Fatalf("expected %+v, got %+v", want, *summary)
	}
}

func TestFormatTable(t *testing.T) {
	output, err := NewFormatter().Format(sampleReport(), FormatTable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Summary: 2 files, 3 modules (1 inferred, 1 with fallbacks), 2 diagnostics, 1 parse errors",
		"File",
		"jquery, ./util",
		"inferred",
		"id-fallback, dependencies-fallback",
		"Diagnostics:",
		"lib/broken.js:2:5: parse error",
		"lib/app.js:10:3: skipped-require",
		"Warnings:",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected table output to include %q, got:\n%s", want, output)
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	output, err := NewFormatter().Format(Report{}, FormatTable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "No module definitions found.\n" {
		t.Fatalf("unexpected empty output %q", output)
	}
}

func TestFormatUnknown(t *testing.T) {
	if _, err := NewFormatter().Format(Report{}, Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFormatJSONValidatesAgainstSchema(t *testing.T) {
	formatted, err := NewFormatter().Format(sampleReport(), FormatJSON)
	if err != nil {
		t.Fatalf("format json: %v", err)
	}
	if !strings.Contains(formatted, `"repoPath": "/repo"`) {
		t.Fatalf("expected json output to include repoPath")
	}

	schemaPath, err := filepath.Abs(filepath.Join("..", "..", "testdata", "report", "scan.schema.json"))
	if err != nil {
		t.Fatalf("resolve schema path: %v", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewReferenceLoader("file://"+schemaPath),
		gojsonschema.NewStringLoader(formatted),
	)
	if err != nil {
		t.Fatalf("validate report schema: %v", err)
	}
	if result.Valid() {
		return
	}
	messages := make([]string, 0, len(result.Errors()))
	for _, item := range result.Errors() {
		messages = append(messages, item.String())
	}
	t.Fatalf("json output failed schema validation: %s", strings.Join(messages, "; "))
}

func TestFormatSARIF(t *testing.T) {
	formatted, err := NewFormatter().Format(sampleReport(), FormatSARIF)
	if err != nil {
		t.Fatalf("format sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal([]byte(formatted), &log); err != nil {
		t.Fatalf("decode sarif: %v", err)
	}
	if log.Version != sarifVersion || len(log.Runs) != 1 {
		t.Fatalf("unexpected sarif envelope %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "cmdast" || len(run.Tool.Driver.Rules) != 3 {
		t.Fatalf("unexpected driver %+v", run.Tool.Driver)
	}
	gotRules := make([]string, 0, len(run.Results))
	for _, result := range run.Results {
		gotRules = append(gotRules, result.RuleID)
	}
	want := []string{"cmdast/diagnostic/skipped-require", "cmdast/diagnostic/id-fallback", parseErrorRule}
	if strings.Join(gotRules, ",") != strings.Join(want, ",") {
		t.Fatalf("expected results %v, got %v", want, gotRules)
	}
	if run.Results[2].Level != "error" || run.Results[0].Level != "warning" {
		t.Fatalf("unexpected levels %+v", run.Results)
	}
}

func TestFormatBlocks(t *testing.T) {
	root := cssblock.Node{Type: cssblock.TypeBlock, ID: "app", Children: []cssblock.Node{
		{Type: cssblock.TypeString, Code: "a {}\nb {}"},
		{Type: cssblock.TypeBlock, ID: "header", Children: []cssblock.Node{{Type: cssblock.TypeImport, ID: "reset"}}},
	}}
	output, err := NewFormatter().FormatBlocks(root, FormatTable)
	if err != nil {
		t.Fatalf("format blocks: %v", err)
	}
	want := "block app\n  string (2 lines)\n  block header\n    import reset\n"
	if output != want {
		t.Fatalf("expected %q, got %q", want, output)
	}
	if _, err := NewFormatter().FormatBlocks(root, FormatSARIF); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFormatMeta(t *testing.T) {
	meta := iduri.Meta{Type: iduri.TypeSpm, Family: "arale", Name: "base", Version: "1.0.0"}
	output, err := NewFormatter().FormatMeta(meta, FormatJSON)
	if err != nil {
		t.Fatalf("format meta: %v", err)
	}
	if !strings.Contains(output, `"family": "arale"`) {
		t.Fatalf("unexpected json %q", output)
	}
	table, err := NewFormatter().FormatMeta(iduri.Meta{Type: iduri.TypeSpm, Family: "jquery", Name: "jquery"}, FormatTable)
	if err != nil {
		t.Fatalf("format meta: %v", err)
	}
	if !strings.Contains(table, "version  -") {
		t.Fatalf("expected placeholder for missing version, got %q", table)
	}
}
