package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

const SchemaVersion = "0.1.0"

var ErrUnknownFormat = errors.New("unknown format")

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatSARIF):
		return FormatSARIF, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, value)
	}
}

// Report is the result of scanning a set of files for module definitions.
type Report struct {
	SchemaVersion string       `json:"schemaVersion"`
	GeneratedAt   time.Time    `json:"generatedAt"`
	RepoPath      string       `json:"repoPath"`
	Files         []FileReport `json:"files"`
	Summary       *Summary     `json:"summary,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
}

type FileReport struct {
	Path        string       `json:"path"`
	Modules     []Module     `json:"modules"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	ParseError  *ParseError  `json:"parseError,omitempty"`
}

type Module struct {
	ID           string   `json:"id,omitempty"`
	Dependencies []string `json:"dependencies"`
	Location     Location `json:"location"`
	Arity        int      `json:"arity"`
	Inferred     bool     `json:"inferred,omitempty"`
	Fallbacks    []string `json:"fallbacks,omitempty"`
}

type Diagnostic struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Text     string   `json:"text,omitempty"`
	Location Location `json:"location"`
}

type ParseError struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type Summary struct {
	FileCount       int `json:"fileCount"`
	ModuleCount     int `json:"moduleCount"`
	InferredCount   int `json:"inferredCount"`
	FallbackCount   int `json:"fallbackCount"`
	DiagnosticCount int `json:"diagnosticCount"`
	ParseErrorCount int `json:"parseErrorCount"`
}

// ComputeSummary counts the file reports of a scan.
func ComputeSummary(files []FileReport) *Summary {
	summary := &Summary{FileCount: len(files)}
	for _, file := range files {
		summary.ModuleCount += len(file.Modules)
		summary.DiagnosticCount += len(file.Diagnostics)
		if file.ParseError != nil {
			summary.ParseErrorCount++
		}
		for _, module := range file.Modules {
			if module.Inferred {
				summary.InferredCount++
			}
			if len(module.Fallbacks) > 0 {
				summary.FallbackCount++
			}
		}
	}
	return summary
}
