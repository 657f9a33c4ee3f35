package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
)

type Formatter struct{}

func NewFormatter() Formatter {
	return Formatter{}
}

func (f Formatter) Format(report Report, format Format) (string, error) {
	switch format {
	case FormatTable:
		return formatTable(report), nil
	case FormatJSON:
		return formatJSON(report)
	case FormatSARIF:
		return formatSARIF(report)
	default:
		return "", ErrUnknownFormat
	}
}

func formatJSON(value any) (string, error) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(payload) + "\n", nil
}

func formatTable(report Report) string {
	if moduleCount(report) == 0 && !hasProblems(report) {
		return formatEmpty(report)
	}

	var buffer bytes.Buffer
	appendSummary(&buffer, report.Summary)

	writer := tabwriter.NewWriter(&buffer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(writer, strings.Join([]string{"File", "Line", "ID", "Dependencies", "Arity", "Notes"}, "\t"))
	for _, file := range report.Files {
		for _, module := range file.Modules {
			_, _ = fmt.Fprintln(writer, formatModuleRow(file.Path, module))
		}
	}
	_ = writer.Flush()

	appendProblems(&buffer, report)
	appendWarnings(&buffer, report)
	return buffer.String()
}

func moduleCount(report Report) int {
	count := 0
	for _, file := range report.Files {
		count += len(file.Modules)
	}
	return count
}

func hasProblems(report Report) bool {
	for _, file := range report.Files {
		if file.ParseError != nil || len(file.Diagnostics) > 0 {
			return true
		}
	}
	return false
}

func appendSummary(buffer *bytes.Buffer, summary *Summary) {
	if summary == nil {
		return
	}
	_, _ = fmt.Fprintf(
		buffer,
		"Summary: %d files, %d modules (%d inferred, %d with fallbacks), %d diagnostics, %d parse errors\n\n",
		summary.FileCount,
		summary.ModuleCount,
		summary.InferredCount,
		summary.FallbackCount,
		summary.DiagnosticCount,
		summary.ParseErrorCount,
	)
}

func formatModuleRow(path string, module Module) string {
	id := module.ID
	if id == "" {
		id = "-"
	}
	deps := "-"
	if len(module.Dependencies) > 0 {
		deps = strings.Join(module.Dependencies, ", ")
	}
	notes := make([]string, 0, len(module.Fallbacks)+1)
	if module.Inferred {
		notes = append(notes, "inferred")
	}
	notes = append(notes, module.Fallbacks...)
	noteText := "-"
	if len(notes) > 0 {
		noteText = strings.Join(notes, ", ")
	}
	return strings.Join([]string{
		path,
		fmt.Sprintf("%d", module.Location.Line),
		id,
		deps,
		fmt.Sprintf("%d", module.Arity),
		noteText,
	}, "\t")
}

func appendProblems(buffer *bytes.Buffer, report Report) {
	lines := make([]string, 0)
	for _, file := range report.Files {
		if file.ParseError != nil {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: parse error: %s", file.Path, file.ParseError.Location.Line, file.ParseError.Location.Column, file.ParseError.Message))
		}
		for _, diag := range file.Diagnostics {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s: %s", file.Path, diag.Location.Line, diag.Location.Column, diag.Kind, diag.Message))
		}
	}
	if len(lines) == 0 {
		return
	}
	buffer.WriteString("\nDiagnostics:\n")
	for _, line := range lines {
		buffer.WriteString("- ")
		buffer.WriteString(line)
		buffer.WriteString("\n")
	}
}

func formatEmpty(report Report) string {
	var buffer bytes.Buffer
	buffer.WriteString("No module definitions found.\n")
	appendWarnings(&buffer, report)
	return buffer.String()
}

func appendWarnings(buffer *bytes.Buffer, report Report) {
	if len(report.Warnings) == 0 {
		return
	}
	buffer.WriteString("\nWarnings:\n")
	for _, warning := range report.Warnings {
		buffer.WriteString("- ")
		buffer.WriteString(warning)
		buffer.WriteString("\n")
	}
}
