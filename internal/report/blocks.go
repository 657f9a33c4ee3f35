package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ben-ranford/cmdast/internal/cssblock"
	"github.com/ben-ranford/cmdast/internal/iduri"
)

// FormatBlocks renders a parsed stylesheet as an indented outline or as JSON.
func (f Formatter) FormatBlocks(root cssblock.Node, format Format) (string, error) {
	switch format {
	case FormatTable:
		var buffer bytes.Buffer
		writeBlock(&buffer, root, 0)
		return buffer.String(), nil
	case FormatJSON:
		return formatJSON(root)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func writeBlock(buffer *bytes.Buffer, node cssblock.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node.Type {
	case cssblock.TypeBlock:
		id := node.ID
		if id == "" {
			id = "(anonymous)"
		}
		fmt.Fprintf(buffer, "%sblock %s\n", indent, id)
		for _, child := range node.Children {
			writeBlock(buffer, child, depth+1)
		}
	case cssblock.TypeImport:
		fmt.Fprintf(buffer, "%simport %s\n", indent, node.ID)
	default:
		lines := strings.Count(node.Code, "\n") + 1
		fmt.Fprintf(buffer, "%sstring (%d lines)\n", indent, lines)
	}
}

// FormatMeta renders resolved id metadata.
func (f Formatter) FormatMeta(meta iduri.Meta, format Format) (string, error) {
	switch format {
	case FormatTable:
		var buffer bytes.Buffer
		writer := tabwriter.NewWriter(&buffer, 0, 0, 2, ' ', 0)
		rows := [][2]string{
			{"type", string(meta.Type)},
			{"family", meta.Family},
			{"name", meta.Name},
			{"version", meta.Version},
		}
		for _, row := range rows {
			value := row[1]
			if value == "" {
				value = "-"
			}
			_, _ = fmt.Fprintf(writer, "%s\t%s\n", row[0], value)
		}
		_ = writer.Flush()
		return buffer.String(), nil
	case FormatJSON:
		return formatJSON(meta)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
