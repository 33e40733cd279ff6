// Package renderer formats a diff result for humans or machines. It only
// consumes the change set; truncation and coloring decisions live here,
// never in the engine.
package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/wonderfulspam/semdiff/pkg/diff"
	"github.com/wonderfulspam/semdiff/pkg/tree"
)

// Format selects the output representation.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatPlain    Format = "plain"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTerminal, FormatPlain, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: terminal, plain, json)", s)
	}
}

// Options controls value display. Independent of the diff configuration.
type Options struct {
	// ShowValues renders full values as one-line JSON instead of previews.
	ShowValues bool
	// MaxValueLength truncates previews. Zero means DefaultMaxValueLength.
	MaxValueLength int
}

// DefaultMaxValueLength is the preview truncation applied when
// Options.MaxValueLength is zero.
const DefaultMaxValueLength = 80

func (o Options) maxValueLength() int {
	if o.MaxValueLength > 0 {
		return o.MaxValueLength
	}
	return DefaultMaxValueLength
}

// Render formats a diff result.
func Render(result *diff.Result, format Format, opts Options) (string, error) {
	switch format {
	case FormatTerminal:
		return renderText(result, opts, true), nil
	case FormatPlain, "":
		return renderText(result, opts, false), nil
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling diff: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: terminal, plain, json)", format)
	}
}

var (
	addedColor     = color.New(color.FgGreen)
	removedColor   = color.New(color.FgRed)
	modifiedColor  = color.New(color.FgYellow)
	unchangedColor = color.New(color.Faint)
)

func renderText(result *diff.Result, opts Options, colored bool) string {
	if len(result.Changes) == 0 {
		if colored {
			return unchangedColor.Sprint("No changes detected.")
		}
		return "No changes detected."
	}

	var buf bytes.Buffer
	for _, c := range result.Changes {
		buf.WriteString(formatChange(c, opts, colored))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.WriteString(formatSummary(result.Stats))
	return buf.String()
}

func formatChange(c diff.Change, opts Options, colored bool) string {
	path := c.Path.String()

	var line string
	switch c.Type {
	case diff.ChangeTypeAdded:
		line = fmt.Sprintf("+ %s: %s", path, formatValue(c.NewValue, opts))
		if colored {
			line = addedColor.Sprint(line)
		}
	case diff.ChangeTypeRemoved:
		line = fmt.Sprintf("- %s: %s", path, formatValue(c.OldValue, opts))
		if colored {
			line = removedColor.Sprint(line)
		}
	case diff.ChangeTypeModified:
		line = fmt.Sprintf("• %s: %s → %s", path, formatValue(c.OldValue, opts), formatValue(c.NewValue, opts))
		if colored {
			line = modifiedColor.Sprint(line)
		}
	default:
		line = fmt.Sprintf("  %s: %s", path, formatValue(c.OldValue, opts))
		if colored {
			line = unchangedColor.Sprint(line)
		}
	}
	return line
}

func formatValue(v *tree.Value, opts Options) string {
	if v == nil {
		return ""
	}
	if opts.ShowValues {
		data, err := json.Marshal(v)
		if err != nil {
			return v.Preview(opts.maxValueLength())
		}
		return string(data)
	}
	return v.Preview(opts.maxValueLength())
}

func formatSummary(stats diff.Stats) string {
	if stats.IsEmpty() && stats.Unchanged == 0 {
		return "Summary: No changes"
	}

	parts := []string{}
	if stats.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", stats.Added))
	}
	if stats.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", stats.Removed))
	}
	if stats.Modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", stats.Modified))
	}
	if stats.Unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", stats.Unchanged))
	}
	if len(parts) == 0 {
		return "Summary: No changes"
	}
	return "Summary: " + strings.Join(parts, ", ")
}
