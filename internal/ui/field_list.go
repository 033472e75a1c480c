package ui

import (
	"fmt"
	"strings"
)

// FieldRow is one line of the configuration form.
type FieldRow struct {
	Label     string
	Value     string // already rendered (text input view or selection)
	Selection bool
	Rejected  bool // value was replaced on the last commit
}

const labelWidth = 36

// RenderFieldList renders the scrollable form panel. The row under the
// cursor is always visible.
func RenderFieldList(rows []FieldRow, width, height, cursor int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render(fmt.Sprintf("CONFIGURATION [%d]", len(rows)))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}

	innerH := height - 2
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	rowSpace := innerH - len(headerLines)

	viewStart := 0
	if cursor >= rowSpace {
		viewStart = cursor - rowSpace + 1
	}

	var lines []string
	for i := viewStart; i < len(rows) && len(lines) < rowSpace; i++ {
		lines = append(lines, renderFieldRow(rows[i], innerW, i == cursor))
	}
	for len(lines) < rowSpace {
		lines = append(lines, "")
	}

	all := append(headerLines, lines...)
	content := strings.Join(all, "\n")
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(content)

	// lipgloss Height() only sets a minimum; clamp to exactly height lines.
	outLines := strings.Split(rendered, "\n")
	if len(outLines) > height {
		outLines = outLines[:height]
	}
	for len(outLines) < height {
		outLines = append(outLines, "")
	}
	return strings.Join(outLines, "\n")
}

func renderFieldRow(r FieldRow, maxW int, isCursor bool) string {
	pointer := "  "
	if isCursor {
		pointer = "> "
	}
	label := truncRaw(r.Label, labelWidth)
	value := r.Value
	if r.Selection {
		value = "< " + value + " >"
	}

	if isCursor {
		return StyleCursorRow.Render(truncRaw(pointer+label, labelWidth+2)) + " " + value
	}

	valueSty := StyleFieldValue
	if r.Rejected {
		valueSty = StyleFieldRejected
	}
	line := pointer + StyleFieldLabel.Render(label) + " " + valueSty.Render(value)
	if r.Rejected && r.Value == "" {
		line += StyleHelp.Render(" (cleared)")
	}
	return line
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	if len(s) < w {
		return s + strings.Repeat(" ", w-len(s))
	}
	return s
}
