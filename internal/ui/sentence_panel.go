package ui

import (
	"fmt"
	"strings"
)

// RenderSentencePanel renders the most recent transmitted sentences, newest
// at the bottom.
func RenderSentencePanel(lines []string, total, width, height int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 3 {
		innerH = 3
	}

	title := StylePanelTitle.Render(fmt.Sprintf("TRANSMIT [%d]", total))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))

	space := innerH - 2
	if len(lines) > space {
		lines = lines[len(lines)-space:]
	}
	body := make([]string, 0, space)
	if len(lines) == 0 {
		body = append(body, StyleHelp.Render(" Nothing sent yet"), StyleHelp.Render(" Press Enter to start"))
	}
	for _, l := range lines {
		if len(l) > innerW {
			l = l[:innerW]
		}
		body = append(body, StyleSentence.Render(l))
	}
	for len(body) < space {
		body = append(body, "")
	}

	content := strings.Join(append([]string{title, separator}, body...), "\n")
	return StylePanelBorder.Width(width - 2).Height(innerH).Render(content)
}
