package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Preview is the rendered search response of one configured service.
type Preview struct {
	Descriptor   string
	Index        int
	SearchTarget string
	Payload      []byte
	Err          error
}

// Title returns "descriptor #index".
func (p Preview) Title() string {
	return fmt.Sprintf("%s #%d", p.Descriptor, p.Index)
}

// Render returns the preview, boxed and styled unless plain is set. CRLF
// line endings are shown as plain newlines.
func (p Preview) Render(width int, plain bool) string {
	body := strings.TrimRight(strings.ReplaceAll(string(p.Payload), "\r\n", "\n"), "\n")
	if p.Err != nil {
		body = "error: " + p.Err.Error()
	}

	if plain {
		return fmt.Sprintf("== %s  %s ==\n%s\n", p.Title(), p.SearchTarget, body)
	}

	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	heading := PreviewTitleStyle.Render(p.Title()) + "  " + PreviewTargetStyle.Render(p.SearchTarget)
	styledBody := PreviewPayloadStyle.Render(body)
	if p.Err != nil {
		styledBody = ErrorMessageStyle.Render(body)
	}
	return PreviewBoxStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, heading, "", styledBody))
}
