package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
)

// Result represents a result box
type Result struct {
	Type    ResultType
	Title   string  // e.g., "Configuration valid"
	Details []Param // Shown in order
	Errors  []error // One line each (for failure results)
	Width   int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details []Param) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, errs ...error) *Result {
	return &Result{
		Type:   ResultFailure,
		Title:  title,
		Errors: errs,
		Width:  GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	color := SuccessColor
	title := SuccessTitleStyle.Render(fmt.Sprintf("   %s  SUCCESS  ─  %s", SuccessMarker, r.Title))
	if r.Type == ResultFailure {
		color = ErrorColor
		title = ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title))
	}

	lines := []string{"", title, ""}
	for _, d := range r.Details {
		lines = append(lines, ResultKeyStyle.Render(fmt.Sprintf("   %s:", d.Key))+" "+ResultValueStyle.Render(d.Value))
	}
	for _, err := range r.Errors {
		lines = append(lines, ErrorMessageStyle.Render("   • "+err.Error()))
	}
	lines = append(lines, "")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width - 2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// RenderPlain returns the result without styling.
func (r *Result) RenderPlain() string {
	var b strings.Builder
	if r.Type == ResultFailure {
		b.WriteString("FAILED: " + r.Title + "\n")
	} else {
		b.WriteString("OK: " + r.Title + "\n")
	}
	for _, d := range r.Details {
		b.WriteString("  " + d.Key + ": " + d.Value + "\n")
	}
	for _, err := range r.Errors {
		b.WriteString("  - " + err.Error() + "\n")
	}
	return b.String()
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// RenderSuccess renders a success box with the given title and details
func RenderSuccess(title string, details []Param) string {
	return NewSuccessResult(title, details).Render()
}

// RenderFailure renders a failure box listing errs
func RenderFailure(title string, errs ...error) string {
	return NewFailureResult(title, errs...).Render()
}
