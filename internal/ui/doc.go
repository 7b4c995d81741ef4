// Package ui renders terminal output for the staticssdp CLI.
//
// Output is styled with Lipgloss when stdout is a terminal and written as
// plain text otherwise, so `staticssdp check > out.txt` produces something
// diffable.
//
// The package provides three components:
//
//   - Header: command banner with the operation name and its parameters
//   - Preview: one rendered search response per configured service
//   - Result: success/failure box closing the command
//
// Example:
//
//	fmt.Println(ui.NewHeader("Configuration check", "staticssdp check", params).Render())
//	for _, p := range previews {
//	    fmt.Println(p.Render(width, plain))
//	}
//	fmt.Println(ui.RenderSuccess("Configuration valid", details))
package ui
