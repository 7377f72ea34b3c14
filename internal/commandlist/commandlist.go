// Package commandlist renders the CLI command tree.
package commandlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// CommandInfo holds the path and description of a command for display.
type CommandInfo struct {
	Path        string
	Description string
}

// ListCommands prints the command tree in a two-column layout.
func ListCommands(out io.Writer, commands []CommandInfo) {
	width := 0
	for _, data := range commands {
		width = max(width, lipgloss.Width(data.Path))
	}
	column := lipgloss.NewStyle().Width(width + 2)

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, data := range commands {
		fmt.Fprintf(out, "  %s%s\n", column.Render(data.Path), data.Description)
	}
}
