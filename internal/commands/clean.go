// internal/commands/clean.go
package autograde

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/mwiater/autograde/internal/grading"
	"github.com/spf13/cobra"
)

// cleanCmd implements 'clean', which removes compiled artifacts left in the
// submissions directory.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove compiled artifacts from the submissions directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd.OutOrStdout(), GetConfig().Directory())
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(out io.Writer, dir string) error {
	swept, err := grading.Cleanup(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Removed %d artifact(s) from %s\n", len(swept.Removed), dir)
	if len(swept.Failed) == 0 {
		return nil
	}

	paths := make([]string, 0, len(swept.Failed))
	for path := range swept.Failed {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	warn := color.New(color.FgYellow)
	for _, path := range paths {
		warn.Fprintf(out, "  could not remove %s: %v\n", path, swept.Failed[path])
	}
	return nil
}
