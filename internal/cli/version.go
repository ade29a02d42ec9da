package cli

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "kanban %s\n", version.Version)
			_, _ = fmt.Fprintf(w, "  commit:     %s\n", version.GitCommit)
			_, _ = fmt.Fprintf(w, "  built:      %s\n", version.BuildTime)
			_, _ = fmt.Fprintf(w, "  go version: %s\n", version.GoVersion())
		},
	}
}
