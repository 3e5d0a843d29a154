package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DGarbs51/mockedup/internal/producer"
	"github.com/DGarbs51/mockedup/internal/schema"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported column types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			reg := producer.NewRegistry(producer.NewSource(1), nil)
			for _, t := range reg.Types() {
				fmt.Fprintf(out, "  %s\n", t)
			}
			fmt.Fprintf(out, "  %s (requires a constant)\n", schema.Custom)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Type names are matched ignoring case, spaces, '-' and '_'.\n")
			fmt.Fprintf(out, "Any column with a constant repeats it on every row. Unknown types yield %q.\n", producer.Unavailable)
			return nil
		},
	}
}
