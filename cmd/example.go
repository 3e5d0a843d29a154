package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DGarbs51/mockedup/internal/schema"
)

func newExampleCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print a sample sales star schema",
		Long:  `Prints a ready-to-edit schema with four dimensions and one sales fact.`,
		Example: `  mockedup example > sales.yaml
  mockedup generate --schema sales.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := schema.Example().Marshal()
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}
