package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/DGarbs51/mockedup/internal/schema"
)

func newValidateCmd(a *app) *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a schema without generating data",
		Long: `Reports every structural problem in a schema and exits non-zero if there is
any. Columns with unrecognized types are allowed (they are filled with N/A) but
are listed as warnings, as are facts with more rows than a linked dimension.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := schema.Load(schemaPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := sc.Validate(a.cfg.SchemaLimits()); err != nil {
				var verr *schema.ValidationError
				if errors.As(err, &verr) {
					printIssues(out, verr)
					return fmt.Errorf("%s: %d schema issue(s)", schemaPath, len(verr.Issues))
				}
				return err
			}
			printWarnings(out, sc)
			fmt.Fprintf(out, "%s: OK (%d dimensions, %d facts)\n", schemaPath, len(sc.Dimensions), len(sc.Facts))
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "Schema file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

// printWarnings lists what generate would report as notices for a valid
// schema.
func printWarnings(w io.Writer, sc *schema.Schema) {
	warn := func(format string, args ...any) {
		fmt.Fprintf(w, "warning: "+format+"\n", args...)
	}
	check := func(table string, cols []schema.ColumnDef) {
		for _, c := range cols {
			if !c.HasConstant() && !c.Type.Known() {
				warn("%s.%s: unknown type %q, values will be N/A", table, c.Name, c.Type)
			}
		}
	}
	for _, d := range sc.Dimensions {
		check(d.Name, d.Columns)
	}
	for _, f := range sc.Facts {
		check(f.Name, f.Columns)
		for _, name := range f.Dimensions {
			if dim, ok := sc.Dimension(name); ok && f.Rows > dim.Rows {
				warn("%s: %d rows reference %d rows of %s; keys will repeat", f.Name, f.Rows, dim.Rows, name)
			}
		}
	}
}
