package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/DGarbs51/mockedup/internal/config"
	"github.com/DGarbs51/mockedup/internal/schema"
	"github.com/DGarbs51/mockedup/internal/sink"
	"github.com/DGarbs51/mockedup/internal/synth"
)

type generateOptions struct {
	schemaPath     string
	seed           uint64
	formats        []string
	out            string
	nonInteractive bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate mock data for a star schema",
		Long: `Synthesizes every dimension, then every fact, and writes the tables in that
order to each requested format. File outputs use --out as the base name:
<out>.xlsx, <out>.json and <out>/ (one CSV per table).

Pass the printed seed back with --seed to reproduce a dataset exactly.`,
		Example: `  mockedup generate --schema sales.yaml
  mockedup generate --schema sales.yaml --seed 42 --format xlsx --format csv
  PGPASSWORD=secret mockedup generate --schema sales.yaml --format postgres`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd, opts)
		},
	}
	addGenerateFlags(cmd.Flags(), opts)
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func addGenerateFlags(fs *pflag.FlagSet, opts *generateOptions) {
	fs.StringVarP(&opts.schemaPath, "schema", "s", "", "Schema file (YAML or JSON)")
	fs.Uint64Var(&opts.seed, "seed", 0, "Random seed; 0 picks a new one (overrides config)")
	fs.StringSliceVarP(&opts.formats, "format", "f", nil,
		"Output format, repeatable: "+strings.Join(config.Formats, ", ")+" (overrides config)")
	fs.StringVarP(&opts.out, "out", "o", "", "Output base path for file formats (overrides config)")
	fs.BoolVar(&opts.nonInteractive, "non-interactive", false, "Never prompt for a database password")
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		a.cfg.Seed = opts.seed
	}
	if flags.Changed("format") {
		a.cfg.Output.Formats = opts.formats
	}
	if flags.Changed("out") {
		a.cfg.Output.Path = opts.out
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	sc, err := schema.Load(opts.schemaPath)
	if err != nil {
		return err
	}

	start := time.Now()
	ds, err := synth.New(a.log, synth.Config{
		Seed:   a.cfg.Seed,
		Limits: a.cfg.SchemaLimits(),
	}).Synthesize(cmd.Context(), sc)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			printIssues(cmd.ErrOrStderr(), verr)
			return fmt.Errorf("%s: %d schema issue(s)", opts.schemaPath, len(verr.Issues))
		}
		return err
	}

	sinks, targets, closeAll, err := a.buildSinks(cmd, opts)
	if err != nil {
		return err
	}
	writeErr := sinks.Write(cmd.Context(), ds)
	if err := closeAll(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		return writeErr
	}

	printSummary(cmd.OutOrStdout(), ds, targets, time.Since(start))
	return nil
}

// buildSinks creates one sink per configured format. The returned close
// function releases files opened for stream sinks.
func (a *app) buildSinks(cmd *cobra.Command, opts *generateOptions) (sink.Multi, []string, func() error, error) {
	var (
		sinks   sink.Multi
		targets []string
		files   []*os.File
	)
	closeAll := func() error {
		var errs []error
		for _, f := range files {
			errs = append(errs, f.Close())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (sink.Multi, []string, func() error, error) {
		_ = closeAll()
		return nil, nil, nil, err
	}

	out := a.cfg.Output.Path
	for _, format := range a.cfg.Output.Formats {
		switch format {
		case config.FormatXLSX:
			path := sink.WithExtension(out, ".xlsx")
			if err := ensureParent(path); err != nil {
				return fail(err)
			}
			sinks = append(sinks, sink.NewXLSX(path, a.log))
			targets = append(targets, path)
		case config.FormatCSV:
			sinks = append(sinks, sink.NewCSV(out, a.log))
			targets = append(targets, out+string(filepath.Separator))
		case config.FormatJSON:
			path := sink.WithExtension(out, ".json")
			if err := ensureParent(path); err != nil {
				return fail(err)
			}
			f, err := os.Create(path)
			if err != nil {
				return fail(fmt.Errorf("create %s: %w", path, err))
			}
			files = append(files, f)
			sinks = append(sinks, sink.NewJSON(f))
			targets = append(targets, path)
		case config.FormatPostgres:
			pg := a.cfg.PostgresSink()
			if pg.Password == "" && !opts.nonInteractive && isTerminal(os.Stdin) {
				pg.Password = promptPassword(cmd.ErrOrStderr(), fmt.Sprintf("Password for %s@%s: ", pg.User, pg.Host))
			}
			sinks = append(sinks, sink.NewPostgres(pg, a.log))
			targets = append(targets, fmt.Sprintf("postgres://%s:%d/%s", pg.Host, pg.Port, pg.Database))
		case config.FormatClickHouse:
			ch := a.cfg.ClickHouseSink()
			sinks = append(sinks, sink.NewClickHouse(ch, a.log))
			targets = append(targets, fmt.Sprintf("clickhouse://%s/%s", ch.Addr, ch.Database))
		}
	}

	a.log.Debug("Configured outputs", zap.Strings("formats", a.cfg.Output.Formats), zap.Strings("targets", targets))
	return sinks, targets, closeAll, nil
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func promptPassword(w io.Writer, prompt string) string {
	fmt.Fprint(w, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}
	return string(pass)
}

func printIssues(w io.Writer, verr *schema.ValidationError) {
	fmt.Fprintf(w, "Schema has %d issue(s):\n", len(verr.Issues))
	for _, issue := range verr.Issues {
		fmt.Fprintf(w, "  - %s\n", issue.Error())
	}
}

func printSummary(w io.Writer, ds *synth.Dataset, targets []string, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════")
	fmt.Fprintln(w, "  Generation complete")
	fmt.Fprintln(w, "═══════════════════════════════════════════════")
	fmt.Fprintf(w, "  Seed:     %d (pass --seed %d to reproduce)\n", ds.Seed, ds.Seed)
	fmt.Fprintf(w, "  Duration: %s\n", elapsed.Round(time.Millisecond))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "── Tables ──────────────────────────────────────")
	for _, t := range ds.Tables {
		fmt.Fprintf(w, "  %-24s %-9s %7d rows %3d columns\n", t.Name, t.Kind, t.RowCount(), len(t.Columns))
	}

	if len(ds.Diagnostics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "── Notices ─────────────────────────────────────")
		for _, d := range ds.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "── Written ─────────────────────────────────────")
	for _, target := range targets {
		fmt.Fprintf(w, "  %s\n", target)
	}
}
