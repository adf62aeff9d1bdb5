package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/logger"
	"github.com/tally-dev/tally/internal/pipeline"
	"github.com/tally-dev/tally/internal/runlog"
)

type runFlags struct {
	source    string
	dest      string
	rules     string
	from      string
	to        string
	month     string
	unmatched string
	workbook  bool
	verbose   bool
	envFile   string
}

func newRunCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read every export in the source directory and write the summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(f.envFile)
			if err != nil {
				return err
			}
			f.override(cmd, settings)
			return runSummary(cmd, settings, f.month, f.verbose)
		},
	}

	cmd.Flags().StringVar(&f.source, "source", "", "directory holding the bank exports (default source_files)")
	cmd.Flags().StringVar(&f.dest, "dest", "", "directory for the summaries (default dest_files)")
	cmd.Flags().StringVar(&f.rules, "rules", "", "classification rules file (default config/category_mappings.yml)")
	cmd.Flags().StringVar(&f.from, "from", "", "first statement day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last statement day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.month, "month", "", "statement month, YYYY-MM (instead of --from/--to)")
	cmd.Flags().StringVar(&f.unmatched, "unmatched", "", `what to do with files no profile matches: "error" or "skip"`)
	cmd.Flags().BoolVar(&f.workbook, "xlsx", false, "also write summary.xlsx")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "dotenv file read before TALLY_* variables")
	cmd.MarkFlagsMutuallyExclusive("month", "from")
	cmd.MarkFlagsMutuallyExclusive("month", "to")

	return cmd
}

// override applies the flags set on the command line over env settings.
func (f *runFlags) override(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		s.SourceDir = f.source
	}
	if flags.Changed("dest") {
		s.DestDir = f.dest
	}
	if flags.Changed("rules") {
		s.RulesPath = f.rules
	}
	if flags.Changed("from") {
		s.From = f.from
	}
	if flags.Changed("to") {
		s.To = f.to
	}
	if flags.Changed("unmatched") {
		s.Unmatched = f.unmatched
	}
	if flags.Changed("xlsx") {
		s.Workbook = f.workbook
	}
}

// window resolves the statement window. --month wins over TALLY_FROM/TALLY_TO.
func window(s *config.Settings, month string) (*pipeline.Window, error) {
	switch {
	case month != "":
		w, err := pipeline.ParseMonth(month)
		return &w, err
	case s.From == "" && s.To == "":
		return nil, nil
	case s.From == "" || s.To == "":
		return nil, errors.New("--from and --to must be given together")
	default:
		w, err := pipeline.ParseWindow(s.From, s.To)
		return &w, err
	}
}

func runSummary(cmd *cobra.Command, s *config.Settings, month string, verbose bool) error {
	win, err := window(s, month)
	if err != nil {
		return err
	}
	policy, err := pipeline.ParseUnmatchedPolicy(s.Unmatched)
	if err != nil {
		return err
	}
	rules, err := config.LoadRules(s.RulesPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.WithRun(logger.New(cmd.ErrOrStderr(), verbose), runID)
	if win != nil {
		log.Info().Str("window", win.String()).Msg("statement window")
	}

	res, err := pipeline.New(pipeline.Options{
		SourceDir: s.SourceDir,
		DestDir:   s.DestDir,
		Rules:     rules,
		Window:    win,
		Unmatched: policy,
		Workbook:  s.Workbook,
	}, log).Run()
	if err != nil {
		return err
	}

	// Write run log.
	entry := runlog.Entry{
		Timestamp:  time.Now().UTC(),
		RunID:      runID,
		Files:      res.Files,
		Skipped:    res.Skipped,
		BankRows:   res.BankRows,
		CreditRows: res.CreditRows,
	}
	if err := runlog.Append(s.DestDir, entry); err != nil {
		log.Warn().Err(err).Msg("failed to write run log")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Read %d file(s)", res.Files)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(out, ", skipped %d", len(res.Skipped))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s (%d rows)\n", res.CreditPath, res.CreditRows)
	fmt.Fprintf(out, "  %s (%d rows)\n", res.BankPath, res.BankRows)
	if res.WorkbookPath != "" {
		fmt.Fprintf(out, "  %s\n", res.WorkbookPath)
	}
	return nil
}
