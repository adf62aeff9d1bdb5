// Package pipeline turns a directory of bank exports into classified summaries.
//
// Each file is read, date-normalized, amount-unified and projected to the
// canonical columns. Files are then split into a bank account and a credit card
// table, the manual insurance row is added to the bank table, subtotals are
// inserted per source file and every row is classified before being written.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tally-dev/tally/internal/classify"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/report"
)

// UnmatchedPolicy decides what happens to a source file no profile matches.
type UnmatchedPolicy string

const (
	UnmatchedError UnmatchedPolicy = "error"
	UnmatchedSkip  UnmatchedPolicy = "skip"
)

// ParseUnmatchedPolicy validates a policy name.
func ParseUnmatchedPolicy(s string) (UnmatchedPolicy, error) {
	switch p := UnmatchedPolicy(s); p {
	case UnmatchedError, UnmatchedSkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown unmatched policy %q (want %q or %q)", s, UnmatchedError, UnmatchedSkip)
	}
}

// Options configures a run. Every path is explicit; nothing depends on the
// working directory.
type Options struct {
	SourceDir string
	DestDir   string
	Rules     *config.Rules // required
	Window    *Window // nil keeps every row
	Unmatched UnmatchedPolicy
	Workbook  bool
	Now       func() time.Time // dates the manual insurance row; time.Now when nil
}

// Result summarizes a run.
type Result struct {
	Files        int
	Skipped      []string
	BankRows     int // rows written, subtotals included
	CreditRows   int
	BankPath     string
	CreditPath   string
	WorkbookPath string
}

// Pipeline runs the summary for one configuration.
type Pipeline struct {
	opts       Options
	reader     *importer.Reader
	classifier *classify.Classifier
	log        zerolog.Logger
}

// New creates a Pipeline.
func New(opts Options, log zerolog.Logger) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Unmatched == "" {
		opts.Unmatched = UnmatchedError
	}
	return &Pipeline{
		opts:       opts,
		reader:     importer.NewReader(log),
		classifier: classify.New(opts.Rules),
		log:        log,
	}
}

// Run reads every CSV in the source directory and writes both summaries.
func (p *Pipeline) Run() (*Result, error) {
	if p.opts.Rules == nil {
		return nil, errors.New("no classification rules configured")
	}

	files, err := importer.Scan(p.opts.SourceDir)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var bank, credit []model.Transaction

	for _, f := range files {
		txns, fileType, err := p.ProcessFile(f.Path)
		if errors.Is(err, importer.ErrUnmatchedSource) && p.opts.Unmatched == UnmatchedSkip {
			p.log.Warn().Str("file", f.Name).Msg("no institution profile matches, skipping")
			res.Skipped = append(res.Skipped, f.Name)
			continue
		}
		if err != nil {
			return nil, err
		}

		res.Files++
		if fileType == model.FileTypeCreditCard {
			credit = append(credit, txns...)
		} else {
			bank = append(bank, txns...)
		}
	}

	bank = append(bank, ExtraTransaction(p.opts.Now()))

	if err := os.MkdirAll(p.opts.DestDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating dest dir: %w", err)
	}

	credit = InsertSubtotals(credit)
	bank = InsertSubtotals(bank)
	p.classifier.ClassifyAll(credit)
	p.classifier.ClassifyAll(bank)

	res.CreditPath = filepath.Join(p.opts.DestDir, report.CreditCardFile)
	if err := report.WriteFile(res.CreditPath, credit); err != nil {
		return nil, err
	}
	res.BankPath = filepath.Join(p.opts.DestDir, report.BankAccountFile)
	if err := report.WriteFile(res.BankPath, bank); err != nil {
		return nil, err
	}
	res.CreditRows = len(credit)
	res.BankRows = len(bank)

	if p.opts.Workbook {
		res.WorkbookPath = filepath.Join(p.opts.DestDir, report.WorkbookFile)
		err := report.WriteWorkbook(res.WorkbookPath, []report.Sheet{
			{Name: report.CreditCardSheet, Rows: credit},
			{Name: report.BankAccountSheet, Rows: bank},
		})
		if err != nil {
			return nil, err
		}
	}

	p.log.Info().
		Int("files", res.Files).
		Int("bank_rows", res.BankRows).
		Int("credit_rows", res.CreditRows).
		Str("dest", p.opts.DestDir).
		Msg("summaries written")

	return res, nil
}

// ProcessFile reads one export and normalizes it to canonical transactions.
func (p *Pipeline) ProcessFile(path string) ([]model.Transaction, model.FileType, error) {
	stmt, err := p.reader.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	log := p.log.With().Str("file", stmt.Name).Str("profile", stmt.Profile.Key).Logger()

	rows, layout := NormalizeDates(RowsOf(stmt), p.opts.Window)
	if layout == "" && len(stmt.Entries) > 0 {
		log.Warn().Msg("no date layout matched, dates left empty")
	}
	for _, r := range rows {
		if r.Date.IsZero() {
			log.Warn().Int("line", r.Entry.Line).Str("value", r.Entry.RawDate).Msg("unparsed date")
		}
	}
	if p.opts.Window != nil && len(rows) < len(stmt.Entries) {
		log.Debug().
			Int("dropped", len(stmt.Entries)-len(rows)).
			Str("window", p.opts.Window.String()).
			Msg("rows outside statement window")
	}

	UnifyAmounts(rows, stmt.Profile)

	log.Debug().Int("rows", len(rows)).Str("layout", layout).Msg("read statement")
	return Project(rows, stmt.Name), stmt.Profile.FileType, nil
}
