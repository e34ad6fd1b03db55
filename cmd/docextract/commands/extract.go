package commands

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/schollz/progressbar/v3"

	"git.home.luguber.info/inful/docextract/internal/category"
	"git.home.luguber.info/inful/docextract/internal/pipeline"
)

// ExtractCmd implements the 'extract' command.
type ExtractCmd struct {
	RunFlags `embed:""`
	Progress bool `short:"p" help:"Show a progress spinner on stderr"`
}

func (e *ExtractCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	e.Apply(cfg)

	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = runner.Close() }()

	if e.Progress {
		runner.Driver.WithProgress(newSpinner())
	}

	ctx, cancel := signalContext()
	defer cancel()

	sum, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	PrintSummary(g.out(), sum)
	return nil
}

func newSpinner() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(os.Stderr)
		}),
	)
}

// PrintSummary writes the per-run report.
func PrintSummary(w io.Writer, sum *pipeline.Summary) {
	_, _ = fmt.Fprintf(w, "Generated %d document(s) from %d file(s) in %s\n",
		sum.Generated, sum.Scanned, sum.Duration.Round(time.Millisecond))
	if sum.Skipped > 0 || sum.Failed > 0 {
		_, _ = fmt.Fprintf(w, "Skipped %d without documentation, %d unparseable\n", sum.Skipped, sum.Failed)
	}

	cats := make([]category.Category, 0, len(sum.Categories))
	for c := range sum.Categories {
		cats = append(cats, c)
	}
	slices.Sort(cats)
	for _, c := range cats {
		_, _ = fmt.Fprintf(w, "  %-12s %d\n", c, sum.Categories[c])
	}
}
