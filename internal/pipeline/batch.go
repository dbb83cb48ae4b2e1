package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/leadcrawl/internal/model"
)

// Runner crawls several targets strictly one after another.
// Each target gets a fresh pipeline from the factory, so per-site settings
// and fetchers never leak between crawls.
type Runner struct {
	// pipelineFactory builds the pipeline for one target. The returned
	// release function, if not nil, is called once the target is done.
	pipelineFactory func(target string) (*Pipeline, func(), error)

	// logger is used for run-level logging.
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner.
func NewRunner(pipelineFactory func(target string) (*Pipeline, func(), error), opts ...RunnerOption) *Runner {
	r := &Runner{pipelineFactory: pipelineFactory}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run crawls targets in order and calls callback with each finished report.
//
// A failing pipeline is recorded in its report and the run moves on to the
// next target. A factory error (for example, the browser cannot start) or
// a callback error stops the run and is returned, as does cancellation.
func (r *Runner) Run(ctx context.Context, targets []string, callback func(report *model.CrawlReport, index int) error) error {
	start := time.Now()

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.logger.Debug("crawling target",
			"target", target,
			"index", i+1,
			"total", len(targets),
		)

		report, err := r.runOne(ctx, target)
		if err != nil {
			return err
		}

		if err := callback(report, i); err != nil {
			return err
		}
	}

	r.logger.Debug("run complete",
		"targets", len(targets),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

func (r *Runner) runOne(ctx context.Context, target string) (*model.CrawlReport, error) {
	p, release, err := r.pipelineFactory(target)
	if err != nil {
		return nil, err
	}
	if release != nil {
		defer release()
	}

	report := model.NewCrawlReport(target)
	if err := p.Execute(ctx, report); err != nil {
		r.logger.Warn("crawl failed",
			"target", target,
			"error", err,
		)
	}
	return report, nil
}
