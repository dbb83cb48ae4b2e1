package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/leadcrawl/internal/model"
)

// Step is one stage of processing a crawl target.
type Step interface {
	// Do works on report. An expected outcome such as an unreachable
	// homepage is recorded in the report; only failures that make the
	// report unusable are returned as errors.
	Do(ctx context.Context, report *model.CrawlReport) error

	// Name identifies the step in logs and in report.PerformedSteps.
	Name() string
}

// Pipeline runs the steps for a single crawl report in order.
//
// Later steps depend on earlier ones (nothing can be archived before the
// crawl has produced a result), so the first failing step ends the run.
// Its error is recorded on the report and returned.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for step progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step to the run order.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Execute runs every step against report.
//
// A step that completes is appended to report.PerformedSteps. When ctx is
// cancelled between steps, or a step fails, the error is stored in
// report.Error and report.ErrorMessage and the remaining steps are skipped.
func (p *Pipeline) Execute(ctx context.Context, report *model.CrawlReport) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("crawl interrupted",
				"target", report.Target,
				"before", step.Name(),
				"reason", err,
			)
			fail(report, err)
			return err
		}

		start := time.Now()
		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"target", report.Target,
				"step", step.Name(),
				"error", err,
			)
			fail(report, err)
			return err
		}

		p.logger.Debug("step done",
			"target", report.Target,
			"step", step.Name(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}
	return nil
}

func fail(report *model.CrawlReport, err error) {
	report.Error = err
	report.ErrorMessage = err.Error()
}
