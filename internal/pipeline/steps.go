package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/leadcrawl/internal/crawler"
	"github.com/nao1215/leadcrawl/internal/model"
)

// SiteCrawler produces the corpus for one site.
// *crawler.Crawler implements it.
type SiteCrawler interface {
	Crawl(ctx context.Context, site string) (*model.CrawlResult, error)
}

// Archive stores finished crawl reports.
// *database.CrawlDB implements it.
type Archive interface {
	SaveCrawl(ctx context.Context, report *model.CrawlReport) (int64, error)
}

// CrawlStep runs the crawl for the report's target.
// An unreachable homepage is not a step failure: the report keeps a nil
// Result, which is written as the "no result" output.
type CrawlStep struct {
	crawler SiteCrawler
	logger  *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step backed by c.
func NewCrawlStep(c SiteCrawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, report *model.CrawlReport) error {
	start := time.Now()
	result, err := s.crawler.Crawl(ctx, report.Target)
	report.Elapsed = time.Since(start)

	if errors.Is(err, crawler.ErrNoResult) {
		s.logger.Info("no result for target", "target", report.Target)
		return nil
	}
	if err != nil {
		return fmt.Errorf("crawl %s: %w", report.Target, err)
	}

	report.Result = result
	return nil
}

// ArchiveStep saves a finished result to the archive.
// Reports without a result are skipped.
type ArchiveStep struct {
	archive Archive
	logger  *slog.Logger
}

// ArchiveStepOption configures an ArchiveStep.
type ArchiveStepOption func(*ArchiveStep)

// WithArchiveLogger sets a custom logger for the archive step.
func WithArchiveLogger(logger *slog.Logger) ArchiveStepOption {
	return func(s *ArchiveStep) {
		s.logger = logger
	}
}

// NewArchiveStep creates an archive step writing to a.
func NewArchiveStep(a Archive, opts ...ArchiveStepOption) *ArchiveStep {
	s := &ArchiveStep{
		archive: a,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ArchiveStep) Name() string {
	return "archive"
}

// Do executes the archive step.
func (s *ArchiveStep) Do(ctx context.Context, report *model.CrawlReport) error {
	if !report.HasResult() {
		s.logger.Debug("nothing to archive", "target", report.Target)
		return nil
	}

	id, err := s.archive.SaveCrawl(ctx, report)
	if err != nil {
		return fmt.Errorf("archive %s: %w", report.Target, err)
	}
	report.ID = id

	s.logger.Debug("archived crawl", "target", report.Target, "id", id)
	return nil
}

// DefaultPipelineConfig selects the steps of DefaultPipeline.
type DefaultPipelineConfig struct {
	// Archive, when set, adds an ArchiveStep after the crawl.
	Archive Archive

	// Logger is passed to every step.
	Logger *slog.Logger
}

// DefaultPipelineOption configures DefaultPipeline.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineArchive saves every result to a.
func WithPipelineArchive(a Archive) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Archive = a
	}
}

// WithPipelineLogger sets the logger used by the steps.
func WithPipelineLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline builds the standard pipeline for one target: a crawl
// step, followed by an archive step when an archive is configured.
func DefaultPipeline(c SiteCrawler, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	cfg := &DefaultPipelineConfig{Logger: slog.Default()}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p := New(pipelineOpts...)
	p.AddStep(NewCrawlStep(c, WithCrawlLogger(cfg.Logger)))
	if cfg.Archive != nil {
		p.AddStep(NewArchiveStep(cfg.Archive, WithArchiveLogger(cfg.Logger)))
	}
	return p
}
