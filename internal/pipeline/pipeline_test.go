package pipeline

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/nao1215/leadcrawl/internal/model"
)

// funcStep adapts a function to Step and counts its calls.
type funcStep struct {
	name  string
	do    func(ctx context.Context, report *model.CrawlReport) error
	calls int
}

func (s *funcStep) Do(ctx context.Context, report *model.CrawlReport) error {
	s.calls++
	if s.do == nil {
		return nil
	}
	return s.do(ctx, report)
}

func (s *funcStep) Name() string {
	return s.name
}

// TestPipelineExecute tests step ordering and how failures end a run.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("archive sees the result of the crawl", func(t *testing.T) {
		t.Parallel()

		crawl := &funcStep{name: "crawl", do: func(_ context.Context, r *model.CrawlReport) error {
			r.Result = sampleResult()
			return nil
		}}
		var archivedPages int
		archive := &funcStep{name: "archive", do: func(_ context.Context, r *model.CrawlReport) error {
			if !r.HasResult() {
				return errors.New("archive ran before crawl")
			}
			archivedPages = r.Result.PagesCrawled
			return nil
		}}

		p := New(WithLogger(discardLogger()))
		p.AddStep(crawl)
		p.AddStep(archive)

		report := model.NewCrawlReport("example.co.uk")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if archivedPages != 1 {
			t.Errorf("expected archive to see 1 page, got %d", archivedPages)
		}
		if !slices.Equal(report.PerformedSteps, []string{"crawl", "archive"}) {
			t.Errorf("unexpected performed steps %v", report.PerformedSteps)
		}
		if report.Error != nil || report.ErrorMessage != "" {
			t.Errorf("unexpected error on report: %v", report.Error)
		}
	})

	t.Run("failed crawl skips the archive", func(t *testing.T) {
		t.Parallel()

		browserGone := errors.New("browser disconnected")
		crawl := &funcStep{name: "crawl", do: func(context.Context, *model.CrawlReport) error {
			return browserGone
		}}
		archive := &funcStep{name: "archive"}

		p := New(WithLogger(discardLogger()))
		p.AddStep(crawl)
		p.AddStep(archive)

		report := model.NewCrawlReport("example.co.uk")
		err := p.Execute(context.Background(), report)
		if !errors.Is(err, browserGone) {
			t.Fatalf("expected browser error, got %v", err)
		}
		if archive.calls != 0 {
			t.Errorf("archive ran %d times after a failed crawl", archive.calls)
		}
		if !errors.Is(report.Error, browserGone) || report.ErrorMessage != "browser disconnected" {
			t.Errorf("error not recorded: %v / %q", report.Error, report.ErrorMessage)
		}
		if len(report.PerformedSteps) != 0 {
			t.Errorf("failed step recorded as performed: %v", report.PerformedSteps)
		}
	})

	t.Run("cancelled before the first step", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		crawl := &funcStep{name: "crawl"}
		p := New(WithLogger(discardLogger()))
		p.AddStep(crawl)

		report := model.NewCrawlReport("example.co.uk")
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if crawl.calls != 0 {
			t.Error("crawl ran on a cancelled context")
		}
		if !errors.Is(report.Error, context.Canceled) || report.ErrorMessage != context.Canceled.Error() {
			t.Errorf("cancellation not recorded: %v / %q", report.Error, report.ErrorMessage)
		}
	})

	t.Run("interrupt during crawl keeps the result but skips the archive", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		crawl := &funcStep{name: "crawl", do: func(_ context.Context, r *model.CrawlReport) error {
			r.Result = sampleResult()
			cancel()
			return nil
		}}
		archive := &funcStep{name: "archive"}

		p := New(WithLogger(discardLogger()))
		p.AddStep(crawl)
		p.AddStep(archive)

		report := model.NewCrawlReport("example.co.uk")
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if archive.calls != 0 {
			t.Error("archive ran after the interrupt")
		}
		if !report.HasResult() {
			t.Error("expected the crawl result to be kept")
		}
		if !slices.Equal(report.PerformedSteps, []string{"crawl"}) {
			t.Errorf("unexpected performed steps %v", report.PerformedSteps)
		}
	})

	t.Run("no steps", func(t *testing.T) {
		t.Parallel()

		report := model.NewCrawlReport("example.co.uk")
		if err := New().Execute(context.Background(), report); err != nil {
			t.Errorf("Execute() error = %v", err)
		}
		if report.HasResult() || len(report.PerformedSteps) != 0 {
			t.Errorf("empty pipeline changed the report: %+v", report)
		}
	})
}
