package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ops-report/pkg/slack"
)

// MetricsSource produces ticket counts for the configured labels.
type MetricsSource interface {
	Aggregate(ctx context.Context, labels []string) (*Metrics, error)
}

// Renderer draws metrics onto the report template.
type Renderer interface {
	Render(m *Metrics, dateLabel string) ([]byte, error)
}

// RunnerConfig is the per-run configuration of a Runner.
type RunnerConfig struct {
	// Labels are the ticket rows, in report order.
	Labels          []string
	InboxID         string
	Channel         string
	CaptionTemplate string
	Slots           string
	// DryRun skips the publish step.
	DryRun bool
	// RenderInDryRun still renders the image during a dry run.
	RenderInDryRun bool
}

// Result describes one report run.
type Result struct {
	RunID          string   `json:"run_id" yaml:"run_id"`
	Date           string   `json:"date" yaml:"date"`
	DateLabel      string   `json:"date_label" yaml:"date_label"`
	Metrics        []Metric `json:"metrics" yaml:"metrics"`
	Degraded       bool     `json:"degraded" yaml:"degraded"`
	DegradedReason string   `json:"degraded_reason,omitempty" yaml:"degraded_reason,omitempty"`
	DryRun         bool     `json:"dry_run" yaml:"dry_run"`
	Published      bool     `json:"published" yaml:"published"`
	FileID         string   `json:"file_id,omitempty" yaml:"file_id,omitempty"`

	Image   []byte `json:"-" yaml:"-"`
	Caption string `json:"-" yaml:"-"`
	metrics *Metrics
}

// MetricSet returns the ordered metrics of the run.
func (r *Result) MetricSet() *Metrics {
	return r.metrics
}

// Runner sequences aggregation, rendering and publishing.
type Runner struct {
	cfg       RunnerConfig
	source    MetricsSource
	renderer  Renderer
	publisher slack.Publisher
}

// NewRunner creates a Runner. source may be nil when no CRM token is
// configured; ticket rows are then reported as 0.
func NewRunner(cfg RunnerConfig, source MetricsSource, renderer Renderer, publisher slack.Publisher) *Runner {
	return &Runner{cfg: cfg, source: source, renderer: renderer, publisher: publisher}
}

// Run produces the report for date. Ticket metric failures degrade to zero
// counts so the report still goes out; render and publish failures are
// returned.
func (r *Runner) Run(ctx context.Context, date ReportDate) (*Result, error) {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID), zap.String("date", date.ISO()))

	res := &Result{
		RunID:     runID,
		Date:      date.ISO(),
		DateLabel: date.Label(),
		DryRun:    r.cfg.DryRun,
	}

	metrics := NewMetrics()
	tickets, reason := r.ticketMetrics(ctx, log)
	metrics.Merge(tickets)
	metrics.Merge(ConversationMetrics(r.cfg.InboxID))

	res.metrics = metrics
	res.Metrics = metrics.Entries()
	res.Degraded = reason != ""
	res.DegradedReason = reason

	log.Info("report: metrics ready",
		zap.Int("rows", metrics.Len()),
		zap.Int("total", metrics.Total()),
		zap.Bool("degraded", res.Degraded),
	)

	if r.cfg.DryRun && !r.cfg.RenderInDryRun {
		log.Info("report: dry run, skipping render and publish")
		return res, nil
	}

	img, err := r.renderer.Render(metrics, date.Label())
	if err != nil {
		return res, eris.Wrap(err, "report: render image")
	}
	res.Image = img
	res.Caption = BuildCaption(r.cfg.CaptionTemplate, r.cfg.Slots)

	if r.cfg.DryRun {
		log.Info("report: dry run, skipping publish", zap.Int("image_bytes", len(img)))
		return res, nil
	}

	receipt, err := r.publisher.Publish(ctx, slack.Upload{
		Channel:  r.cfg.Channel,
		Filename: date.Filename(),
		Title:    date.Title(),
		Comment:  res.Caption,
		Image:    img,
	})
	if err != nil {
		return res, eris.Wrap(err, "report: publish")
	}

	res.Published = true
	res.FileID = receipt.FileID
	log.Info("report: published",
		zap.String("channel", r.cfg.Channel),
		zap.String("file_id", receipt.FileID),
	)
	return res, nil
}

// ticketMetrics returns the ticket rows and, when they were zero-filled, the
// reason.
func (r *Runner) ticketMetrics(ctx context.Context, log *zap.Logger) (*Metrics, string) {
	if r.source == nil {
		log.Warn("report: no CRM token configured, ticket rows set to 0")
		return ZeroMetrics(r.cfg.Labels), "crm token not configured"
	}

	m, err := r.source.Aggregate(ctx, r.cfg.Labels)
	if err != nil {
		log.Error("report: ticket metrics failed, ticket rows set to 0", zap.Error(err))
		return ZeroMetrics(r.cfg.Labels), err.Error()
	}
	return m, ""
}
