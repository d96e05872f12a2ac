package report

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ops-report/pkg/hubspot"
)

// Aggregator counts tickets per configured stage label.
type Aggregator struct {
	client        hubspot.Client
	hint          hubspot.PipelineHint
	faultTolerant bool
	countOpts     []hubspot.CountOption
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithFaultTolerant records 0 for a stage whose count fails instead of
// aborting the whole aggregation.
func WithFaultTolerant(enabled bool) AggregatorOption {
	return func(a *Aggregator) {
		a.faultTolerant = enabled
	}
}

// WithCountOptions passes options to every stage count.
func WithCountOptions(opts ...hubspot.CountOption) AggregatorOption {
	return func(a *Aggregator) {
		a.countOpts = append(a.countOpts, opts...)
	}
}

// NewAggregator creates an Aggregator for the pipeline selected by hint.
func NewAggregator(client hubspot.Client, hint hubspot.PipelineHint, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{client: client, hint: hint}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StageIndex maps normalized stage labels to stage ids. When two raw labels
// normalize to the same key the later stage in API order wins.
func StageIndex(p *hubspot.ResolvedPipeline) map[string]string {
	idx := make(map[string]string, len(p.Ordered))
	for _, st := range p.Ordered {
		// Stages holds the last id per raw label; honour it so both maps agree.
		idx[Normalize(st.Label)] = p.Stages[st.Label]
	}
	return idx
}

// Aggregate resolves the pipeline once and counts every label in order.
// Unmatched labels are logged and recorded as 0.
func (a *Aggregator) Aggregate(ctx context.Context, labels []string) (*Metrics, error) {
	pipeline, err := hubspot.ResolvePipeline(ctx, a.client, a.hint)
	if err != nil {
		return nil, eris.Wrap(err, "aggregate: resolve pipeline")
	}

	idx := StageIndex(pipeline)
	metrics := NewMetrics()

	for _, label := range labels {
		stageID, ok := idx[Normalize(label)]
		if !ok {
			zap.L().Warn("aggregate: stage not found in pipeline, reporting 0",
				zap.String("label", label),
				zap.String("pipeline_id", pipeline.ID),
			)
			metrics.Set(label, 0)
			continue
		}

		count, err := hubspot.CountTickets(ctx, a.client, pipeline.ID, stageID, a.countOpts...)
		if err != nil {
			if !a.faultTolerant {
				return nil, eris.Wrapf(err, "aggregate: count %q", label)
			}
			zap.L().Error("aggregate: count failed, reporting 0",
				zap.String("label", label),
				zap.String("stage_id", stageID),
				zap.Error(err),
			)
			metrics.Set(label, 0)
			continue
		}

		zap.L().Debug("aggregate: stage counted",
			zap.String("label", label),
			zap.String("stage_id", stageID),
			zap.Int("count", count),
		)
		metrics.Set(label, count)
	}

	return metrics, nil
}
