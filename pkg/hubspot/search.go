package hubspot

import (
	"context"

	"github.com/rotisserie/eris"
)

const (
	searchPageSize  = 100
	defaultMaxPages = 1000

	propPipeline      = "pipeline"
	propPipelineStage = "hs_pipeline_stage"
)

// CountOption configures CountTickets.
type CountOption func(*countConfig)

type countConfig struct {
	maxPages int
}

// WithMaxPages bounds the number of search pages fetched for one stage.
// Values <= 0 keep the default of 1000.
func WithMaxPages(n int) CountOption {
	return func(c *countConfig) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// StageFilter builds the search request body for one page of a stage query.
func StageFilter(pipelineID, stageID, after string) SearchRequest {
	return SearchRequest{
		FilterGroups: []FilterGroup{{
			Filters: []Filter{
				{PropertyName: propPipeline, Operator: "EQ", Value: pipelineID},
				{PropertyName: propPipelineStage, Operator: "EQ", Value: stageID},
			},
		}},
		Limit:      searchPageSize,
		Properties: []string{propPipelineStage},
		After:      after,
	}
}

// CountTickets counts the objects in one pipeline stage by walking the
// search cursor and summing page sizes. The response "total" field is not
// trusted. Any page failure discards the running total.
func CountTickets(ctx context.Context, c Client, pipelineID, stageID string, opts ...CountOption) (int, error) {
	cfg := countConfig{maxPages: defaultMaxPages}
	for _, opt := range opts {
		opt(&cfg)
	}

	total := 0
	after := ""
	for page := 1; ; page++ {
		if page > cfg.maxPages {
			return 0, &PageLimitError{StageID: stageID, MaxPages: cfg.maxPages}
		}

		resp, err := c.Search(ctx, StageFilter(pipelineID, stageID, after))
		if err != nil {
			return 0, &CountFetchError{StageID: stageID, Cause: eris.Wrapf(err, "page %d", page)}
		}

		total += len(resp.Results)

		after = resp.NextAfter()
		if after == "" {
			return total, nil
		}
	}
}
