package hubspot

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PipelineHint selects a pipeline. ID takes precedence over Name.
type PipelineHint struct {
	ID   string
	Name string
}

// Empty reports whether neither ID nor Name is set.
func (h PipelineHint) Empty() bool {
	return strings.TrimSpace(h.ID) == "" && strings.TrimSpace(h.Name) == ""
}

// ResolvedPipeline is the selected pipeline with its stage index.
type ResolvedPipeline struct {
	ID    string
	Label string
	// Stages maps raw stage label to stage id. When two stages share a raw
	// label the later one in API order wins.
	Stages map[string]string
	// Ordered keeps the API stage order for display.
	Ordered []Stage
}

// ResolvePipeline fetches all pipelines and selects one by id, falling back
// to a case-insensitive trimmed label match. It never picks an arbitrary
// pipeline: with no hint it returns ErrConfigurationMissing without calling
// the API.
func ResolvePipeline(ctx context.Context, c Client, hint PipelineHint) (*ResolvedPipeline, error) {
	if hint.Empty() {
		return nil, eris.Wrap(ErrConfigurationMissing, "hubspot: set a pipeline id or pipeline name")
	}

	id := strings.TrimSpace(hint.ID)
	name := strings.TrimSpace(hint.Name)

	pipelines, err := c.ListPipelines(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: resolve pipeline")
	}

	chosen, err := selectPipeline(pipelines, id, name)
	if err != nil {
		return nil, err
	}

	stages := make(map[string]string, len(chosen.Stages))
	for _, st := range chosen.Stages {
		if prev, dup := stages[st.Label]; dup {
			zap.L().Warn("hubspot: duplicate stage label, later stage wins",
				zap.String("pipeline_id", chosen.ID),
				zap.String("stage_label", st.Label),
				zap.String("dropped_stage_id", prev),
				zap.String("stage_id", st.ID),
			)
		}
		stages[st.Label] = st.ID
	}

	zap.L().Info("hubspot: pipeline resolved",
		zap.String("pipeline_id", chosen.ID),
		zap.String("pipeline_label", chosen.Label),
		zap.Int("stages", len(chosen.Stages)),
	)
	for _, st := range chosen.Stages {
		zap.L().Debug("hubspot: pipeline stage",
			zap.String("stage_label", st.Label),
			zap.String("stage_id", st.ID),
		)
	}

	return &ResolvedPipeline{
		ID:      chosen.ID,
		Label:   chosen.Label,
		Stages:  stages,
		Ordered: chosen.Stages,
	}, nil
}

func selectPipeline(pipelines []Pipeline, id, name string) (*Pipeline, error) {
	if id != "" {
		for i := range pipelines {
			if pipelines[i].ID == id {
				return &pipelines[i], nil
			}
		}
		return nil, &PipelineNotFoundError{ID: id}
	}

	wanted := strings.ToLower(name)
	for i := range pipelines {
		if strings.ToLower(strings.TrimSpace(pipelines[i].Label)) == wanted {
			return &pipelines[i], nil
		}
	}
	return nil, &PipelineNotFoundError{Name: name}
}
