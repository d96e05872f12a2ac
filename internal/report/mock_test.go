package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/ops-report/pkg/hubspot"
	"github.com/sells-group/ops-report/pkg/slack"
)

// --- HubSpot Mock ---

type mockHubSpotClient struct {
	mock.Mock
}

func (m *mockHubSpotClient) ListPipelines(ctx context.Context) ([]hubspot.Pipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hubspot.Pipeline), args.Error(1)
}

func (m *mockHubSpotClient) Search(ctx context.Context, req hubspot.SearchRequest) (*hubspot.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hubspot.SearchResponse), args.Error(1)
}

// stageQuery matches the first search page for a stage.
func stageQuery(pipelineID, stageID string) hubspot.SearchRequest {
	return hubspot.StageFilter(pipelineID, stageID, "")
}

// searchPage builds a final search page holding n results.
func searchPage(n int) *hubspot.SearchResponse {
	return &hubspot.SearchResponse{Results: make([]hubspot.SearchResult, n)}
}

// --- Source / Renderer / Publisher Mocks ---

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Aggregate(ctx context.Context, labels []string) (*Metrics, error) {
	args := m.Called(ctx, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Metrics), args.Error(1)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(metrics *Metrics, dateLabel string) ([]byte, error) {
	args := m.Called(metrics, dateLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, u slack.Upload) (*slack.Receipt, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slack.Receipt), args.Error(1)
}

// observeLogs routes the global logger to an in-memory sink for one test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	undo := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(undo)
	return logs
}
