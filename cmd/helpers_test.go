package main

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ops-report/internal/config"
	"github.com/sells-group/ops-report/pkg/hubspot"
)

const crmPipelinesJSON = `{"results":[
  {"id":"P1","label":"Experiência do Cliente","stages":[
    {"id":"s-novo","label":"Novo"},
    {"id":"s-trat","label":"Em Tratativa"},
    {"id":"s-img","label":"Solicita Imagem 📷"},
    {"id":"s-fim","label":"Concluído"}
  ]}
]}`

// crmServer serves the pipelines endpoint and answers ticket searches with
// counts[stageID] results on a single page.
func crmServer(t *testing.T, counts map[string]int, searches *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/crm/v3/pipelines/tickets":
			w.Write([]byte(crmPipelinesJSON)) //nolint:errcheck
		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/tickets/search":
			searches.Add(1)
			var req hubspot.SearchRequest
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			var stageID string
			for _, g := range req.FilterGroups {
				for _, f := range g.Filters {
					if f.PropertyName == "hs_pipeline_stage" {
						stageID = f.Value
					}
				}
			}
			resp := hubspot.SearchResponse{Results: make([]hubspot.SearchResult, counts[stageID])}
			json.NewEncoder(w).Encode(resp) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// slackServer rejects every Web API call with invalid_auth.
func slackServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error":"invalid_auth"}`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeTemplatePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 600, 520))
	for y := 0; y < 520; y++ {
		for x := 0; x < 600; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(dir, "template.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.HubSpot.ObjectType = "tickets"
	c.HubSpot.MaxPages = 1000
	c.Report.TemplatePath = writeTemplatePNG(t, t.TempDir())
	c.Report.Timezone = "America/Sao_Paulo"
	c.Log = config.LogConfig{Level: "info", Format: "json"}
	return c
}

func withCRM(c *config.Config, srv *httptest.Server) {
	c.HubSpot.Token = "pat-test"
	c.HubSpot.BaseURL = srv.URL
	c.HubSpot.PipelineName = "experiência do cliente"
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
