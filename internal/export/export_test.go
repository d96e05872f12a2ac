package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ops-report/internal/report"
)

func sampleResult() *report.Result {
	return &report.Result{
		RunID:     "run-1",
		Date:      "2025-08-25",
		DateLabel: "25/08/2025 (Mon)",
		Metrics: []report.Metric{
			{Label: "Novo", Count: 3},
			{Label: "Em tratativa", Count: 0},
			{Label: "Não atribuído", Count: 0},
		},
		Degraded:       true,
		DegradedReason: "crm token not configured",
		DryRun:         true,
		Image:          []byte("png"),
		Caption:        "caption",
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResult()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, true, got["degraded"])
	assert.NotContains(t, got, "Image")
	assert.NotContains(t, got, "Caption")
	assert.NotContains(t, got, "file_id")

	metrics, ok := got["metrics"].([]any)
	require.True(t, ok)
	require.Len(t, metrics, 3)
	first := metrics[0].(map[string]any)
	assert.Equal(t, "Novo", first["label"])
	assert.InDelta(t, 3, first["count"], 0)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleResult()))

	var got struct {
		RunID   string          `yaml:"run_id"`
		DryRun  bool            `yaml:"dry_run"`
		Metrics []report.Metric `yaml:"metrics"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "run-1", got.RunID)
	assert.True(t, got.DryRun)
	assert.Equal(t, sampleResult().Metrics, got.Metrics)
	assert.NotContains(t, buf.String(), "caption")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResult()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)

	cell := func(r, c int) string {
		return sheet.Rows[r].Cells[c].String()
	}

	assert.Equal(t, "Métrica", cell(0, 0))
	assert.Equal(t, "25/08/2025 (Mon)", cell(0, 1))
	assert.Equal(t, "Novo", cell(1, 0))
	assert.Equal(t, "3", cell(1, 1))
	assert.Equal(t, "Não atribuído", cell(3, 0))
	assert.Equal(t, "0", cell(3, 1))
	assert.Equal(t, "run_id", cell(4, 0))
	assert.Equal(t, "run-1", cell(4, 1))
	assert.Equal(t, "true", cell(6, 1))
}

func TestWriteXLSX_BadPath(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "missing", "report.xlsx"), sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: save")
}
