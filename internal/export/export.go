// Package export writes a report run to machine-readable formats for
// dry runs and archiving.
package export

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ops-report/internal/report"
)

// Format is a text output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", eris.Errorf("export: unknown format %q (want json or yaml)", s)
	}
}

// Write encodes res to w in the given format.
func Write(w io.Writer, f Format, res *report.Result) error {
	switch f {
	case FormatYAML:
		return WriteYAML(w, res)
	default:
		return WriteJSON(w, res)
	}
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res *report.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}

// WriteYAML writes res as YAML.
func WriteYAML(w io.Writer, res *report.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "export: close yaml encoder")
	}
	return nil
}

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Reporte"

// WriteXLSX saves the metrics of res as a two-column worksheet (label,
// count) followed by the run metadata rows.
func WriteXLSX(path string, res *report.Result) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Métrica")
	header.AddCell().SetString(res.DateLabel)

	for _, m := range res.Metrics {
		row := sheet.AddRow()
		row.AddCell().SetString(m.Label)
		row.AddCell().SetInt(m.Count)
	}

	for _, kv := range [][2]string{
		{"run_id", res.RunID},
		{"date", res.Date},
		{"degraded", strconv.FormatBool(res.Degraded)},
		{"degraded_reason", res.DegradedReason},
	} {
		row := sheet.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
