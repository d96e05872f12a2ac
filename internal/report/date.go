package report

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// ReportDate is the calendar day a report covers, in the report time zone.
type ReportDate struct {
	t time.Time
}

// NewReportDate returns the date of t in loc.
func NewReportDate(t time.Time, loc *time.Location) ReportDate {
	lt := t.In(loc)
	return ReportDate{t: time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)}
}

// ParseReportDate accepts "today", "yesterday" (or "hoje", "ontem") and
// YYYY-MM-DD. Relative values resolve against now in loc.
func ParseReportDate(value string, loc *time.Location, now time.Time) (ReportDate, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today", "hoje":
		return NewReportDate(now, loc), nil
	case "yesterday", "ontem":
		return NewReportDate(now.In(loc).AddDate(0, 0, -1), loc), nil
	}

	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), loc)
	if err != nil {
		return ReportDate{}, eris.Wrapf(err, "report: invalid date %q (want today, yesterday or YYYY-MM-DD)", value)
	}
	return ReportDate{t: t}, nil
}

// Time returns midnight of the report day.
func (d ReportDate) Time() time.Time { return d.t }

// Label renders the date as shown on the image, e.g. "25/08/2025 (Mon)".
func (d ReportDate) Label() string { return d.t.Format("02/01/2006 (Mon)") }

// ISO renders the date as YYYY-MM-DD.
func (d ReportDate) ISO() string { return d.t.Format(time.DateOnly) }

// Filename is the uploaded image name.
func (d ReportDate) Filename() string { return "reporte_operacional_" + d.ISO() + ".png" }

// Title is the uploaded file title.
func (d ReportDate) Title() string { return "Reporte Operacional - " + d.Label() }
