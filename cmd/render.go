package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ops-report/internal/config"
	"github.com/sells-group/ops-report/internal/layout"
	"github.com/sells-group/ops-report/internal/report"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the report template with zero metrics",
	Long: `Draws every report row as 0 onto the template without calling the CRM or
Slack. Use --debug-labels to print each row key next to its value when
calibrating the layout coordinates.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")
		date, _ := cmd.Flags().GetString("date")
		debug, _ := cmd.Flags().GetBool("debug-labels")
		return renderPreview(cfg, date, out, debug, time.Now())
	},
}

func init() {
	f := renderCmd.Flags()
	f.String("out", "", "output PNG path (required)")
	f.String("date", "today", "report date: today, yesterday or YYYY-MM-DD")
	f.Bool("debug-labels", false, "draw row keys next to values")
	_ = renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(renderCmd)
}

func renderPreview(c *config.Config, dateValue, out string, debug bool, now time.Time) error {
	loc, err := c.Location()
	if err != nil {
		return err
	}
	date, err := report.ParseReportDate(dateValue, loc, now)
	if err != nil {
		return err
	}
	lay, err := layout.Load(c.Report.LayoutPath)
	if err != nil {
		return err
	}

	m := report.ZeroMetrics(lay.Stages)
	m.Merge(report.ZeroMetrics(report.ConversationKeys))

	img, err := initComposer(c, lay, debug).Render(m, date.Label())
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, img, 0o644); err != nil {
		return eris.Wrapf(err, "render: write %s", out)
	}

	zap.L().Info("render: preview written",
		zap.String("path", out),
		zap.Int("rows", m.Len()),
		zap.Bool("debug_labels", debug || c.Report.DebugLabels),
	)
	return nil
}
