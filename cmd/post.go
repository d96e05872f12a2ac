package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ops-report/internal/config"
	"github.com/sells-group/ops-report/internal/export"
	"github.com/sells-group/ops-report/internal/layout"
	"github.com/sells-group/ops-report/internal/report"
	"github.com/sells-group/ops-report/pkg/slack"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Build the daily report and post it to Slack",
	Long: `Counts tickets in each configured pipeline stage, renders the counts onto
the report template and uploads the image to the configured Slack channel.

CRM failures never block the post: ticket rows fall back to 0 and the run is
marked degraded. Configuration, date and publish failures exit non-zero.

Examples:
  # Post today's report
  post

  # Post yesterday's report with the slots read from a file
  post --date ontem --slots-file slots.txt

  # Inspect the metrics without posting
  post --dry-run --format yaml

  # Dry run that also writes the image and a spreadsheet
  post --dry-run --out report.png --xlsx report.xlsx`,
	RunE: runPost,
}

// postOptions are the flag values of the post command.
type postOptions struct {
	Date      string
	DryRun    bool
	Out       string
	SlotsFile string
	Format    string
	XLSX      string
}

func init() {
	f := postCmd.Flags()
	f.String("date", "today", "report date: today, yesterday or YYYY-MM-DD")
	f.Bool("dry-run", false, "compute metrics without posting (overrides config)")
	f.String("out", "", "write the rendered image to this path")
	f.String("slots-file", "", "read the available slots text from this file")
	f.String("format", "json", "dry-run output format: json or yaml")
	f.String("xlsx", "", "write the metrics to this XLSX file")

	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts postOptions
	opts.Date, _ = cmd.Flags().GetString("date")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.Out, _ = cmd.Flags().GetString("out")
	opts.SlotsFile, _ = cmd.Flags().GetString("slots-file")
	opts.Format, _ = cmd.Flags().GetString("format")
	opts.XLSX, _ = cmd.Flags().GetString("xlsx")

	_, err := postReport(ctx, cfg, opts, cmd.OutOrStdout(), time.Now())
	return err
}

// postReport runs one report. Dry-run results are written to w.
func postReport(ctx context.Context, c *config.Config, opts postOptions, w io.Writer, now time.Time) (*report.Result, error) {
	dryRun := opts.DryRun || c.Report.DryRun
	log := zap.L().With(zap.String("command", "post"), zap.Bool("dry_run", dryRun))

	if err := c.Validate(dryRun); err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	date, err := report.ParseReportDate(opts.Date, loc, now)
	if err != nil {
		return nil, err
	}

	lay, err := layout.Load(c.Report.LayoutPath)
	if err != nil {
		return nil, err
	}

	slots, err := readSlots(opts.SlotsFile, c.Report.Slots)
	if err != nil {
		return nil, err
	}

	var publisher slack.Publisher
	if !dryRun {
		publisher = initPublisher(c)
	}

	runner := report.NewRunner(report.RunnerConfig{
		Labels:          lay.Stages,
		InboxID:         c.HubSpot.InboxID,
		Channel:         c.Slack.Channel,
		CaptionTemplate: c.Report.CaptionTemplate,
		Slots:           slots,
		DryRun:          dryRun,
		RenderInDryRun:  opts.Out != "",
	}, initSource(c), initComposer(c, lay, false), publisher)

	log.Info("post: starting report", zap.String("date", date.ISO()))

	res, err := runner.Run(ctx, date)
	if err != nil {
		return res, err
	}

	if opts.Out != "" && len(res.Image) > 0 {
		if err := os.WriteFile(opts.Out, res.Image, 0o644); err != nil {
			return res, eris.Wrapf(err, "post: write image %s", opts.Out)
		}
		log.Info("post: image written", zap.String("path", opts.Out))
	}

	if opts.XLSX != "" {
		if err := export.WriteXLSX(opts.XLSX, res); err != nil {
			return res, err
		}
		log.Info("post: spreadsheet written", zap.String("path", opts.XLSX))
	}

	if dryRun {
		return res, export.Write(w, format, res)
	}

	log.Info("post: report complete",
		zap.String("run_id", res.RunID),
		zap.String("file_id", res.FileID),
		zap.Bool("degraded", res.Degraded),
	)
	return res, nil
}
