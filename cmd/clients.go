package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ops-report/internal/config"
	"github.com/sells-group/ops-report/internal/layout"
	"github.com/sells-group/ops-report/internal/render"
	"github.com/sells-group/ops-report/internal/report"
	"github.com/sells-group/ops-report/pkg/hubspot"
	"github.com/sells-group/ops-report/pkg/slack"
)

func initHubSpot(c *config.Config) hubspot.Client {
	return hubspot.NewClient(c.HubSpot.Token,
		hubspot.WithBaseURL(c.HubSpot.BaseURL),
		hubspot.WithObjectType(c.HubSpot.ObjectType),
		hubspot.WithRateLimit(c.HubSpot.RateLimit),
	)
}

// initSource returns nil when no CRM token is configured.
func initSource(c *config.Config) report.MetricsSource {
	if !c.HasHubSpot() {
		return nil
	}
	return report.NewAggregator(initHubSpot(c), c.PipelineHint(),
		report.WithFaultTolerant(c.Report.FaultTolerant),
		report.WithCountOptions(hubspot.WithMaxPages(c.HubSpot.MaxPages)),
	)
}

func initPublisher(c *config.Config) slack.Publisher {
	var opts []slack.Option
	if c.Slack.APIURL != "" {
		opts = append(opts, slack.WithAPIURL(c.Slack.APIURL))
	}
	return slack.NewPublisher(c.Slack.Token, opts...)
}

func initComposer(c *config.Config, l *layout.Layout, debugLabels bool) *render.Composer {
	return render.NewComposer(l, render.Options{
		TemplatePath: c.Report.TemplatePath,
		FontPath:     c.Report.FontPath,
		FontSize:     c.Report.FontSize,
		DebugLabels:  debugLabels || c.Report.DebugLabels,
	})
}

// readSlots returns the slots text from path, or fallback when path is empty.
func readSlots(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "read slots file %s", path)
	}
	return strings.TrimSpace(string(data)), nil
}
