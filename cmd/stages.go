package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ops-report/internal/layout"
	"github.com/sells-group/ops-report/internal/report"
	"github.com/sells-group/ops-report/pkg/hubspot"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List pipeline stages and the report rows they feed",
	Long: `Resolves the configured ticket pipeline and prints every stage with its
normalized key and the report row it matches. Report rows with no matching
stage are listed at the end; they are reported as 0.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cfg.HasHubSpot() {
			return eris.Wrap(hubspot.ErrConfigurationMissing, "stages: hubspot.token is required")
		}
		lay, err := layout.Load(cfg.Report.LayoutPath)
		if err != nil {
			return err
		}

		p, err := hubspot.ResolvePipeline(cmd.Context(), initHubSpot(cfg), cfg.PipelineHint())
		if err != nil {
			return err
		}

		formatStages(cmd.OutOrStdout(), p, lay.Stages)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stagesCmd)
}

func formatStages(out io.Writer, p *hubspot.ResolvedPipeline, labels []string) {
	rows := make(map[string]string, len(labels))
	for _, l := range labels {
		rows[report.Normalize(l)] = l
	}
	idx := report.StageIndex(p)
	matched := make(map[string]bool, len(labels))

	_, _ = fmt.Fprintf(out, "Pipeline %s (%s)\n\n", p.Label, p.ID)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STAGE_ID\tLABEL\tKEY\tREPORT_ROW")
	_, _ = fmt.Fprintln(w, "--------\t-----\t---\t----------")

	for _, st := range p.Ordered {
		key := report.Normalize(st.Label)
		row, ok := rows[key]
		switch {
		case !ok:
			row = "-"
		case idx[key] != st.ID:
			row += " (shadowed)"
		default:
			matched[key] = true
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.ID, st.Label, key, row)
	}
	_ = w.Flush()

	var missing []string
	for _, l := range labels {
		if !matched[report.Normalize(l)] {
			missing = append(missing, l)
		}
	}
	if len(missing) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, "\nReport rows without a stage (reported as 0):")
	for _, l := range missing {
		_, _ = fmt.Fprintf(out, "  %s\n", l)
	}
}
