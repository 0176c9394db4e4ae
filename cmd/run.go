package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/captions"
	"github.com/mclantax/content-pipeline/internal/services/pipeline"
	"github.com/mclantax/content-pipeline/pkg/config"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the content pipeline",
	Long: `Run the six pipeline stages in-process and store each video for review.

A batch keeps going after a failed video and reports every outcome at the
end. The command fails only when no video in the batch succeeded.

Example:
  content-pipeline run --demo
  content-pipeline run --batch 3 --voice toddler --visual cartoon
  content-pipeline run --query "tax deadline memes" --auto-approve`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("batch", 1, "number of videos to generate")
	runCmd.Flags().Bool("demo", false, "force mock mode for every provider")
	runCmd.Flags().String("query", "", "trend search query (overrides config)")
	runCmd.Flags().String("voice", "", "voice style: baby, toddler or narrator")
	runCmd.Flags().String("visual", "", "visual style: cute_baby, cartoon or nursery")
	runCmd.Flags().String("caption-style", "", "caption style: "+strings.Join(captions.StyleNames(), " or "))
	runCmd.Flags().Bool("auto-approve", false, "approve and publish each video right away")
}

// runOutcome is the result of one video in a batch
type runOutcome struct {
	index  int
	video  *models.VideoRecord
	report models.PublishReport
	err    error
}

func runPipeline(cmd *cobra.Command, args []string) error {
	batch, _ := cmd.Flags().GetInt("batch")
	if batch < 1 {
		return fmt.Errorf("--batch must be at least 1, got %d", batch)
	}
	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		config.Set("providers.mock", true)
	}
	if err := loadConfig(cmd); err != nil {
		return err
	}
	defer appLog.Sync()

	ctx := cmd.Context()
	app, err := newApp(ctx, appConfig, appLog, appOptions{})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()
	app.ReportMode()

	ro := pipeline.RunOptions{}
	ro.Query, _ = cmd.Flags().GetString("query")
	ro.Voice, _ = cmd.Flags().GetString("voice")
	ro.Visual, _ = cmd.Flags().GetString("visual")
	ro.CaptionStyle, _ = cmd.Flags().GetString("caption-style")
	if err := app.Pipeline.Validate(ro); err != nil {
		return err
	}
	autoApprove, _ := cmd.Flags().GetBool("auto-approve")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Content Pipeline (%s mode)", app.Mode())))

	outcomes := make([]runOutcome, 0, batch)
	for i := 1; i <= batch; i++ {
		o := runOutcome{index: i}
		fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("[%d/%d] generating video", i, batch)))

		res, err := app.Pipeline.Run(ctx, ro)
		if err != nil {
			o.err = err
			appLog.Error("Pipeline run failed", "run", i, "error", err)
			outcomes = append(outcomes, o)
			continue
		}

		record := res.Video
		if err := app.Videos.Create(ctx, &record); err != nil {
			o.err = err
			outcomes = append(outcomes, o)
			continue
		}
		o.video = &record
		o.report = res.Report

		if autoApprove && record.Status == models.VideoStatusPending {
			approved, err := app.Videos.Approve(ctx, record.ID)
			if err != nil {
				o.err = fmt.Errorf("approve %s: %w", record.ID, err)
			} else {
				o.video = approved.Video
				o.report = approved.Report
			}
		}
		outcomes = append(outcomes, o)
	}

	failed := printOutcomes(out, outcomes)
	if failed == len(outcomes) {
		return fmt.Errorf("all %d pipeline runs failed", failed)
	}
	return nil
}

// printOutcomes writes a summary line per run and returns how many failed
func printOutcomes(out io.Writer, outcomes []runOutcome) int {
	failed := 0
	fmt.Fprintln(out)
	for _, o := range outcomes {
		switch {
		case o.err != nil && o.video == nil:
			failed++
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("✗ run %d failed: %v", o.index, o.err)))
		case o.err != nil:
			fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("! run %d stored %s but approval failed: %v", o.index, o.video.ID, o.err)))
		default:
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ run %d: %s", o.index, o.video.Trend)))
			fmt.Fprintf(out, "    id:     %s\n", o.video.ID)
			fmt.Fprintf(out, "    status: %s\n", o.video.Status)
			fmt.Fprintf(out, "    video:  %s\n", o.video.VideoURL)
			for _, r := range o.report.Results {
				line := fmt.Sprintf("    %-15s %s", r.Platform, r.Status)
				if r.URL != "" {
					line += " " + r.URL
				}
				if r.Error != "" {
					line += " (" + r.Error + ")"
				}
				fmt.Fprintln(out, line)
			}
		}
	}
	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("%d succeeded, %d failed", len(outcomes)-failed, failed)))
	return failed
}
