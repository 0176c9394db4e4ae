package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mclantax/content-pipeline/pkg/config"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	keyStyle     = lipgloss.NewStyle().Width(22).Foreground(lipgloss.Color("245"))
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, settings.yaml and environment
overrides are applied. Secrets are never printed, only whether each
provider runs live or in mock mode.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	printConfig(cmd.OutOrStdout(), appConfig)
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	row := func(key string, value any) {
		fmt.Fprintf(out, "  %s %v\n", keyStyle.Render(key), value)
	}
	section := func(name string) {
		fmt.Fprintln(out, sectionStyle.Render(name))
	}

	fmt.Fprintln(out, titleStyle.Render("Content Pipeline configuration"))

	section("Brand")
	row("name", cfg.Brand.Name)
	row("handle", cfg.Brand.Handle)
	row("posts per day", cfg.Brand.PostsPerDay)

	section("Pipeline")
	row("platforms", strings.Join(cfg.Pipeline.Platforms, ", "))
	row("topics", strings.Join(cfg.Pipeline.ContentTopics, ", "))
	row("trend query", cfg.Pipeline.TrendQuery)
	row("duration", fmt.Sprintf("%.0fs - %.0fs", cfg.Pipeline.MinDuration, cfg.Pipeline.MaxDuration))
	row("voice", cfg.Pipeline.DefaultVoice)
	row("visual", cfg.Pipeline.DefaultVisual)
	row("caption style", cfg.Pipeline.DefaultCaptionStyle)
	row("hold for review", cfg.Publishing.HoldForReview)

	section("Providers")
	p := cfg.Providers
	row("llm ("+p.LLM.Provider+")", providerStatus(p.HasLLM()))
	row("heldra", providerStatus(p.HasHeldra()))
	row("serpapi", providerStatus(p.HasSerpAPI()))
	for _, platform := range cfg.Pipeline.Platforms {
		row(platform, providerStatus(p.HasPlatform(platform)))
	}

	section("Storage")
	row("review store", cfg.Store.Backend)
	if cfg.Store.Backend == "json" {
		row("json path", cfg.Store.JSONPath)
	}
	row("database", cfg.Database.Driver)
	row("cache", cfg.Cache.Backend)
	row("media", cfg.Storage.Backend)

	section("Server")
	row("address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	row("tracing", cfg.Monitoring.TracingEnabled)

	if missing := p.MissingKeys(); len(missing) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, warnStyle.Render("Demo mode, missing: "+strings.Join(missing, ", ")))
	}
}

func providerStatus(live bool) string {
	if live {
		return successStyle.Render("live")
	}
	return warnStyle.Render("mock")
}
