package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/logging"
	"github.com/KaramelBytes/tabloom-cli/internal/session"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

var (
	// Global flags
	cfgFile      string
	flagLogLevel string
	flagMetrics  bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger   = hclog.NewNullLogger()
	registry *prometheus.Registry
)

var rootCmd = &cobra.Command{
	Use:   "tabloom",
	Short: "Tabloom CLI: load, clean and summarize movie and crime datasets",
	Long: `Tabloom loads the movie-explorer and crime-dashboard datasets, applies the same
cleaning rules the dashboards rely on, and prints the dashboard aggregates as Markdown or JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if flagMetrics && registry != nil {
			writeMetrics(cmd.ErrOrStderr(), registry)
		}
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabloom/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: trace|debug|info|warn|error|off (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "print load and cache counters to stderr on exit")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so data commands still run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	level := cfg.LogLevel
	if rootCmd.PersistentFlags().Changed("log-level") {
		level = flagLogLevel
	}
	logger = logging.New("tabloom", level, os.Stderr)
	registry = prometheus.NewRegistry()
}

// currentConfig returns the loaded configuration with zero values replaced
// by their defaults.
func currentConfig() cfgpkg.Global {
	var c cfgpkg.Global
	if cfg != nil {
		c = *cfg
	}
	if c.CrimeFallbackPath == "" {
		c.CrimeFallbackPath = "crime.csv"
	}
	if c.EpicMinDuration == 0 {
		c.EpicMinDuration = 220
	}
	if c.SpotlightDirector == "" {
		c.SpotlightDirector = "Steven Spielberg"
	}
	if c.TopN == 0 {
		c.TopN = 10
	}
	if c.GenreTopN == 0 {
		c.GenreTopN = 15
	}
	if c.OffenseTopN == 0 {
		c.OffenseTopN = 15
	}
	if c.CacheMaxEntries == 0 {
		c.CacheMaxEntries = 1
	}
	return c
}

func newSession() *session.Session {
	c := currentConfig()
	reg := registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m, err := session.NewMetrics(reg)
	if err != nil {
		// collectors from an earlier command in the same process
		m, _ = session.NewMetrics(nil)
	}
	return session.NewSession(session.Config{
		CrimeFallbackPath:  c.CrimeFallbackPath,
		MaxEntries:         c.CacheMaxEntries,
		DefaultDescription: c.DefaultDescription,
	}, logger, m)
}

// emit writes a report to --output when set, otherwise to stdout.
func emit(cmd *cobra.Command, outputPath string, content string, what string) error {
	if outputPath != "" {
		if err := utils.SafeWriteFile(outputPath, []byte(content)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", what, outputPath)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), content)
	return nil
}

// render picks JSON or Markdown output.
func render(asJSON bool, v any, markdown func() string) (string, error) {
	if !asJSON {
		return markdown(), nil
	}
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(b), nil
}

func writeMetrics(w io.Writer, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("gather metrics", "error", err)
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%gs", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
