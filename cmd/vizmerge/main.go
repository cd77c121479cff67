package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vizmerge/cmd/vizmerge/ui"
	"vizmerge/internal/config"
	"vizmerge/internal/dashboard"
	"vizmerge/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.1.0"

var (
	// Global flags
	verbose bool
	cfgPath string

	// merge/watch flags
	outputPath string
	titleFlags []string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command. Running it bare executes the default
// merge from the configuration file (or the built-in defaults).
var rootCmd = &cobra.Command{
	Use:   "vizmerge",
	Short: "vizmerge - merge Vega-Lite chart files into one dashboard",
	Long: `vizmerge merges several standalone Vega-Lite chart HTML files into a
single dashboard page.

Each input file embeds a chart specification as "var spec = {...};" inside a
rendering template. vizmerge extracts each specification verbatim and writes
one combined page that declares and renders all of them side by side under
individual titles.

Run without arguments to merge the configured default set.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runMerge,
}

// mergeCmd merges the given chart files (or the configured defaults).
var mergeCmd = &cobra.Command{
	Use:   "merge [chart.html...]",
	Short: "Merge chart files into one dashboard page",
	Long: `Merges the given chart HTML files into one dashboard document.

Without positional arguments the input list comes from the configuration.
Titles are applied positionally; missing titles fall back to sequential
names, excess titles are ignored. A missing input file is a per-file
warning, not a failure: its slot renders as an empty chart.

Examples:
  vizmerge merge a.html b.html -o dashboard.html
  vizmerge merge a.html b.html -t "Spending" -t "Geography"`,
	RunE: runMerge,
}

// watchCmd merges once, then re-merges whenever an input changes.
var watchCmd = &cobra.Command{
	Use:   "watch [chart.html...]",
	Short: "Merge, then re-merge whenever an input file changes",
	RunE:  runWatch,
}

// statusCmd shows the effective configuration.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the effective vizmerge configuration",
	RunE:  showStatus,
}

// versionCmd prints the version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vizmerge version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vizmerge %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default: vizmerge.yaml, or VIZMERGE_CONFIG)")

	for _, cmd := range []*cobra.Command{mergeCmd, watchCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default from config)")
		cmd.Flags().StringArrayVarP(&titleFlags, "title", "t", nil, "Visualization title, repeatable, applied in order")
	}

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file path and loads it over the defaults.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = os.Getenv("VIZMERGE_CONFIG")
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRun combines config and flags into the effective run parameters.
// Positional inputs override the configured list; when they do, configured
// titles no longer line up and only explicit -t titles apply.
func resolveRun(cfg *config.Config, args []string) (inputs []string, output string, titles []string) {
	inputs = cfg.Inputs
	titles = cfg.Titles
	if len(args) > 0 {
		inputs = args
		titles = nil
	}
	if len(titleFlags) > 0 {
		titles = titleFlags
	}
	output = cfg.Output
	if outputPath != "" {
		output = outputPath
	}
	return inputs, output, titles
}

func composerFor(cfg *config.Config) *dashboard.Composer {
	return dashboard.New(dashboard.Options{
		HeadTitle: cfg.Page.Title,
		Heading:   cfg.Page.Heading,
		Subtitle:  cfg.Page.Subtitle,
		Footer:    cfg.Page.Footer,
		Status:    os.Stdout,
	})
}

// runMerge executes one merge.
func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inputs, output, titles := resolveRun(cfg, args)

	logger.Debug("merging",
		zap.Strings("inputs", inputs),
		zap.String("output", output))

	return composerFor(cfg).Merge(inputs, output, titles)
}

// runWatch merges once, then re-merges on every settled input change until
// interrupted.
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inputs, output, titles := resolveRun(cfg, args)
	composer := composerFor(cfg)

	if err := composer.Merge(inputs, output, titles); err != nil {
		return err
	}

	w, err := watch.New(inputs, func() error {
		return composer.Merge(inputs, output, titles)
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.Start(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	styles := ui.DefaultStyles()
	fmt.Println(styles.Info.Render(fmt.Sprintf("watching %d input(s), session %s", len(inputs), w.SessionID())))
	fmt.Println(styles.Muted.Render("Press Ctrl+C to stop"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	w.Stop()

	stats := w.GetStats()
	fmt.Printf("\n%s\n", styles.Muted.Render(
		fmt.Sprintf("events: %d, merges: %d, errors: %d",
			stats.EventsSeen, stats.MergesTriggered, stats.Errors)))
	return nil
}

// showStatus displays the effective configuration.
func showStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	styles := ui.DefaultStyles()

	fmt.Println(styles.Title.Render("vizmerge " + version))
	fmt.Println()

	titles := dashboard.ReconcileTitles(cfg.Titles, len(cfg.Inputs))
	fmt.Printf("Inputs (%d):\n", len(cfg.Inputs))
	for i, in := range cfg.Inputs {
		mark := styles.Success.Render("✓")
		if _, err := os.Stat(in); err != nil {
			mark = styles.Warning.Render("✗")
		}
		fmt.Printf("  %s %s — %s\n", mark, in, styles.Muted.Render(titles[i]))
	}

	fmt.Printf("Output: %s\n", cfg.Output)
	fmt.Printf("Page:   %s\n", cfg.Page.Heading)
	return nil
}
