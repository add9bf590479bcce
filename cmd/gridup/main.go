package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdxmph/gridup/pkg/config"
	"github.com/pdxmph/gridup/pkg/layout"
)

var (
	// Version information (set by ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"

	// Layout flags
	selectFlag  selectionFlag
	columns     int
	width       int
	gap         int
	padding     int
	siteID      string
	uploadFirst bool
	sanitize    bool
	copyResult  bool
	outFile     string
	jsonOutput  bool
	showPreview bool

	// Upload flags
	altText      string
	outputFormat string
	force        bool

	// Copy flags
	plainText bool

	log = newLogger()
)

func main() {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   "gridup",
		Short: "Image grid builder for the WeChat editor",
		Long: `gridup - groups images by resolution, lays them out as an HTML grid
for the WeChat official-account editor, uploads local files to a GitHub
repository served through jsDelivr and copies the result to the clipboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			// Show help if no subcommand is provided
			return cmd.Help()
		},
	}

	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "version for gridup")

	// Groups command
	groupsCmd := &cobra.Command{
		Use:   "groups [files|dirs|manifest]",
		Short: "List images grouped by resolution",
		Args:  cobra.MinimumNArgs(1),
		Run:   groupsCommand,
	}
	groupsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")

	// Layout command
	layoutCmd := &cobra.Command{
		Use:   "layout [files|dirs|manifest]",
		Short: "Generate grid HTML for the selected resolutions",
		Args:  cobra.MinimumNArgs(1),
		Run:   layoutCommand,
	}
	defaults := layout.DefaultOptions()
	layoutCmd.Flags().Var(&selectFlag, "select", "Comma-separated resolutions to include, e.g. 1080x1080,800x600 (default all)")
	layoutCmd.Flags().IntVar(&columns, "columns", defaults.Columns, "Columns per row (1-6)")
	layoutCmd.Flags().IntVar(&width, "width", defaults.ContainerWidth, "Container width in pixels")
	layoutCmd.Flags().IntVar(&gap, "gap", defaults.GapPx, "Gap between cells in pixels")
	layoutCmd.Flags().IntVar(&padding, "padding", defaults.Padding, "Container padding in pixels")
	layoutCmd.Flags().StringVar(&siteID, "site", defaults.SiteID, "Target editor")
	layoutCmd.Flags().BoolVar(&uploadFirst, "upload", false, "Upload local files to GitHub first")
	layoutCmd.Flags().BoolVar(&sanitize, "sanitize", false, "Print what survives the editor's sanitizer")
	layoutCmd.Flags().BoolVar(&copyResult, "copy", false, "Copy the HTML to the clipboard")
	layoutCmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the HTML to a file")
	layoutCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	layoutCmd.Flags().BoolVar(&showPreview, "preview", false, "Open the grid in the default browser")

	// Upload command
	uploadCmd := &cobra.Command{
		Use:   "upload [images...]",
		Short: "Upload images to GitHub",
		Args:  cobra.MinimumNArgs(1),
		Run:   uploadCommand,
	}
	uploadCmd.Flags().StringVar(&altText, "alt", "", "Alt text for accessibility")
	uploadCmd.Flags().StringVar(&outputFormat, "format", "url", "Output format: url, markdown, html, json or a custom template name")
	uploadCmd.Flags().BoolVar(&force, "force", false, "Upload even if the file was uploaded before")
	uploadCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")

	// Copy command
	copyCmd := &cobra.Command{
		Use:   "copy [file]",
		Short: "Copy HTML from a file or stdin to the clipboard",
		Args:  cobra.MaximumNArgs(1),
		Run:   copyCommand,
	}
	copyCmd.Flags().BoolVar(&plainText, "text", false, "Copy as plain text only")

	// Watch command
	watchCmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate the grid whenever a folder changes",
		Args:  cobra.ExactArgs(1),
		Run:   watchCommand,
	}
	watchCmd.Flags().IntVar(&columns, "columns", defaults.Columns, "Columns per row (1-6)")
	watchCmd.Flags().IntVar(&width, "width", defaults.ContainerWidth, "Container width in pixels")
	watchCmd.Flags().IntVar(&gap, "gap", defaults.GapPx, "Gap between cells in pixels")
	watchCmd.Flags().IntVar(&padding, "padding", defaults.Padding, "Container padding in pixels")
	watchCmd.Flags().StringVar(&siteID, "site", defaults.SiteID, "Target editor")
	watchCmd.Flags().BoolVar(&uploadFirst, "upload", false, "Upload new files to GitHub")
	watchCmd.Flags().BoolVar(&copyResult, "copy", false, "Copy the HTML to the clipboard after each change")
	watchCmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the HTML to a file after each change")

	// GUI server command
	guiServerCmd := &cobra.Command{
		Use:    "gui-server",
		Short:  "Serve the GUI protocol over stdin/stdout",
		Hidden: true,
		Args:   cobra.NoArgs,
		Run:    guiServerCommand,
	}

	// Config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show configuration",
		Run:   configShowCommand,
	}

	configSetCmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		Run:   configSetCommand,
	}

	configExportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the repository settings as JSON",
		Args:  cobra.NoArgs,
		Run:   configExportCommand,
	}

	configImportCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the repository settings from a JSON file",
		Args:  cobra.ExactArgs(1),
		Run:   configImportCommand,
	}

	configCmd.AddCommand(configShowCmd, configSetCmd, configExportCmd, configImportCmd)

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion()
		},
	}

	// Add commands to root
	rootCmd.AddCommand(groupsCmd, layoutCmd, uploadCmd, copyCmd, watchCmd, guiServerCmd, configCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("gridup version %s\n", version)
	if version != "dev" {
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if os.Getenv("GRIDUP_DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// fail prints err and exits
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadConfig loads the configuration, persisting a legacy migration
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Migrated() {
		if err := cfg.Save(); err != nil {
			log.WithError(err).Warn("failed to save migrated config")
		} else {
			log.WithField("path", cfg.Path()).Info("imported legacy GitHub token")
		}
	}
	return cfg, nil
}
