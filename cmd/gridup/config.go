package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdxmph/gridup/pkg/config"
)

func configShowCommand(cmd *cobra.Command, args []string) {
	if err := configShow(); err != nil {
		fail(err)
	}
}

func configSetCommand(cmd *cobra.Command, args []string) {
	if err := configSet(args[0], args[1]); err != nil {
		fail(err)
	}
}

func configExportCommand(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}
	if err := printJSON(cfg.GitHub.Export()); err != nil {
		fail(err)
	}
}

func configImportCommand(cmd *cobra.Command, args []string) {
	if err := configImport(args[0]); err != nil {
		fail(err)
	}
}

func configShow() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration (%s):\n", cfg.Path())
	fmt.Printf("  GitHub:\n")
	fmt.Printf("    Owner: %s\n", cfg.GitHub.Owner)
	fmt.Printf("    Repo: %s\n", cfg.GitHub.Repo)
	fmt.Printf("    Branch: %s\n", cfg.GitHub.Branch)
	fmt.Printf("    Path Prefix: %s\n", cfg.GitHub.EffectivePathPrefix())
	fmt.Printf("    Token: %s\n", maskString(cfg.GitHub.Token))

	fmt.Printf("\n  Layout:\n")
	fmt.Printf("    Columns: %d\n", cfg.Layout.Columns)
	fmt.Printf("    Container Width: %d\n", cfg.Layout.ContainerWidth)
	fmt.Printf("    Gap: %d\n", cfg.Layout.GapPx)
	fmt.Printf("    Padding: %d\n", cfg.Layout.Padding)
	fmt.Printf("    Site: %s\n", cfg.Layout.SiteID)

	fmt.Printf("\n  Upload:\n")
	fmt.Printf("    Max Edge: %d\n", cfg.Upload.MaxEdge)
	fmt.Printf("    Duplicate Check: %t\n", cfg.Upload.DuplicateCheck)

	fmt.Printf("\n  Templates:\n")
	names := make([]string, 0, len(cfg.Templates))
	for name := range cfg.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		// Truncate long templates for display
		display := cfg.Templates[name]
		if len(display) > 60 {
			display = display[:57] + "..."
		}
		fmt.Printf("    %s: %s\n", name, display)
	}

	return nil
}

func configSet(key, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if key == "github.token" {
		value = maskString(value)
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func configImport(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var in config.GitHubConfig
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.GitHub.Import(in)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Imported repository settings for %s/%s\n", cfg.GitHub.Owner, cfg.GitHub.Repo)
	return nil
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
