package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdxmph/gridup/pkg/clipboard"
	"github.com/pdxmph/gridup/pkg/layout"
	"github.com/pdxmph/gridup/pkg/preview"
	"github.com/pdxmph/gridup/pkg/resolution"
	"github.com/pdxmph/gridup/pkg/types"
	"github.com/pdxmph/gridup/pkg/upload"
)

func groupsCommand(cmd *cobra.Command, args []string) {
	if err := showGroups(args); err != nil {
		fail(err)
	}
}

func showGroups(args []string) error {
	images, err := loadImages(args, log)
	if err != nil {
		return err
	}
	groups := resolution.ComputeGroups(images)
	auto := resolution.AutoSelectNew(images, resolution.DeselectAll())

	if jsonOutput {
		return printJSON(types.GroupsResponse{
			Groups:   types.SummarizeGroups(groups),
			Selected: auto.Keys(),
		})
	}

	if len(groups) == 0 {
		fmt.Println("No images")
		return nil
	}
	for _, g := range groups {
		marker := " "
		if auto.Has(g.Key) {
			marker = "*"
		}
		fmt.Printf("%s %-12s %3d image(s)\n", marker, g.Key, len(g.Images))
		for _, img := range g.Images {
			fmt.Printf("      %s\n", img.Name())
		}
	}
	return nil
}

func layoutCommand(cmd *cobra.Command, args []string) {
	if err := generateLayout(cmd, args); err != nil {
		fail(err)
	}
}

// layoutOptions starts from the configured defaults and applies the
// flags the user actually set
func layoutOptions(cmd *cobra.Command, base layout.Options) layout.Options {
	opts := base
	flags := cmd.Flags()
	if flags.Changed("columns") {
		opts.Columns = columns
	}
	if flags.Changed("width") {
		opts.ContainerWidth = width
	}
	if flags.Changed("gap") {
		opts.GapPx = gap
	}
	if flags.Changed("padding") {
		opts.Padding = padding
	}
	if flags.Changed("site") {
		opts.SiteID = siteID
	}
	return opts.Normalize()
}

func generateLayout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images, err := loadImages(args, log)
	if err != nil {
		return err
	}

	var uploader upload.Uploader
	if uploadFirst {
		svc, closeCache, err := newUploadService(cfg, log)
		if err != nil {
			return err
		}
		defer closeCache()
		uploader = svc
	}
	images = prepareImages(ctx, uploader, images, log)

	groups := resolution.ComputeGroups(images)
	sel := selectFlag.resolve(groups)
	selected := resolution.FilterBySelection(images, sel)
	opts := layoutOptions(cmd, cfg.Layout)

	markup := layout.Generate(selected, opts)
	if sanitize {
		markup = layout.Sanitize(markup)
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(markup), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		log.WithField("path", outFile).Info("wrote layout")
	}

	if showPreview && markup != "" {
		path, err := preview.WriteFile("gridup layout", opts.ContainerWidth, markup)
		if err != nil {
			return err
		}
		if err := preview.OpenBrowser("file://" + filepath.ToSlash(path)); err != nil {
			log.WithError(err).WithField("path", path).Warn("could not open browser")
		}
	}

	resp := types.LayoutResponse{
		HTML:     markup,
		Options:  opts,
		Selected: sel.Keys(),
		Images:   selected,
		Rows:     len(layout.Plan(selected, opts).Rows),
	}

	if copyResult {
		writer := clipboard.NewSystem(log)
		resp.Copied = writer.CopyMarkup(ctx, markup)
		if !resp.Copied {
			resp.CopyError = types.ErrorString(writer.Status().LastError)
			log.WithError(writer.Status().LastError).Error("failed to copy to clipboard")
		} else {
			log.Info("copied layout to clipboard")
		}
	}

	if jsonOutput {
		return printJSON(resp)
	}
	if outFile == "" {
		fmt.Println(markup)
	}
	if copyResult && !resp.Copied {
		return fmt.Errorf("copy failed")
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
