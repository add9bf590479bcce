package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdxmph/gridup/pkg/clipboard"
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/watch"
)

func watchCommand(cmd *cobra.Command, args []string) {
	if err := watchFolder(cmd, args[0]); err != nil {
		fail(err)
	}
}

func watchFolder(cmd *cobra.Command, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w, err := watch.New(dir, layoutOptions(cmd, cfg.Layout), log)
	if err != nil {
		return err
	}

	if uploadFirst {
		svc, closeCache, err := newUploadService(cfg, log)
		if err != nil {
			return err
		}
		defer closeCache()
		// The upload cache keeps unchanged files from being pushed again
		w.Prepare = func(ctx context.Context, images []media.Image) []media.Image {
			return prepareImages(ctx, svc, images, log)
		}
	}

	var writer *clipboard.Writer
	if copyResult {
		writer = clipboard.NewSystem(log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	log.WithField("dir", dir).Info("watching for changes, press Ctrl-C to stop")
	for snap := range w.Snapshots() {
		log.WithFields(logrus.Fields{
			"images":   len(snap.Images),
			"groups":   len(snap.Groups),
			"selected": snap.Selection.String(),
		}).Info("layout updated")

		if outFile != "" {
			if err := os.WriteFile(outFile, []byte(snap.Markup), 0644); err != nil {
				log.WithError(err).Error("failed to write output")
			}
		} else {
			fmt.Println(snap.Markup)
		}

		if writer != nil && snap.Markup != "" {
			if !writer.CopyMarkup(ctx, snap.Markup) {
				log.WithError(writer.Status().LastError).Error("failed to copy to clipboard")
			}
		}
	}

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
