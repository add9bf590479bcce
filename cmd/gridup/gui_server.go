package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdxmph/gridup/pkg/clipboard"
	"github.com/pdxmph/gridup/pkg/gui"
)

func guiServerCommand(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}

	// Create upload service
	uploader, closeCache, err := newUploadService(cfg, log)
	if err != nil {
		fail(err)
	}
	defer closeCache()

	// Create server
	server := gui.NewServer(os.Stdin, os.Stdout, cfg, uploader, clipboard.NewSystem(log), log)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run server
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("server error")
		closeCache()
		os.Exit(1)
	}
}
