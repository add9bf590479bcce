package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdxmph/gridup/pkg/types"
	"github.com/pdxmph/gridup/pkg/upload"
)

func uploadCommand(cmd *cobra.Command, args []string) {
	if err := uploadImages(args); err != nil {
		fail(err)
	}
}

func uploadImages(paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, closeCache, err := newUploadService(cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := upload.Options{Format: outputFormat, Alt: altText, Force: force}
	_, results, errs := svc.UploadAll(ctx, paths, opts)

	resp := types.BatchUploadResponse{Success: true, Uploads: make([]types.UploadResult, 0, len(paths))}
	for i, p := range paths {
		entry := types.UploadResult{Path: p, Error: types.ErrorString(errs[i])}
		if errs[i] != nil {
			resp.Success = false
			log.WithError(errs[i]).WithField("file", p).Error("upload failed")
		} else {
			res := results[i]
			entry.URL = res.Image.URL
			entry.Repo = res.Image.Repo
			entry.RemotePath = res.RemotePath
			entry.Width = res.Image.Width
			entry.Height = res.Image.Height
			entry.Output = res.FormattedOutput
			entry.Duplicate = res.Duplicate
			entry.Supersedes = res.Supersedes
		}
		resp.Uploads = append(resp.Uploads, entry)
	}

	if jsonOutput {
		if err := printJSON(resp); err != nil {
			return err
		}
	} else {
		for _, u := range resp.Uploads {
			if u.Error == nil {
				fmt.Println(u.Output)
			}
		}
	}

	if !resp.Success {
		return fmt.Errorf("some uploads failed")
	}
	return nil
}
