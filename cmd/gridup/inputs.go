package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdxmph/gridup/pkg/config"
	"github.com/pdxmph/gridup/pkg/duplicate"
	"github.com/pdxmph/gridup/pkg/github"
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/types"
	"github.com/pdxmph/gridup/pkg/upload"
)

// loadImages expands arguments into images, keeping argument order.
// Manifests contribute their listed images, directories their image
// files, and any other path is probed as a local image.
func loadImages(args []string, logger logrus.FieldLogger) ([]media.Image, error) {
	images := []media.Image{}
	warn := func(path string, err error) {
		logger.WithError(err).WithField("file", filepath.Base(path)).Warn("could not read image size")
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("file not found: %s", arg)
		}

		switch {
		case info.IsDir():
			paths, err := media.ScanDir(arg)
			if err != nil {
				return nil, err
			}
			images = append(images, media.ProbeAll(paths, warn)...)
		case types.IsManifestFile(arg):
			m, err := types.LoadManifest(arg)
			if err != nil {
				return nil, err
			}
			images = append(images, m.Images...)
		default:
			images = append(images, media.ProbeAll([]string{arg}, warn)...)
		}
	}
	return images, nil
}

// newUploadService wires the GitHub client and the upload cache
func newUploadService(cfg *config.Config, logger logrus.FieldLogger) (*upload.Service, func(), error) {
	client := github.NewClient(cfg.GitHub, logger)

	if !cfg.Upload.DuplicateCheck {
		return upload.New(cfg, client, nil, logger), func() {}, nil
	}

	cache, err := duplicate.NewSQLiteCache(duplicate.CachePath(filepath.Dir(cfg.Path())))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload cache: %w", err)
	}
	return upload.New(cfg, client, cache, logger), func() { cache.Close() }, nil
}

// uploadLocal uploads every local image without a URL. Failures are
// logged and leave the image unchanged.
func uploadLocal(ctx context.Context, uploader upload.Uploader, images []media.Image, opts upload.Options, logger logrus.FieldLogger) []media.Image {
	out := make([]media.Image, len(images))
	copy(out, images)

	for i, img := range out {
		if img.Path == "" || img.URL != "" {
			continue
		}
		res, err := uploader.Upload(ctx, img.Path, opts)
		if err != nil {
			logger.WithError(err).WithField("file", filepath.Base(img.Path)).Error("upload failed")
			continue
		}
		if res.Duplicate {
			logger.WithField("file", filepath.Base(img.Path)).Info("already uploaded, reusing URL")
		}
		out[i] = res.Image
	}
	return out
}

// prepareImages gives every image a URL for layout. Local files are
// uploaded when uploader is set; anything left without a URL falls back to
// its file:// path so local previews still render.
func prepareImages(ctx context.Context, uploader upload.Uploader, images []media.Image, logger logrus.FieldLogger) []media.Image {
	if uploader != nil {
		images = uploadLocal(ctx, uploader, images, upload.Options{Format: "url"}, logger)
	}
	return media.LocalURLs(images)
}
