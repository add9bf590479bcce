package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdxmph/gridup/pkg/config"
	"github.com/pdxmph/gridup/pkg/duplicate"
	"github.com/pdxmph/gridup/pkg/github"
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/templates"
)

// Options for upload
type Options struct {
	Format string // Template name used for FormattedOutput
	Alt    string
	Force  bool // Upload even if the file was uploaded before
}

// Result of an upload
type Result struct {
	Image           media.Image // URL, Repo and dimensions of the hosted copy; Path is the local file
	RemotePath      string
	Duplicate       bool
	FormattedOutput string

	// Supersedes lists URLs of earlier uploads under the same file name
	// whose content differed, newest first
	Supersedes []string
}

// Remote stores file content at a repository path
type Remote interface {
	Upload(ctx context.Context, content io.Reader, path string) (*github.UploadResult, error)
}

// Uploader interface for GUI server
type Uploader interface {
	Upload(ctx context.Context, imagePath string, opts Options) (*Result, error)
}

// Service implements the Uploader interface
type Service struct {
	config *config.Config
	remote Remote
	cache  duplicate.Checker
	log    logrus.FieldLogger

	// newName returns the base name (without extension) for a remote file
	newName func() string
}

// New creates a new upload service. A nil cache disables duplicate checks.
func New(cfg *config.Config, remote Remote, cache duplicate.Checker, log logrus.FieldLogger) *Service {
	if cache == nil {
		cache = duplicate.NopChecker{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		config:  cfg,
		remote:  remote,
		cache:   cache,
		log:     log,
		newName: func() string { return uuid.New().String() },
	}
}

// Upload reads, optionally downscales and uploads one local image. The
// file is read once; the duplicate fingerprint covers those exact bytes.
func (s *Service) Upload(ctx context.Context, imagePath string, opts Options) (*Result, error) {
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", imagePath)
	}

	gh := s.config.GitHub
	if strings.TrimSpace(gh.Owner) == "" || strings.TrimSpace(gh.Repo) == "" {
		return nil, github.ErrMissingRepo
	}
	if strings.TrimSpace(gh.Token) == "" {
		return nil, github.ErrMissingToken
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	filename := filepath.Base(imagePath)
	sum := duplicate.Fingerprint(data)
	log := s.log.WithFields(logrus.Fields{"file": filename, "md5": sum})

	var supersedes []string
	if s.config.Upload.DuplicateCheck && !opts.Force {
		cached, err := s.cache.Check(ctx, gh.Owner, sum)
		if err != nil {
			log.WithError(err).Warn("duplicate check failed")
		} else if cached != nil {
			log.WithField("url", cached.URL).Debug("reusing earlier upload")
			img := media.Image{
				URL:    cached.URL,
				Width:  cached.Width,
				Height: cached.Height,
				Path:   imagePath,
				Repo:   cached.Repo,
			}
			return s.result(img, cached.Path, true, opts), nil
		}
		supersedes = s.earlierVersions(ctx, log, gh.Owner, filename, sum)
	}

	img, content, err := media.Downscale(data, imagePath, s.config.Upload.MaxEdge)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}
	if len(content) != len(data) {
		log.WithField("size", img.ResolutionKey()).Debug("downscaled before upload")
	}

	remotePath := path.Join(gh.EffectivePathPrefix(), s.newName()+strings.ToLower(filepath.Ext(imagePath)))
	resp, err := s.remote.Upload(ctx, bytes.NewReader(content), remotePath)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	img.Path = imagePath
	img.Repo = resp.Repo
	img.URL = gh.CDNURLForRepo(resp.Repo, resp.Path)

	if s.config.Upload.DuplicateCheck {
		err := s.cache.Record(ctx, &duplicate.Upload{
			FileMD5:    sum,
			Owner:      gh.Owner,
			Repo:       resp.Repo,
			Path:       resp.Path,
			URL:        img.URL,
			Width:      img.Width,
			Height:     img.Height,
			UploadTime: time.Now(),
			Filename:   filename,
			FileSize:   int64(len(data)),
		})
		if err != nil {
			log.WithError(err).Warn("failed to record upload")
		}
	}

	res := s.result(img, resp.Path, false, opts)
	res.Supersedes = supersedes
	return res, nil
}

// earlierVersions returns the URLs of earlier uploads that had the same
// file name but different content
func (s *Service) earlierVersions(ctx context.Context, log logrus.FieldLogger, owner, filename, sum string) []string {
	earlier, err := s.cache.FindByFilename(ctx, owner, filename)
	if err != nil {
		log.WithError(err).Warn("earlier upload lookup failed")
		return nil
	}

	var urls []string
	for _, u := range earlier {
		if u.FileMD5 != sum {
			urls = append(urls, u.URL)
		}
	}
	if len(urls) > 0 {
		log.WithField("previous", urls[0]).Info("file changed since it was last uploaded")
	}
	return urls
}

func (s *Service) result(img media.Image, remotePath string, dup bool, opts Options) *Result {
	vars := templates.BuildVariables(img, remotePath, opts.Alt)
	return &Result{
		Image:           img,
		RemotePath:      remotePath,
		Duplicate:       dup,
		FormattedOutput: templates.Render(s.config.Templates, opts.Format, vars),
	}
}

// UploadAll uploads paths in order. Images that fail keep their local
// path and probed dimensions with an empty URL; errs[i] is set for them.
func (s *Service) UploadAll(ctx context.Context, paths []string, opts Options) (images []media.Image, results []*Result, errs []error) {
	images = make([]media.Image, len(paths))
	results = make([]*Result, len(paths))
	errs = make([]error, len(paths))

	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			images[i], _ = media.Probe(p)
			continue
		}

		res, err := s.Upload(ctx, p, opts)
		if err != nil {
			errs[i] = err
			images[i], _ = media.Probe(p)
			continue
		}
		results[i] = res
		images[i] = res.Image
	}
	return images, results, errs
}
