// Package github uploads files to a repository through the contents API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdxmph/gridup/pkg/config"
)

const (
	defaultAPIURL = "https://api.github.com"
	apiVersion    = "2022-11-28"
)

var (
	// ErrMissingRepo means owner or repository is not configured
	ErrMissingRepo = errors.New("github owner and repo must be configured")

	// ErrMissingToken means no access token is configured
	ErrMissingToken = errors.New("uploading to GitHub requires a token")
)

// RemoteError is a non-success response from the API. Error returns the
// API's message verbatim when one was sent.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "upload failed"
}

// UploadResult identifies an uploaded file
type UploadResult struct {
	Repo string // Resolved repository name
	Path string // Path inside the repository
}

// Client uploads files to the repository described by its config
type Client struct {
	Config     config.GitHubConfig
	APIURL     string
	HTTPClient *http.Client

	log logrus.FieldLogger
}

// NewClient creates a client for cfg
func NewClient(cfg config.GitHubConfig, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		Config:     cfg,
		APIURL:     defaultAPIURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

// Upload stores content at path. The repository name is resolved once
// per call, so range syntax picks a new mirror for each upload.
func (c *Client) Upload(ctx context.Context, content io.Reader, path string) (*UploadResult, error) {
	owner := strings.TrimSpace(c.Config.Owner)
	repo := c.Config.ResolveRepoName()
	token := strings.TrimSpace(c.Config.Token)

	if owner == "" || repo == "" {
		return nil, ErrMissingRepo
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	branch := strings.TrimSpace(c.Config.Branch)
	if branch == "" {
		branch = "main"
	}
	path = strings.TrimLeft(path, "/")

	body, err := json.Marshal(map[string]string{
		"message": "upload " + path,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  branch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s", strings.TrimRight(c.APIURL, "/"), owner, repo, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	c.log.WithFields(logrus.Fields{"repo": owner + "/" + repo, "path": path, "bytes": len(data)}).Debug("uploading to github")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	var result struct {
		Content *struct {
			Path string `json:"path"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}

	out := &UploadResult{Repo: repo, Path: path}
	if result.Content != nil && result.Content.Path != "" {
		out.Path = result.Content.Path
	}
	return out, nil
}
