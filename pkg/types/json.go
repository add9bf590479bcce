package types

import (
	"github.com/pdxmph/gridup/pkg/layout"
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/resolution"
)

// GroupsResponse is the JSON output of `gridup groups`
type GroupsResponse struct {
	Groups   []GroupSummary `json:"groups"`
	Selected []string       `json:"selected"` // Keys AutoSelectNew would pick
}

// GroupSummary describes one resolution group
type GroupSummary struct {
	Resolution string        `json:"resolution"`
	Width      uint          `json:"width"`
	Height     uint          `json:"height"`
	Count      int           `json:"count"`
	Images     []media.Image `json:"images"`
}

// SummarizeGroups converts computed groups into their output form
func SummarizeGroups(groups []resolution.Group) []GroupSummary {
	out := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupSummary{
			Resolution: g.Key,
			Width:      g.Width,
			Height:     g.Height,
			Count:      len(g.Images),
			Images:     g.Images,
		})
	}
	return out
}

// LayoutResponse is the JSON output of `gridup layout`
type LayoutResponse struct {
	HTML      string         `json:"html"`
	Options   layout.Options `json:"options"`
	Selected  []string       `json:"selected"`
	Images    []media.Image  `json:"images"` // Images placed in the grid, in input order
	Rows      int            `json:"rows"`
	Copied    bool           `json:"copied"`
	CopyError *string        `json:"copyError"`
}

// BatchUploadResponse represents the JSON output from batch uploads
type BatchUploadResponse struct {
	Success bool           `json:"success"`
	Uploads []UploadResult `json:"uploads"`
}

// UploadResult represents the result of a single image upload
type UploadResult struct {
	Path       string   `json:"path"`
	URL        string   `json:"url,omitempty"`
	Repo       string   `json:"repo,omitempty"`
	RemotePath string   `json:"remotePath,omitempty"`
	Width      uint     `json:"width,omitempty"`
	Height     uint     `json:"height,omitempty"`
	Output     string   `json:"output,omitempty"`     // Rendered template
	Duplicate  bool     `json:"duplicate"`
	Supersedes []string `json:"supersedes,omitempty"` // Earlier URLs for the same file name with other content
	Error      *string  `json:"error"`
}

// ErrorString returns a pointer to err's message, or nil
func ErrorString(err error) *string {
	if err == nil {
		return nil
	}
	s := err.Error()
	return &s
}
