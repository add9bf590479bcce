package gui

import (
	"time"

	"github.com/pdxmph/gridup/pkg/layout"
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/types"
)

// Message types
const (
	TypeRequest  = "request"
	TypeResponse = "response"
	TypeEvent    = "event"
)

// Commands
const (
	CmdPrepare = "prepare" // GUI → CLI: Here are my files
	CmdSelect  = "select"  // GUI → CLI: Toggle resolution groups
	CmdLayout  = "layout"  // GUI → CLI: Render the grid with these options
	CmdCopy    = "copy"    // GUI → CLI: Put the grid on the clipboard
	CmdUpload  = "upload"  // GUI → CLI: Push local files to GitHub
	CmdCancel  = "cancel"  // GUI → CLI: User hit Escape
)

// Event types
const (
	EventProgress = "progress"
	EventComplete = "complete"
	EventError    = "error"
)

// Error codes
const (
	CodeParseError      = "PARSE_ERROR"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeUnknownCommand  = "UNKNOWN_COMMAND"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeNoClipboard     = "NO_CLIPBOARD"
	CodeCopyFailed      = "COPY_FAILED"
	CodeBusy            = "BUSY"
)

// Message wraps all communication
type Message struct {
	Type    string      `json:"type"`    // request, response, event
	Command string      `json:"command"` // prepare, select, layout, copy, upload, cancel
	Data    interface{} `json:"data"`
	ID      string      `json:"id,omitempty"`
}

// PrepareRequest - Initial request from GUI with selected files and/or
// already hosted images
type PrepareRequest struct {
	Files  []string      `json:"files"`
	Images []media.Image `json:"images,omitempty"`
}

// PrepareResponse - Groups and the automatic selection for review
type PrepareResponse struct {
	SessionID string               `json:"sessionId"`
	Files     []FileInfo           `json:"files"`
	Groups    []types.GroupSummary `json:"groups"`
	Selected  []string             `json:"selected"`
	Options   layout.Options       `json:"options"`
	Sites     []string             `json:"sites"`
}

// FileInfo contains basic file information
type FileInfo struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`

	Thumbnail string `json:"thumbnail,omitempty"` // data: URL
}

// SelectRequest changes the session's resolution selection. All and
// None win over Keys; with none of them set the selection is replaced
// by Keys.
type SelectRequest struct {
	SessionID string   `json:"sessionId"`
	Keys      []string `json:"keys"`
	All       bool     `json:"all,omitempty"`
	None      bool     `json:"none,omitempty"`
}

// SelectResponse reports the selection and how many images it covers
type SelectResponse struct {
	SessionID string   `json:"sessionId"`
	Selected  []string `json:"selected"`
	Count     int      `json:"count"`
}

// LayoutRequest renders the session's selected images. Nil Options keeps
// the session's current options.
type LayoutRequest struct {
	SessionID string          `json:"sessionId"`
	Options   *layout.Options `json:"options,omitempty"`
}

// LayoutResponse carries the generated markup
type LayoutResponse struct {
	SessionID string         `json:"sessionId"`
	HTML      string         `json:"html"`
	Preview   string         `json:"preview"` // HTML after the editor's sanitizer
	Options   layout.Options `json:"options"`
}

// CopyRequest copies HTML, or the session's last layout when HTML is empty
type CopyRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	HTML      string `json:"html,omitempty"`
}

// CopyResult reports the clipboard outcome
type CopyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// UploadRequest uploads the session's local files
type UploadRequest struct {
	SessionID string `json:"sessionId"`
	Format    string `json:"format"`
	Alt       string `json:"alt,omitempty"`
	Force     bool   `json:"force,omitempty"`
}

// ProgressEvent - Progress updates during upload
type ProgressEvent struct {
	SessionID string  `json:"sessionId"`
	FileIndex int     `json:"fileIndex"`
	FileName  string  `json:"fileName"`
	Progress  float64 `json:"progress"` // 0-100
	Status    string  `json:"status"`   // "uploading", "duplicate", "complete", "error", "cancelled"
	Message   string  `json:"message,omitempty"`
}

// UploadResult - Final result
type UploadResult struct {
	SessionID string               `json:"sessionId"`
	Success   bool                 `json:"success"`
	Outputs   []string             `json:"outputs"` // Formatted per requested format
	Files     []string             `json:"files"`   // Local paths for reference
	Groups    []types.GroupSummary `json:"groups"`  // Regrouped with uploaded URLs
	Error     string               `json:"error,omitempty"`
}

// CancelRequest - Cancel an in-progress upload
type CancelRequest struct {
	SessionID string `json:"sessionId"`
}

// ErrorResponse - Error response for any command
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // Error code for GUI handling
	Details string `json:"details,omitempty"` // Technical details
}
