package gui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdxmph/gridup/pkg/clipboard"
	"github.com/pdxmph/gridup/pkg/config"
	"github.com/pdxmph/gridup/pkg/layout"
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/resolution"
	"github.com/pdxmph/gridup/pkg/types"
	"github.com/pdxmph/gridup/pkg/upload"
)

// Copier puts markup on the clipboard
type Copier interface {
	CopyMarkup(ctx context.Context, markup string) bool
	Status() clipboard.Status
}

// Server handles GUI protocol communication
type Server struct {
	input    io.Reader
	output   io.Writer
	encoder  *json.Encoder
	config   *config.Config
	uploader upload.Uploader
	copier   Copier
	composer *layout.Composer
	log      logrus.FieldLogger

	sendMu  sync.Mutex // guards encoder; uploads report from their own goroutines
	pending sync.WaitGroup

	// Session management
	sessions sync.Map // sessionID -> *Session
}

// Session holds the images a GUI window is working on
type Session struct {
	ID string

	mu        sync.Mutex
	images    []media.Image
	selection resolution.Selection
	options   layout.Options
	markup    string
	uploading bool
	cancel    context.CancelFunc
}

// NewServer creates a new GUI protocol server. uploader and copier may be
// nil, which disables the matching commands.
func NewServer(input io.Reader, output io.Writer, cfg *config.Config, uploader upload.Uploader, copier Copier, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		input:    input,
		output:   output,
		encoder:  json.NewEncoder(output),
		config:   cfg,
		uploader: uploader,
		copier:   copier,
		composer: layout.NewComposer(),
		log:      log,
	}
}

// Run starts the server loop. It returns at end of input once running
// uploads have finished.
func (s *Server) Run(ctx context.Context) error {
	defer s.pending.Wait()
	decoder := json.NewDecoder(s.input)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			var msg Message
			if err := decoder.Decode(&msg); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				s.sendError("", fmt.Sprintf("Invalid JSON: %v", err), CodeParseError)
				var typeErr *json.UnmarshalTypeError
				if errors.As(err, &typeErr) {
					continue
				}
				// The decoder cannot resynchronise after malformed input
				return fmt.Errorf("failed to decode message: %w", err)
			}

			s.handleMessage(ctx, &msg)
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (s *Server) handleMessage(ctx context.Context, msg *Message) {
	s.log.WithFields(logrus.Fields{"command": msg.Command, "id": msg.ID}).Debug("gui request")

	switch msg.Command {
	case CmdPrepare:
		s.handlePrepare(ctx, msg)
	case CmdSelect:
		s.handleSelect(ctx, msg)
	case CmdLayout:
		s.handleLayout(ctx, msg)
	case CmdCopy:
		s.handleCopy(ctx, msg)
	case CmdUpload:
		s.handleUpload(ctx, msg)
	case CmdCancel:
		s.handleCancel(ctx, msg)
	default:
		s.sendError(msg.ID, fmt.Sprintf("Unknown command: %s", msg.Command), CodeUnknownCommand)
	}
}

// handlePrepare probes the files and creates a session
func (s *Server) handlePrepare(ctx context.Context, msg *Message) {
	var req PrepareRequest
	if err := decodeData(msg.Data, &req); err != nil {
		s.sendError(msg.ID, "Invalid prepare request", CodeInvalidRequest)
		return
	}

	images := append([]media.Image{}, req.Images...)
	images = append(images, media.ProbeAll(req.Files, func(path string, err error) {
		s.log.WithError(err).WithField("file", filepath.Base(path)).Warn("could not read image size")
	})...)

	session := &Session{
		ID:        uuid.New().String(),
		images:    images,
		selection: resolution.AutoSelectNew(images, resolution.DeselectAll()),
		options:   s.config.Layout.Normalize(),
	}
	s.sessions.Store(session.ID, session)

	files := make([]FileInfo, 0, len(req.Files))
	for _, path := range req.Files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		thumb, err := media.Thumbnail(path, media.DefaultThumbnailSize)
		if err != nil {
			s.log.WithError(err).WithField("file", filepath.Base(path)).Debug("no thumbnail")
		}
		files = append(files, FileInfo{
			Path:      path,
			Name:      filepath.Base(path),
			Size:      info.Size(),
			Modified:  info.ModTime(),
			Thumbnail: thumb,
		})
	}

	s.sendResponse(msg.ID, PrepareResponse{
		SessionID: session.ID,
		Files:     files,
		Groups:    types.SummarizeGroups(resolution.ComputeGroups(images)),
		Selected:  session.selection.Keys(),
		Options:   session.options,
		Sites:     layout.Sites(),
	})
}

// handleSelect updates the resolution selection
func (s *Server) handleSelect(ctx context.Context, msg *Message) {
	var req SelectRequest
	if err := decodeData(msg.Data, &req); err != nil {
		s.sendError(msg.ID, "Invalid select request", CodeInvalidRequest)
		return
	}
	session, ok := s.session(msg.ID, req.SessionID)
	if !ok {
		return
	}

	session.mu.Lock()
	switch {
	case req.All:
		session.selection = resolution.SelectAll(resolution.ComputeGroups(session.images))
	case req.None:
		session.selection = resolution.DeselectAll()
	default:
		sel, err := resolution.ParseSelection(req.Keys)
		if err != nil {
			session.mu.Unlock()
			s.sendError(msg.ID, err.Error(), CodeInvalidRequest)
			return
		}
		session.selection = sel
	}
	resp := SelectResponse{
		SessionID: session.ID,
		Selected:  session.selection.Keys(),
		Count:     len(resolution.FilterBySelection(session.images, session.selection)),
	}
	session.mu.Unlock()

	s.sendResponse(msg.ID, resp)
}

// handleLayout renders the selected images
func (s *Server) handleLayout(ctx context.Context, msg *Message) {
	var req LayoutRequest
	if err := decodeData(msg.Data, &req); err != nil {
		s.sendError(msg.ID, "Invalid layout request", CodeInvalidRequest)
		return
	}
	session, ok := s.session(msg.ID, req.SessionID)
	if !ok {
		return
	}

	session.mu.Lock()
	if req.Options != nil {
		session.options = req.Options.Normalize()
	}
	selected := resolution.FilterBySelection(session.images, session.selection)
	session.markup = s.composer.Generate(selected, session.options)
	resp := LayoutResponse{
		SessionID: session.ID,
		HTML:      session.markup,
		Preview:   layout.Sanitize(session.markup),
		Options:   session.options,
	}
	session.mu.Unlock()

	s.sendResponse(msg.ID, resp)
}

// handleCopy runs the clipboard chain
func (s *Server) handleCopy(ctx context.Context, msg *Message) {
	var req CopyRequest
	if err := decodeData(msg.Data, &req); err != nil {
		s.sendError(msg.ID, "Invalid copy request", CodeInvalidRequest)
		return
	}
	if s.copier == nil {
		s.sendError(msg.ID, "Clipboard is not available", CodeNoClipboard)
		return
	}

	markup := req.HTML
	if markup == "" && req.SessionID != "" {
		session, ok := s.session(msg.ID, req.SessionID)
		if !ok {
			return
		}
		session.mu.Lock()
		markup = session.markup
		session.mu.Unlock()
	}
	if markup == "" {
		s.sendError(msg.ID, "Nothing to copy", CodeInvalidRequest)
		return
	}

	if s.copier.CopyMarkup(ctx, markup) {
		s.sendResponse(msg.ID, CopyResult{Success: true})
		return
	}

	result := CopyResult{Error: "copy failed"}
	if err := s.copier.Status().LastError; err != nil {
		result.Error = err.Error()
	}
	s.sendResponse(msg.ID, result)
}

// handleUpload starts uploading the session's local files
func (s *Server) handleUpload(ctx context.Context, msg *Message) {
	var req UploadRequest
	if err := decodeData(msg.Data, &req); err != nil {
		s.sendError(msg.ID, "Invalid upload request", CodeInvalidRequest)
		return
	}
	if s.uploader == nil {
		s.sendError(msg.ID, "Uploading is not configured", CodeInvalidRequest)
		return
	}
	session, ok := s.session(msg.ID, req.SessionID)
	if !ok {
		return
	}

	session.mu.Lock()
	if session.uploading {
		session.mu.Unlock()
		s.sendError(msg.ID, "Upload already in progress", CodeBusy)
		return
	}
	uploadCtx, cancel := context.WithCancel(ctx)
	session.uploading = true
	session.cancel = cancel
	session.mu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		s.performUpload(uploadCtx, session, &req, msg.ID)
	}()
}

// performUpload uploads every local image that has no URL yet (all local
// images when forced), replacing it in the session with the hosted copy
func (s *Server) performUpload(ctx context.Context, session *Session, req *UploadRequest, messageID string) {
	session.mu.Lock()
	images := append([]media.Image{}, session.images...)
	session.mu.Unlock()

	var (
		outputs []string
		files   []string
		failed  int
	)
	opts := upload.Options{Format: req.Format, Alt: req.Alt, Force: req.Force}

	for i, img := range images {
		if img.Path == "" || (img.URL != "" && !req.Force) {
			continue
		}
		name := filepath.Base(img.Path)
		files = append(files, img.Path)

		if ctx.Err() != nil {
			s.sendEvent(EventError, ProgressEvent{
				SessionID: session.ID,
				FileIndex: i,
				FileName:  name,
				Status:    "cancelled",
				Message:   "Upload cancelled",
			})
			break
		}

		s.sendEvent(EventProgress, ProgressEvent{
			SessionID: session.ID,
			FileIndex: i,
			FileName:  name,
			Progress:  30,
			Status:    "uploading",
			Message:   "Uploading to GitHub",
		})

		result, err := s.uploader.Upload(ctx, img.Path, opts)
		if err != nil {
			failed++
			s.sendEvent(EventError, ProgressEvent{
				SessionID: session.ID,
				FileIndex: i,
				FileName:  name,
				Status:    "error",
				Message:   err.Error(),
			})
			continue
		}

		images[i] = result.Image
		outputs = append(outputs, result.FormattedOutput)

		status := "complete"
		if result.Duplicate {
			status = "duplicate"
		}
		s.sendEvent(EventProgress, ProgressEvent{
			SessionID: session.ID,
			FileIndex: i,
			FileName:  name,
			Progress:  100,
			Status:    status,
		})
	}

	session.mu.Lock()
	session.images = images
	session.selection = resolution.AutoSelectNew(images, session.selection)
	session.uploading = false
	session.cancel = nil
	session.mu.Unlock()

	result := UploadResult{
		SessionID: session.ID,
		Success:   failed == 0 && ctx.Err() == nil,
		Outputs:   outputs,
		Files:     files,
		Groups:    types.SummarizeGroups(resolution.ComputeGroups(images)),
	}
	if ctx.Err() != nil {
		result.Error = "upload cancelled"
	} else if failed > 0 {
		result.Error = fmt.Sprintf("%d of %d uploads failed", failed, len(files))
	}
	s.sendResponse(messageID, result)
	s.sendEvent(EventComplete, ProgressEvent{SessionID: session.ID, Progress: 100, Status: "complete"})
}

// handleCancel cancels an in-progress upload and drops the session
func (s *Server) handleCancel(ctx context.Context, msg *Message) {
	var req CancelRequest
	if err := decodeData(msg.Data, &req); err != nil {
		s.sendError(msg.ID, "Invalid cancel request", CodeInvalidRequest)
		return
	}
	session, ok := s.session(msg.ID, req.SessionID)
	if !ok {
		return
	}

	session.mu.Lock()
	if session.cancel != nil {
		session.cancel()
	}
	session.mu.Unlock()

	s.sessions.Delete(req.SessionID)
	s.sendResponse(msg.ID, CancelRequest{SessionID: req.SessionID})
}

// Helper methods

func (s *Server) session(messageID, sessionID string) (*Session, bool) {
	sessionData, ok := s.sessions.Load(sessionID)
	if !ok {
		s.sendError(messageID, "Session not found", CodeSessionNotFound)
		return nil, false
	}
	return sessionData.(*Session), true
}

func (s *Server) send(msg *Message) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := s.encoder.Encode(msg); err != nil {
		s.log.WithError(err).Error("failed to write gui message")
	}
}

func (s *Server) sendResponse(id string, data interface{}) {
	s.send(&Message{
		Type: TypeResponse,
		Data: data,
		ID:   id,
	})
}

func (s *Server) sendEvent(eventType string, data interface{}) {
	s.send(&Message{
		Type:    TypeEvent,
		Command: eventType,
		Data:    data,
	})
}

func (s *Server) sendError(id string, message string, code string) {
	s.sendResponse(id, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func decodeData(data interface{}, target interface{}) error {
	// Re-encode and decode to handle interface{} -> struct conversion
	bytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, target)
}
