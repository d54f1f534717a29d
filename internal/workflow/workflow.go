package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"assetvault/internal/vision"
)

var (
	// ErrNotReady means the submission guard failed: a title and at least
	// one file are required.
	ErrNotReady = errors.New("a title and at least one file are required")
	// ErrBusy means an upload or analysis is already in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrUnsupportedLidar means the selected file is not a point-cloud format.
	ErrUnsupportedLidar = errors.New("unsupported lidar scan format")
	// ErrCameraClosed means a capture was requested without an open camera.
	ErrCameraClosed = errors.New("camera is not open")
)

// lidarExts are the accepted point-cloud file extensions.
var lidarExts = map[string]bool{
	".ply": true,
	".pts": true,
	".xyz": true,
}

// Notifier surfaces outcomes to the user.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// Navigator moves the user between screens.
type Navigator interface {
	RedirectToAuth()
	NavigateHome()
}

// Deps are the injected capabilities the workflow drives.
type Deps struct {
	Sessions SessionProvider
	Camera   CameraSource
	API      APIClient
	Notify   Notifier
	Nav      Navigator
}

// Workflow holds the state of one asset submission in progress: the chosen
// media files, the text fields, the optional AI analysis, and the camera.
// All methods are safe for concurrent use.
type Workflow struct {
	deps Deps

	mu          sync.Mutex
	video       File
	lidar       File
	title       string
	description string
	analysis    *Analysis
	stream      Stream
	isUploading bool
	isAnalyzing bool
}

func New(deps Deps) *Workflow {
	return &Workflow{deps: deps}
}

// SelectVideo sets the walkaround video. Selecting again replaces the
// previous choice.
func (w *Workflow) SelectVideo(f File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.video = f
}

// RemoveVideo clears the video selection. Safe to call when none is set.
func (w *Workflow) RemoveVideo() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.video = nil
}

// SelectLidar sets the lidar scan. Only point-cloud formats are accepted.
func (w *Workflow) SelectLidar(f File) error {
	if !lidarExts[strings.ToLower(filepath.Ext(f.Name()))] {
		return ErrUnsupportedLidar
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lidar = f
	return nil
}

// RemoveLidar clears the lidar selection. Safe to call when none is set.
func (w *Workflow) RemoveLidar() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lidar = nil
}

func (w *Workflow) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

func (w *Workflow) SetDescription(description string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.description = description
}

// Description returns the current description text.
func (w *Workflow) Description() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.description
}

// Analysis returns the stored AI analysis, or nil.
func (w *Workflow) Analysis() *Analysis {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.analysis
}

// CameraActive reports whether a camera stream is open.
func (w *Workflow) CameraActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stream != nil
}

// OpenCamera opens the camera stream. Opening twice is a no-op.
func (w *Workflow) OpenCamera(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stream != nil {
		return nil
	}
	stream, err := w.deps.Camera.Open(ctx)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	w.stream = stream
	return nil
}

// CloseCamera releases the camera stream. Safe to call when already closed.
func (w *Workflow) CloseCamera() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeCameraLocked()
}

func (w *Workflow) closeCameraLocked() {
	if w.stream != nil {
		_ = w.stream.Close()
		w.stream = nil
	}
}

// CaptureAndAnalyze grabs one frame from the open camera, sends it to the
// analysis endpoint, and on success stores the result and appends its text
// to the description. The camera is released and the analyzing flag
// cleared on every exit path. Without a session the user is redirected to
// auth and no network call is made.
func (w *Workflow) CaptureAndAnalyze(ctx context.Context) error {
	w.mu.Lock()
	if w.isAnalyzing {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.stream == nil {
		w.mu.Unlock()
		return ErrCameraClosed
	}
	w.isAnalyzing = true
	stream := w.stream
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.isAnalyzing = false
		w.closeCameraLocked()
		w.mu.Unlock()
	}()

	session, err := w.deps.Sessions.CurrentSession(ctx)
	if err != nil {
		w.deps.Nav.RedirectToAuth()
		return ErrNoSession
	}

	frame, err := stream.Capture(ctx)
	if err != nil {
		w.deps.Notify.Error("Analysis Failed", "Could not capture an image")
		return fmt.Errorf("capture frame: %w", err)
	}

	dataURI := vision.EncodeImageDataURI(frame.Data, frame.MimeType)
	result, err := w.deps.API.AnalyzeImage(ctx, session.AccessToken, dataURI)
	if err != nil {
		w.deps.Notify.Error("Analysis Failed", "Could not analyze the image")
		return err
	}

	w.mu.Lock()
	w.analysis = result
	// The analysis text is appended, never replacing what the user wrote.
	if w.description != "" {
		w.description += "\n\n"
	}
	w.description += result.Text
	w.mu.Unlock()

	w.deps.Notify.Success("Analysis Complete", "AI analysis added to the description")
	return nil
}

// CanSubmit reports whether the submission guard is satisfied: a non-empty
// title and at least one selected file.
func (w *Workflow) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *Workflow) canSubmitLocked() bool {
	return w.title != "" && (w.video != nil || w.lidar != nil)
}

// Submit sends the current state to the submission endpoint. Without a
// session the user is redirected to auth before any network call. Only one
// submission can be in flight at a time; a failed one re-enables the
// control. On success the state is reset and the user is navigated home.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if !w.canSubmitLocked() {
		w.mu.Unlock()
		w.deps.Notify.Error("Missing Information", "Add a title and at least one file")
		return ErrNotReady
	}
	if w.isUploading {
		w.mu.Unlock()
		return ErrBusy
	}
	w.isUploading = true
	req := UploadRequest{
		Title:       w.title,
		Description: w.description,
		Video:       w.video,
		Lidar:       w.lidar,
		Analysis:    w.analysis,
	}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.isUploading = false
		w.mu.Unlock()
	}()

	session, err := w.deps.Sessions.CurrentSession(ctx)
	if err != nil {
		w.deps.Nav.RedirectToAuth()
		return ErrNoSession
	}

	if err := w.deps.API.UploadAsset(ctx, session.AccessToken, req); err != nil {
		w.deps.Notify.Error("Upload Failed", "Could not upload the asset")
		return err
	}

	w.mu.Lock()
	w.video = nil
	w.lidar = nil
	w.title = ""
	w.description = ""
	w.analysis = nil
	w.mu.Unlock()

	w.deps.Notify.Success("Asset Uploaded", "Your asset was submitted for validation")
	w.deps.Nav.NavigateHome()
	return nil
}
