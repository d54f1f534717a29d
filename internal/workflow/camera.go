package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Frame is one captured camera image.
type Frame struct {
	Data     []byte
	MimeType string
}

// Stream is an open camera feed. Close must be safe to call more than once.
type Stream interface {
	Capture(ctx context.Context) (*Frame, error)
	Close() error
}

// CameraSource opens the device camera (or a stand-in for it).
type CameraSource interface {
	Open(ctx context.Context) (Stream, error)
}

// FileCameraSource is a CameraSource that "captures" a fixed image file.
// It lets the submit CLI drive the analysis step without a real camera.
type FileCameraSource struct {
	Path string
}

func (s *FileCameraSource) Open(ctx context.Context) (Stream, error) {
	return &fileStream{path: s.Path}, nil
}

type fileStream struct {
	path string
}

func (s *fileStream) Capture(ctx context.Context) (*Frame, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	mime := "image/jpeg"
	if strings.EqualFold(filepath.Ext(s.path), ".png") {
		mime = "image/png"
	}
	return &Frame{Data: data, MimeType: mime}, nil
}

func (s *fileStream) Close() error { return nil }
