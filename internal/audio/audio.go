// Package audio captures the reader's voice for a session.
package audio

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrPermissionDenied means the OS refused access to the microphone.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrDeviceUnavailable means no usable capture device or tool was found.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrNotRecording is returned by Stop when Start was never called or
	// the recording was already stopped.
	ErrNotRecording = errors.New("not recording")
	// ErrAlreadyRecording is returned by Start while a recording runs.
	ErrAlreadyRecording = errors.New("already recording")
)

// Clip is one finished recording.
type Clip struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
}

var extByMIME = map[string]string{
	"audio/ogg":  ".ogg",
	"audio/webm": ".webm",
	"audio/wav":  ".wav",
	"audio/mpeg": ".mp3",
	"audio/mp4":  ".m4a",
	"audio/flac": ".flac",
}

// FileName returns a name whose extension matches the clip's container,
// for APIs that sniff the format from the upload name.
func (c *Clip) FileName() string {
	mt, _, _ := strings.Cut(c.MIMEType, ";")
	if ext, ok := extByMIME[strings.TrimSpace(mt)]; ok {
		return "recording" + ext
	}
	return "recording.wav"
}

// Empty reports whether the clip holds no audio.
func (c *Clip) Empty() bool {
	return c == nil || len(c.Data) == 0
}

// MIMETypeForPath guesses a clip MIME type from a file extension.
func MIMETypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for mt, e := range extByMIME {
		if e == ext {
			return mt
		}
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}

// Recorder captures one clip at a time.
type Recorder interface {
	// Start begins capturing. It fails with ErrPermissionDenied or
	// ErrDeviceUnavailable when capture cannot begin.
	Start(ctx context.Context) error

	// Stop ends the capture and returns the clip.
	Stop(ctx context.Context) (*Clip, error)

	// Cancel ends the capture and discards the audio. It is safe to call
	// when nothing is recording.
	Cancel()
}
