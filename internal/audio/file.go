package audio

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileRecorder plays back an existing recording as if it were captured
// live. It serves headless sessions where the reader recorded elsewhere.
type FileRecorder struct {
	path  string
	probe func(string) (time.Duration, error)

	mu      sync.Mutex
	active  bool
	started time.Time
}

// NewFileRecorder returns a recorder for the audio file at path. The clip
// duration comes from ffprobe when it is installed.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path, probe: Probe}
}

func (r *FileRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return ErrAlreadyRecording
	}
	info, err := os.Stat(r.path)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrDeviceUnavailable, r.path)
	}
	r.active = true
	r.started = time.Now()
	return nil
}

func (r *FileRecorder) Stop(ctx context.Context) (*Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return nil, ErrNotRecording
	}
	r.active = false

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	clip := &Clip{Data: data, MIMEType: MIMETypeForPath(r.path)}
	if r.probe != nil {
		if d, err := r.probe(r.path); err == nil {
			clip.Duration = d
		}
	}
	return clip, nil
}

func (r *FileRecorder) Cancel() {
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
}
