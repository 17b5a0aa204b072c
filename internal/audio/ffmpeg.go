package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// Config selects the capture input handed to ffmpeg.
type Config struct {
	// Binary is the ffmpeg executable; resolved on PATH when relative.
	Binary string `mapstructure:"ffmpeg"`
	// Format is the ffmpeg input device format, e.g. pulse, alsa,
	// avfoundation or dshow.
	Format string `mapstructure:"format"`
	// Device is the input name for Format.
	Device     string `mapstructure:"device"`
	SampleRate int    `mapstructure:"sample_rate"`
}

// DefaultConfig returns the platform's usual default microphone input.
func DefaultConfig() Config {
	cfg := Config{Binary: "ffmpeg", SampleRate: 16000}
	switch runtime.GOOS {
	case "darwin":
		cfg.Format, cfg.Device = "avfoundation", ":0"
	case "windows":
		cfg.Format, cfg.Device = "dshow", "audio=Microphone"
	default:
		cfg.Format, cfg.Device = "pulse", "default"
	}
	return cfg
}

// startupGrace is how long Start waits for ffmpeg to fail on a bad device
// before treating the capture as running.
const startupGrace = 400 * time.Millisecond

// FFmpegRecorder records the microphone to a temporary Ogg/Opus file by
// running ffmpeg. Stop asks ffmpeg to quit so the container is finalized.
type FFmpegRecorder struct {
	cfg Config
	log *zap.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *bytes.Buffer
	done    chan error
	path    string
	started time.Time
}

func NewFFmpegRecorder(cfg Config, log *zap.Logger) *FFmpegRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	return &FFmpegRecorder{cfg: cfg, log: log}
}

// captureArgs builds the ffmpeg argument list for recording to out.
func (r *FFmpegRecorder) captureArgs(out string) []string {
	in := ffmpeg.KwArgs{"f": r.cfg.Format}
	outArgs := ffmpeg.KwArgs{"ac": 1, "c:a": "libopus", "b:a": "32k"}
	if r.cfg.SampleRate > 0 {
		outArgs["ar"] = r.cfg.SampleRate
	}
	return ffmpeg.Input(r.cfg.Device, in).
		Output(out, outArgs).
		GlobalArgs("-hide_banner", "-loglevel", "error").
		OverWriteOutput().
		GetArgs()
}

func (r *FFmpegRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	bin, err := exec.LookPath(r.cfg.Binary)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	f, err := os.CreateTemp("", "readingrally-*.ogg")
	if err != nil {
		return fmt.Errorf("create recording file: %w", err)
	}
	path := f.Name()
	f.Close()

	// The capture outlives Start's context; Stop and Cancel end it.
	cmd := exec.Command(bin, r.captureArgs(path)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		os.Remove(path)
		return classifyStartFailure(stderr.String(), err)
	case <-ctx.Done():
		cmd.Process.Kill()
		<-done
		os.Remove(path)
		return ctx.Err()
	case <-time.After(startupGrace):
	}

	r.cmd, r.stdin, r.stderr, r.done, r.path = cmd, stdin, stderr, done, path
	r.started = time.Now()
	r.log.Info("recording started", zap.String("format", r.cfg.Format), zap.String("device", r.cfg.Device))
	return nil
}

// classifyStartFailure maps an ffmpeg exit during startup to the capture
// error taxonomy.
func classifyStartFailure(stderr string, err error) error {
	msg := strings.ToLower(stderr)
	for _, marker := range []string{"permission denied", "operation not permitted", "access denied", "not authorized"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, strings.TrimSpace(stderr))
		}
	}
	detail := strings.TrimSpace(stderr)
	if detail == "" && err != nil {
		detail = err.Error()
	}
	return fmt.Errorf("%w: %s", ErrDeviceUnavailable, detail)
}

func (r *FFmpegRecorder) Stop(ctx context.Context) (*Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return nil, ErrNotRecording
	}
	defer r.reset()

	elapsed := time.Since(r.started)

	// "q" on stdin makes ffmpeg flush and close the output container.
	io.WriteString(r.stdin, "q")
	r.stdin.Close()

	select {
	case err := <-r.done:
		if err != nil {
			r.log.Debug("ffmpeg exited with error", zap.Error(err), zap.String("stderr", r.stderr.String()))
		}
	case <-ctx.Done():
		r.cmd.Process.Kill()
		<-r.done
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		r.cmd.Process.Kill()
		<-r.done
		return nil, fmt.Errorf("ffmpeg did not stop in time")
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no audio: %s", ErrDeviceUnavailable, strings.TrimSpace(r.stderr.String()))
	}

	r.log.Info("recording stopped", zap.Duration("duration", elapsed), zap.Int("bytes", len(data)))
	return &Clip{Data: data, MIMEType: "audio/ogg", Duration: elapsed}, nil
}

func (r *FFmpegRecorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return
	}
	r.cmd.Process.Kill()
	<-r.done
	r.reset()
	r.log.Info("recording cancelled")
}

// reset clears the capture state and removes the temp file. Callers hold mu.
func (r *FFmpegRecorder) reset() {
	if r.path != "" {
		os.Remove(r.path)
	}
	r.cmd, r.stdin, r.stderr, r.done, r.path = nil, nil, nil, nil, ""
}

// Probe returns the duration of an audio file using ffprobe.
func Probe(path string) (time.Duration, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}
	return parseProbeDuration(out)
}

func parseProbeDuration(probeJSON string) (time.Duration, error) {
	var result struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &result); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}
	if result.Format.Duration == "" {
		return 0, errors.New("probe output has no duration")
	}
	d, err := time.ParseDuration(result.Format.Duration + "s")
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", result.Format.Duration, err)
	}
	return d, nil
}
