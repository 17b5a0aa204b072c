// Package archive keeps copies of session recordings on local disk or in
// an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/readingrally/readingrally/internal/audio"
)

// Archive stores a recording and returns where it went.
type Archive interface {
	Put(ctx context.Context, key string, clip *audio.Clip) (string, error)
}

// Key builds the object key for a session recording:
// sessions/YYYY/MM/DD/<session-id>.<ext>.
func Key(sessionID string, at time.Time, clip *audio.Clip) string {
	return path.Join("sessions", at.UTC().Format("2006/01/02"), sessionID+path.Ext(clip.FileName()))
}

// Config selects and configures the archive backend.
type Config struct {
	Type      string `mapstructure:"type"` // none, local or minio
	Path      string `mapstructure:"path"`
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// New builds the configured archive. It returns nil for type "none" or "".
func New(ctx context.Context, cfg Config) (Archive, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "none":
		return nil, nil
	case "local":
		if cfg.Path == "" {
			return nil, fmt.Errorf("archive: local archive needs a path")
		}
		return NewLocal(cfg.Path), nil
	case "minio", "s3":
		return NewMinio(ctx, cfg)
	default:
		return nil, fmt.Errorf("archive: unknown type %q", cfg.Type)
	}
}

// Local writes recordings below a directory.
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) Put(_ context.Context, key string, clip *audio.Clip) (string, error) {
	if clip.Empty() {
		return "", fmt.Errorf("archive: empty clip")
	}
	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("archive: create dir: %w", err)
	}
	if err := os.WriteFile(dst, clip.Data, 0o644); err != nil {
		return "", fmt.Errorf("archive: write %s: %w", dst, err)
	}
	return dst, nil
}

// Minio uploads recordings to an S3-compatible bucket.
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio connects to the endpoint and creates the bucket when missing.
func NewMinio(ctx context.Context, cfg Config) (*Minio, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("archive: minio needs an endpoint and a bucket")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("archive: check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("archive: create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

func (m *Minio) Put(ctx context.Context, key string, clip *audio.Clip) (string, error) {
	if clip.Empty() {
		return "", fmt.Errorf("archive: empty clip")
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(clip.Data), int64(len(clip.Data)), minio.PutObjectOptions{
		ContentType: clip.MIMEType,
	})
	if err != nil {
		return "", fmt.Errorf("archive: upload %s: %w", key, err)
	}
	return m.bucket + "/" + key, nil
}
