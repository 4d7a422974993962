// Package upload provides the object-storage backends behind the Uploader
// capability: Google Cloud Storage for production and a local directory for
// development and tests.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalDir stores objects as files under BaseDir/bucket/key and returns
// file:// URIs.
type LocalDir struct {
	BaseDir string
}

// NewLocalDir builds a local backend rooted at baseDir.
func NewLocalDir(baseDir string) *LocalDir {
	return &LocalDir{BaseDir: baseDir}
}

func (l *LocalDir) PutFile(ctx context.Context, bucket, localPath, key string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer src.Close()
	return l.put(ctx, bucket, key, src)
}

func (l *LocalDir) PutBytes(ctx context.Context, bucket string, data []byte, key, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest := filepath.Join(l.BaseDir, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return "file://" + bucket + "/" + key, nil
}

func (l *LocalDir) put(ctx context.Context, bucket, key string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest := filepath.Join(l.BaseDir, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", dest, err)
	}
	return "file://" + bucket + "/" + key, nil
}
