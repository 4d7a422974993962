package upload

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
)

// GCS uploads to Google Cloud Storage and returns gs:// URIs. Credentials
// come from the ambient environment (GOOGLE_APPLICATION_CREDENTIALS or
// workload identity).
type GCS struct {
	client *storage.Client
}

// NewGCS builds a GCS backend with a fresh storage client.
func NewGCS(ctx context.Context) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCS{client: client}, nil
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}

func (g *GCS) PutFile(ctx context.Context, bucket, localPath, key string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer src.Close()

	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return "", fmt.Errorf("uploading %s to gs://%s/%s: %w", localPath, bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing gs://%s/%s: %w", bucket, key, err)
	}
	return "gs://" + bucket + "/" + key, nil
}

func (g *GCS) PutBytes(ctx context.Context, bucket string, data []byte, key, contentType string) (string, error) {
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("uploading to gs://%s/%s: %w", bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing gs://%s/%s: %w", bucket, key, err)
	}
	return "gs://" + bucket + "/" + key, nil
}
