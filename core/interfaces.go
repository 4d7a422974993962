// Package core defines the shared types and capability interfaces of the
// doclake ingestion pipeline. Each stage lives in its own subpackage and
// communicates through the types declared here.
package core

import (
	"context"
	"io"
	"time"
)

// FetchResult holds a fully buffered response body plus metadata.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// StreamResult exposes a response body for chunked reads. The caller owns
// Body and must close it.
type StreamResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
}

// Link is one hyperlink discovered on a source page: the normalized absolute
// URL and the first-seen anchor text.
type Link struct {
	URL  string
	Text string
}

// DownloadRecord describes a completed streamed download. LocalPath points
// at a file that exists from download completion until upload/cleanup.
type DownloadRecord struct {
	LocalPath  string
	SourceURL  string
	SHA256     string
	Bytes      int64
	StatusCode int
}

// Table is an ordered 2-D cell grid extracted from a document. Header is the
// normalized header candidate, nil when the table has none; whether it is
// actually applied to the output depends on the column-count check in the
// columnar writer.
type Table struct {
	Header []string
	Rows   [][]string
}

// Width reports the widest data row.
func (t Table) Width() int {
	w := 0
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Manifest is the per-run record of uploaded file locations. It is written
// once per job run, after all uploads complete.
type Manifest struct {
	Job          string    `json:"job"`
	DownloadedAt time.Time `json:"downloaded_at"`
	Files        []string  `json:"files"`
}

// Fetcher retrieves resources over HTTP with retry/backoff handled
// internally.
type Fetcher interface {
	Get(ctx context.Context, url string) (*FetchResult, error)
	StreamGet(ctx context.Context, url string) (*StreamResult, error)
}

// Uploader puts files or buffers at a key inside a bucket and returns the
// resulting scheme://bucket/key URI. Implementations must be safe for
// concurrent use.
type Uploader interface {
	PutFile(ctx context.Context, bucket, localPath, key string) (string, error)
	PutBytes(ctx context.Context, bucket string, data []byte, key, contentType string) (string, error)
}

// FileFinder discovers candidate file URLs for non-generic source types,
// replacing the duck-typed "maybe has find_files" checks with an explicit
// capability.
type FileFinder interface {
	FindFiles(ctx context.Context) ([]string, error)
}
