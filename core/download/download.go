// Package download streams remote files to local disk, hashing as it goes.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/doclake/core"
)

const chunkSize = 8 * 1024

// Downloader writes fetched resources under a date-partitioned directory.
type Downloader struct {
	fetcher core.Fetcher
}

// New builds a Downloader on top of the given fetcher.
func New(f core.Fetcher) *Downloader {
	return &Downloader{fetcher: f}
}

// Download streams rawURL into destDir/YYYYMMDD/<filename> in 8 KiB chunks,
// accumulating a SHA-256 digest and byte count on the way through. No file
// is created unless the request succeeds. The body is never buffered whole.
func (d *Downloader) Download(ctx context.Context, rawURL, destDir string) (core.DownloadRecord, error) {
	res, err := d.fetcher.StreamGet(ctx, rawURL)
	if err != nil {
		return core.DownloadRecord{}, fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	dir := filepath.Join(destDir, time.Now().UTC().Format("20060102"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.DownloadRecord{}, fmt.Errorf("creating %s: %w", dir, err)
	}

	localPath := filepath.Join(dir, filenameFor(rawURL))
	out, err := os.Create(localPath)
	if err != nil {
		return core.DownloadRecord{}, fmt.Errorf("creating %s: %w", localPath, err)
	}

	hasher := sha256.New()
	n, err := io.CopyBuffer(io.MultiWriter(out, hasher), res.Body, make([]byte, chunkSize))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(localPath)
		return core.DownloadRecord{}, fmt.Errorf("writing %s: %w", localPath, err)
	}

	return core.DownloadRecord{
		LocalPath:  localPath,
		SourceURL:  rawURL,
		SHA256:     hex.EncodeToString(hasher.Sum(nil)),
		Bytes:      n,
		StatusCode: res.StatusCode,
	}, nil
}

func filenameFor(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}
	return fmt.Sprintf("download-%d", time.Now().Unix())
}
