// Package pipeline orchestrates one ingestion run: discover candidate file
// URLs for a job, download and stage each one, extract tables where
// possible, land results in the raw zone and finish with a manifest.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/doclake/core"
	"github.com/gaurav-prasanna/doclake/core/columnar"
	"github.com/gaurav-prasanna/doclake/core/config"
	"github.com/gaurav-prasanna/doclake/core/download"
	"github.com/gaurav-prasanna/doclake/core/filter"
	"github.com/gaurav-prasanna/doclake/core/layout"
	"github.com/gaurav-prasanna/doclake/core/parse"
	"github.com/gaurav-prasanna/doclake/core/pdftable"
)

// ErrMissingDatasetName aborts a run before any network I/O: without a
// stable dataset_name parameter there is no way to key the output.
var ErrMissingDatasetName = errors.New("source_params.dataset_name is required")

// Step names the pipeline stage a candidate was in when it succeeded or
// failed.
type Step string

const (
	StepDownload Step = "download"
	StepExtract  Step = "extract"
	StepUpload   Step = "upload"
)

// CandidateResult is the outcome for one candidate URL. Err is nil on
// success; URIs lists what was uploaded, staging first.
type CandidateResult struct {
	URL  string
	Step Step
	URIs []string
	Err  error
}

// Report is what one run produced.
type Report struct {
	Manifest    *core.Manifest
	ManifestURI string
	Candidates  []CandidateResult
}

// Files returns every uploaded URI across successful candidates, in
// candidate order.
func (r *Report) Files() []string {
	var files []string
	for _, c := range r.Candidates {
		if c.Err == nil {
			files = append(files, c.URIs...)
		}
	}
	return files
}

// Runner wires the pipeline's collaborators together. Build one with New
// and reuse it across jobs.
type Runner struct {
	fetcher     core.Fetcher
	downloader  *download.Downloader
	uploader    core.Uploader
	finder      core.FileFinder
	log         *slog.Logger
	concurrency int
	tmpRoot     string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithConcurrency bounds how many candidates are processed at once.
// The default of 1 keeps processing sequential.
func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

// WithFinder injects the file-discovery capability used for non-generic
// source types.
func WithFinder(f core.FileFinder) Option {
	return func(r *Runner) { r.finder = f }
}

// WithTempDir overrides where per-candidate work directories are created.
func WithTempDir(dir string) Option {
	return func(r *Runner) { r.tmpRoot = dir }
}

// New builds a Runner from a fetcher and an uploader.
func New(fetcher core.Fetcher, uploader core.Uploader, opts ...Option) *Runner {
	r := &Runner{
		fetcher:     fetcher,
		downloader:  download.New(fetcher),
		uploader:    uploader,
		log:         slog.Default(),
		concurrency: 1,
		tmpRoot:     os.TempDir(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one job. Candidate failures are collected in the report and
// never abort siblings; only an invalid job or a discovery failure returns
// an error. A run with zero successful candidates is still a clean run with
// an empty file list and no manifest.
func (r *Runner) Run(ctx context.Context, job config.Job) (*Report, error) {
	dataset := job.DatasetName()
	if dataset == "" {
		return nil, ErrMissingDatasetName
	}

	candidates, texts, err := r.discover(ctx, job)
	if err != nil {
		return nil, err
	}
	candidates = applyPostFilters(candidates, texts, job)
	if max := job.MaxFiles(); max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	r.log.Info("candidates selected", "job", job.JobName, "dataset", dataset, "count", len(candidates))
	for _, c := range candidates {
		meta := filter.ParseFilename(c)
		r.log.Debug("candidate", "filename", meta.Filename, "year", meta.Year, "pdf", meta.IsPDF)
	}

	results := make([]CandidateResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.concurrency))
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			results[i] = r.processCandidate(gctx, job, dataset, cand)
			return nil
		})
	}
	g.Wait()

	report := &Report{Candidates: results}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	files := report.Files()
	if len(files) == 0 {
		r.log.Info("run produced no files, skipping manifest", "job", job.JobName)
		return report, nil
	}

	manifest := &core.Manifest{
		Job:          job.JobName,
		DownloadedAt: time.Now().UTC(),
		Files:        files,
	}
	report.Manifest = manifest
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return report, fmt.Errorf("encoding manifest: %w", err)
	}
	key := layout.ManifestKey(job.DestinationPath, dataset, job.CaptureDate())
	uri, err := r.uploader.PutBytes(ctx, job.DestinationBucket, data, key, "application/json")
	if err != nil {
		r.log.Warn("manifest upload failed", "job", job.JobName, "key", key, "error", err)
		return report, nil
	}
	report.ManifestURI = uri
	return report, nil
}

// discover resolves the job's candidate URLs. Non-generic sources go
// through the injected FileFinder; a source URL that is itself a PDF is its
// own single candidate; generic page sources are fetched, parsed and run
// through the source's filter strategy.
func (r *Runner) discover(ctx context.Context, job config.Job) ([]string, map[string]string, error) {
	if !strings.EqualFold(job.SourceType, "generic") {
		if r.finder == nil {
			r.log.Warn("no file finder for source type, skipping discovery",
				"job", job.JobName, "source_type", job.SourceType)
			return nil, nil, nil
		}
		files, err := r.finder.FindFiles(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("finding files for %s source: %w", job.SourceType, err)
		}
		return dedupe(files), nil, nil
	}

	if strings.HasSuffix(strings.ToLower(job.SourceURL), ".pdf") {
		return []string{job.SourceURL}, nil, nil
	}

	page, err := r.fetcher.Get(ctx, job.SourceURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching source page: %w", err)
	}
	links, err := parse.Links(string(page.Body), job.SourceURL)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting links: %w", err)
	}

	texts := make(map[string]string, len(links))
	for _, l := range links {
		texts[l.URL] = l.Text
	}
	strategy := filter.ForSource(job.SourceURL, job.SourceParams)
	return strategy.Filter(links), texts, nil
}

// applyPostFilters narrows candidates by the filename_contains and
// link_text_contains parameters. The two checks form one pass: a candidate
// stays when either substring matches. A post-filter result that would
// empty the selection is ignored, keeping the prior set.
func applyPostFilters(candidates []string, texts map[string]string, job config.Job) []string {
	nameSub := strings.ToLower(job.ParamString("filename_contains"))
	textSub := strings.ToLower(job.ParamString("link_text_contains"))
	if nameSub == "" && textSub == "" {
		return candidates
	}

	var kept []string
	for _, c := range candidates {
		byName := nameSub != "" && strings.Contains(strings.ToLower(filenameOf(c)), nameSub)
		byText := textSub != "" && strings.Contains(strings.ToLower(texts[c]), textSub)
		if byName || byText {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}

// processCandidate runs one candidate through download, staging upload,
// table extraction and raw upload, inside its own temp directory. The
// staging upload is mandatory; extraction failure falls back to uploading
// the original document to the raw zone.
func (r *Runner) processCandidate(ctx context.Context, job config.Job, dataset, candURL string) CandidateResult {
	res := CandidateResult{URL: candURL}

	tmpDir := filepath.Join(r.tmpRoot, "doclake-"+uuid.NewString())
	defer os.RemoveAll(tmpDir)

	res.Step = StepDownload
	rec, err := r.downloader.Download(ctx, candURL, tmpDir)
	if err != nil {
		res.Err = fmt.Errorf("downloading %s: %w", candURL, err)
		return res
	}
	r.log.Info("downloaded", "url", candURL, "bytes", rec.Bytes, "sha256", rec.SHA256)

	capture := job.CaptureDate()
	filename := filepath.Base(rec.LocalPath)
	year := layout.InferYear(filename, capture)
	rawPrefix := layout.DatasetPrefix(job.DestinationPath, dataset)
	stagingPrefix := layout.StagingPrefix(rawPrefix)

	res.Step = StepUpload
	stagingKey := layout.StagingKey(stagingPrefix, capture, year, filename)
	stagingURI, err := r.uploader.PutFile(ctx, job.DestinationBucket, rec.LocalPath, stagingKey)
	if err != nil {
		res.Err = fmt.Errorf("staging upload of %s: %w", filename, err)
		return res
	}
	res.URIs = append(res.URIs, stagingURI)

	var tables []core.Table
	if core.DetectResourceType(candURL, "") == core.ResourcePDF {
		res.Step = StepExtract
		tables, err = pdftable.Extract(rec.LocalPath)
		if err != nil {
			r.log.Warn("table extraction failed, keeping original", "url", candURL, "error", err)
			tables = nil
		}
	}

	res.Step = StepUpload
	if len(tables) > 0 {
		baseName := strings.TrimSuffix(filename, path.Ext(filename))
		paths, err := columnar.Write(tables, filepath.Join(tmpDir, "tables"), baseName)
		if err != nil {
			res.Err = fmt.Errorf("writing tables for %s: %w", filename, err)
			return res
		}
		month := capture.Format("01")
		for _, p := range paths {
			key := layout.RawTableKey(rawPrefix, capture, year, month, filepath.Base(p))
			uri, err := r.uploader.PutFile(ctx, job.DestinationBucket, p, key)
			if err != nil {
				res.Err = fmt.Errorf("raw upload of %s: %w", filepath.Base(p), err)
				return res
			}
			res.URIs = append(res.URIs, uri)
		}
	} else {
		key := layout.RawOriginalKey(rawPrefix, capture, year, filename)
		uri, err := r.uploader.PutFile(ctx, job.DestinationBucket, rec.LocalPath, key)
		if err != nil {
			res.Err = fmt.Errorf("raw upload of %s: %w", filename, err)
			return res
		}
		res.URIs = append(res.URIs, uri)
	}
	return res
}

// dedupe collapses repeated URLs keeping first-seen order, so a finder
// that lists the same file twice does not trigger two downloads.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var out []string
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func filenameOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}
