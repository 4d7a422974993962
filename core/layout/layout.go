// Package layout builds the partitioned object-storage keys used across the
// staging and raw zones. Every function is pure: the same inputs always
// produce the same key.
package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var yearRe = regexp.MustCompile(`20\d{2}`)

// DatasetPrefix joins the destination prefix with the dataset name.
func DatasetPrefix(prefix, dataset string) string {
	return join(prefix, dataset)
}

// StagingPrefix derives the staging zone prefix from a dataset-inclusive
// raw prefix. A "/raw" segment anywhere is substituted with "/staging", a
// bare trailing "raw" is rewritten, and a prefix with no raw segment gets
// "/staging" appended.
func StagingPrefix(prefix string) string {
	switch {
	case strings.Contains(prefix, "/raw"):
		return strings.ReplaceAll(prefix, "/raw", "/staging")
	case strings.HasSuffix(prefix, "raw"):
		return prefix[:len(prefix)-len("raw")] + "staging"
	default:
		return prefix + "/staging"
	}
}

// StagingKey is the staging-zone key for an ingested original file.
func StagingKey(prefix string, capture time.Time, year int, filename string) string {
	return join(prefix,
		"data_captura="+capture.Format("20060102"),
		fmt.Sprintf("year=%d", year),
		filename)
}

// RawTableKey is the raw-zone key for one extracted table file, partitioned
// down to the month.
func RawTableKey(prefix string, capture time.Time, year int, month, filename string) string {
	return join(prefix,
		"data_captura="+capture.Format("20060102"),
		fmt.Sprintf("year=%d", year),
		"month="+month,
		filename)
}

// RawOriginalKey is the raw-zone key for an original document kept whole
// when no tables could be extracted. No month partition: the document spans
// the year.
func RawOriginalKey(prefix string, capture time.Time, year int, filename string) string {
	return join(prefix,
		"data_captura="+capture.Format("20060102"),
		fmt.Sprintf("year=%d", year),
		filename)
}

// ManifestKey locates the run manifest under the dataset's capture
// partition.
func ManifestKey(destPath, dataset string, capture time.Time) string {
	return join(destPath, dataset,
		"data_captura="+capture.Format("20060102"),
		"metadata.json")
}

// InferYear pulls the first 20xx year out of the filename, falling back to
// the capture year.
func InferYear(filename string, fallback time.Time) int {
	if m := yearRe.FindString(filename); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return fallback.Year()
}

func join(parts ...string) string {
	var cleaned []string
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "/")
}
