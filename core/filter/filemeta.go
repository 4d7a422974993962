package filter

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

var yearRe = regexp.MustCompile(`20\d{2}`)

// FileMeta is the metadata derivable from a candidate URL alone.
type FileMeta struct {
	Filename string
	Year     int
	IsPDF    bool
}

// ParseFilename pulls filename, embedded year and PDF-ness out of a
// candidate URL. Year is 0 when the filename carries none.
func ParseFilename(rawURL string) FileMeta {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	meta := FileMeta{
		Filename: name,
		IsPDF:    strings.HasSuffix(strings.ToLower(name), ".pdf"),
	}
	if m := yearRe.FindString(name); m != "" {
		meta.Year, _ = strconv.Atoi(m)
	}
	return meta
}
