// Package columnar materializes extracted tables as dataset files, one CSV
// per table.
package columnar

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gaurav-prasanna/doclake/core"
)

// Write encodes each table to dir as CSV and returns the written paths in
// table order. A lone table is named baseName.csv; with more than one the
// names carry a __table{i} suffix. The table's header row is used only when
// its length matches the table width, otherwise columns get positional
// names 0..n-1.
func Write(tables []core.Table, dir, baseName string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var paths []string
	for i, t := range tables {
		name := baseName + ".csv"
		if len(tables) > 1 {
			name = fmt.Sprintf("%s__table%d.csv", baseName, i)
		}
		path := filepath.Join(dir, name)
		if err := writeTable(t, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTable(t core.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns(t)); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

// columns returns the header when it fits the table exactly, positional
// indices otherwise. A header from a wider or narrower first row would
// misalign every column, so it is discarded rather than padded.
func columns(t core.Table) []string {
	w := t.Width()
	if len(t.Header) == w && w > 0 {
		return t.Header
	}
	cols := make([]string, w)
	for i := range cols {
		cols[i] = strconv.Itoa(i)
	}
	return cols
}
