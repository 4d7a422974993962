package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var capture = time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

func TestStagingPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"raw segment substituted", "lake/raw/fnde_fundeb", "lake/staging/fnde_fundeb"},
		{"every raw segment substituted", "lake/raw/sub/raw", "lake/staging/sub/staging"},
		{"trailing bare raw", "lakeraw", "lakestaging"},
		{"no raw segment", "lake/fnde_fundeb", "lake/fnde_fundeb/staging"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StagingPrefix(tt.prefix))
		})
	}
}

func TestStagingKey(t *testing.T) {
	got := StagingKey("lake/staging/fnde_fundeb", capture, 2025, "lista.pdf")
	assert.Equal(t, "lake/staging/fnde_fundeb/data_captura=20250314/year=2025/lista.pdf", got)
}

func TestRawTableKey(t *testing.T) {
	got := RawTableKey("lake/raw/fnde_fundeb", capture, 2025, "03", "lista__table0.csv")
	assert.Equal(t, "lake/raw/fnde_fundeb/data_captura=20250314/year=2025/month=03/lista__table0.csv", got)
}

func TestRawOriginalKeyHasNoMonth(t *testing.T) {
	got := RawOriginalKey("lake/raw/fnde_fundeb", capture, 2025, "lista.pdf")
	assert.Equal(t, "lake/raw/fnde_fundeb/data_captura=20250314/year=2025/lista.pdf", got)
}

func TestManifestKey(t *testing.T) {
	got := ManifestKey("lake/raw", "fnde_fundeb", capture)
	assert.Equal(t, "lake/raw/fnde_fundeb/data_captura=20250314/metadata.json", got)
}

func TestDatasetPrefixTrimsSlashes(t *testing.T) {
	assert.Equal(t, "lake/raw/fnde_fundeb", DatasetPrefix("/lake/raw/", "fnde_fundeb"))
}

func TestInferYear(t *testing.T) {
	assert.Equal(t, 2024, InferYear("lista_vaat_2024.pdf", capture))
	assert.Equal(t, 2025, InferYear("lista_vaat.pdf", capture))
}

func TestKeysDeterministic(t *testing.T) {
	a := StagingKey("lake/staging/ds", capture, 2025, "f.pdf")
	b := StagingKey("lake/staging/ds", capture, 2025, "f.pdf")
	assert.Equal(t, a, b)
}
