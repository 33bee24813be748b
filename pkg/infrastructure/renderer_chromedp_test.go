package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serenityops/internal/domain"
)

func TestAvailableWithBadConfiguredPath(t *testing.T) {
	r := NewChromedpRenderer("/nonexistent/chrome", time.Second)
	err := r.Available(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestRenderToFileRejectsBadOptions(t *testing.T) {
	r := NewChromedpRenderer("", time.Second)
	_, err := r.RenderToFile(context.Background(), "<html></html>", t.TempDir()+"/out.pdf",
		domain.RenderOptions{Format: "Tabloid"})
	assert.Error(t, err)
}

func TestPaperAndMarginTablesCoverAllPresets(t *testing.T) {
	for _, f := range []domain.PaperFormat{domain.FormatA4, domain.FormatLetter, domain.FormatLegal} {
		size, ok := paperSizes[f]
		require.True(t, ok, f)
		assert.Greater(t, size[1], size[0], "portrait dimensions for %s", f)
	}
	for _, m := range []domain.MarginPreset{domain.MarginNone, domain.MarginSmall, domain.MarginMedium, domain.MarginLarge} {
		_, ok := marginSizes[m]
		require.True(t, ok, m)
	}
	assert.Equal(t, 0.0, marginSizes[domain.MarginNone])
	assert.Equal(t, [2]float64{8.27, 11.69}, paperSizes[domain.FormatA4])
}

func TestDefaultTimeoutApplied(t *testing.T) {
	r := NewChromedpRenderer("", 0)
	assert.Equal(t, 30*time.Second, r.timeout)
}
