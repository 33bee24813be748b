package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOptionsDefaults(t *testing.T) {
	opts := RenderOptions{}
	require.NoError(t, opts.Normalize())
	assert.Equal(t, FormatA4, opts.Format)
	assert.Equal(t, MarginMedium, opts.Margin)
	assert.False(t, opts.Landscape)
}

func TestRenderOptionsRejectsUnknownValues(t *testing.T) {
	opts := RenderOptions{Format: "Tabloid"}
	assert.Error(t, opts.Normalize())

	opts = RenderOptions{Margin: "huge"}
	assert.Error(t, opts.Normalize())
}

func TestRenderOptionsKeepsExplicitValues(t *testing.T) {
	opts := RenderOptions{Format: FormatLegal, Margin: MarginNone, Landscape: true}
	require.NoError(t, opts.Normalize())
	assert.Equal(t, FormatLegal, opts.Format)
	assert.Equal(t, MarginNone, opts.Margin)
	assert.True(t, opts.Landscape)
}
