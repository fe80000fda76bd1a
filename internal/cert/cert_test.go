package cert

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPNG(t *testing.T) {
	issued := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	data, err := Render("alice", 120, 8.5, issued)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestRenderDiffersPerUser(t *testing.T) {
	issued := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a, err := Render("alice", 10, 1.0, issued)
	require.NoError(t, err)
	b, err := Render("bob", 20, 2.0, issued)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRenderHandlesZeroTotals(t *testing.T) {
	_, err := Render("newcomer", 0, 0, time.Now())
	assert.NoError(t, err)
}
