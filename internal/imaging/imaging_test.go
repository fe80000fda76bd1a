package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessReencodesToJPEG(t *testing.T) {
	out, err := Process(bytes.NewReader(encodePNG(t, 64, 48)))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.MIME)

	img, _, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestProcessDownscalesLargeImages(t *testing.T) {
	out, err := Process(bytes.NewReader(encodePNG(t, 2048, 512)))
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestProcessAcceptsJPEGInput(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	out, err := Process(&buf)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.MIME)
}

func TestProcessRejectsUnsupportedFormats(t *testing.T) {
	_, err := Process(strings.NewReader("GIF89a not really an image"))
	assert.Error(t, err)

	_, err = Process(strings.NewReader("plain text payload"))
	assert.Error(t, err)
}
