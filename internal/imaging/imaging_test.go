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
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestProcessReencodesAsJPEG(t *testing.T) {
	result, err := Process(encodePNG(t, 100, 60))

	assert.NoError(t, err)
	assert.Equal(t, "image/jpeg", result.MIME)

	decoded, format, err := image.Decode(bytes.NewReader(result.Data))
	assert.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, decoded.Bounds().Dx())
}

func TestProcessDownscalesLargeImages(t *testing.T) {
	result, err := Process(encodePNG(t, 2048, 1024))

	assert.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(result.Data))
	assert.NoError(t, err)
	assert.Equal(t, MaxDimension, decoded.Bounds().Dx())
	assert.Equal(t, 512, decoded.Bounds().Dy())
}

func TestProcessAcceptsJPEGInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	var buf bytes.Buffer
	assert.NoError(t, jpeg.Encode(&buf, img, nil))

	result, err := Process(&buf)

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Data)
}

func TestProcessRejectsNonImageData(t *testing.T) {
	_, err := Process(strings.NewReader("<html>not an image</html>"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}
