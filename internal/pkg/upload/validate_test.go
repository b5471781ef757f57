package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImageBySniff(t *testing.T) {
	data := encodePNG(t, 10, 10)

	mime, err := ValidateImageBySniff("template.png", data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = ValidateImageBySniff("template.svg", data)
	assert.Error(t, err, "svg extension is rejected outright")

	_, err = ValidateImageBySniff("template.png", []byte("<html><body>x</body></html>"))
	assert.Error(t, err, "html content behind an image extension is rejected")

	_, err = ValidateImageBySniff("notes.txt", data)
	assert.Error(t, err)
}

func TestValidateTemplateImage(t *testing.T) {
	mime, err := ValidateTemplateImage("base.png", encodePNG(t, 1024, 768))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = ValidateTemplateImage("base.png", encodePNG(t, 800, 600))
	assert.NoError(t, err, "the minimum size itself is accepted")

	_, err = ValidateTemplateImage("base.png", encodePNG(t, 799, 600))
	assert.Error(t, err)

	_, err = ValidateTemplateImage("base.png", encodePNG(t, 800, 599))
	assert.Error(t, err)

	_, err = ValidateTemplateImage("base.png", []byte("not an image at all, padded to pass sniffing?"))
	assert.Error(t, err)
}

func TestExtractMetadataWithoutEXIF(t *testing.T) {
	assert.Nil(t, ExtractMetadata(encodePNG(t, 10, 10)), "plain PNGs carry no EXIF block")
}
