package certrender

import (
	"bytes"
	"image"
	"image/png"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

// EncodePNG encodes the rendered certificate losslessly. PNG is the format
// fed into the PDF converter and the archive pipeline.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, certerrors.Wrap(certerrors.KindRenderFailure, "encoding PNG", err)
	}
	return buf.Bytes(), nil
}

// PreviewWebPQuality is the lossy quality used for preview responses.
const PreviewWebPQuality = 80

// EncodeWebP encodes a lossy preview variant. Used by the preview endpoints
// to keep interactive round-trips small; never used for issued documents.
func EncodeWebP(img image.Image, quality float32) ([]byte, error) {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, certerrors.Wrap(certerrors.KindRenderFailure, "creating WebP encoder options", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, certerrors.Wrap(certerrors.KindRenderFailure, "encoding WebP preview", err)
	}
	return buf.Bytes(), nil
}
