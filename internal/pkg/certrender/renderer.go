package certrender

import (
	"bytes"
	"fmt"
	"image"
	"regexp"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/certforge/certforge/internal/pkg/certerrors"
	"github.com/certforge/certforge/internal/pkg/constants"
	"github.com/certforge/certforge/internal/pkg/templates"
)

// RenderRequest carries everything needed to draw one certificate.
type RenderRequest struct {
	ParticipantName  string
	EventName        string
	OrganizationName string
	// QRCodePNG is the pre-encoded verification code graphic. Empty for
	// previews, which render without a code.
	QRCodePNG []byte
	Spec      *templates.RenderSpec
}

// Renderer composites participant, event and organization text, the
// verification QR code and an optional logo onto the template base image.
// All text is vector-drawn onto the canvas, never baked into a lossy copy.
type Renderer struct {
	// OpenImage resolves an image reference to pixels. Defaults to reading
	// from the local filesystem; tests substitute in-memory images.
	OpenImage func(ref string) (image.Image, error)
}

func NewRenderer() *Renderer {
	return &Renderer{OpenImage: openImageFile}
}

func openImageFile(ref string) (image.Image, error) {
	return imaging.Open(ref)
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func safeHexColor(hex, fallback string) string {
	if hexColorRe.MatchString(hex) {
		return hex
	}
	return fallback
}

// Render draws one certificate. Failures here are non-retryable and fail the
// participant's unit of work.
func (r *Renderer) Render(req RenderRequest) (image.Image, error) {
	if req.Spec == nil || req.Spec.BaseImageRef == "" {
		return nil, certerrors.Wrap(certerrors.KindRenderFailure, "render spec has no base image", nil)
	}

	base, err := r.OpenImage(req.Spec.BaseImageRef)
	if err != nil {
		return nil, certerrors.Wrap(certerrors.KindRenderFailure, "unreadable base image", err)
	}

	bounds := base.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w == 0 || h == 0 {
		return nil, certerrors.Wrap(certerrors.KindRenderFailure, "base image has zero dimensions", nil)
	}

	// Anchor coordinates and line offsets are defined in the 1024x768 base
	// space and scaled onto the actual canvas.
	sx := w / float64(constants.CertificateWidth)
	sy := h / float64(constants.CertificateHeight)

	dc := gg.NewContextForImage(base)

	fontColor := safeHexColor(req.Spec.FontColorHex, constants.DefaultFontColor)
	anchorX := float64(req.Spec.TextAnchorX) * sx
	anchorY := float64(req.Spec.TextAnchorY) * sy
	nameSize := float64(req.Spec.FontSizePt) * sy

	participant := SanitizeText(req.ParticipantName)
	event := SanitizeText(req.EventName)
	organization := SanitizeText(req.OrganizationName)

	lines := []struct {
		text string
		y    float64
		size float64
		bold bool
	}{
		{fmt.Sprintf("Certificate of Completion for %s", event), anchorY + float64(constants.EventLineOffsetY)*sy, nameSize * 0.6, false},
		{participant, anchorY, nameSize, true},
		{fmt.Sprintf("Issued by %s", organization), anchorY + float64(constants.OrgLineOffsetY)*sy, nameSize * 0.5, false},
	}

	for _, line := range lines {
		face, err := faceFor(req.Spec.FontFamily, line.size, line.bold)
		if err != nil {
			return nil, certerrors.Wrap(certerrors.KindRenderFailure, "loading font face", err)
		}
		dc.SetFontFace(face)
		dc.SetHexColor(fontColor)
		dc.DrawStringAnchored(line.text, anchorX, line.y, 0.5, 0.5)
	}

	if len(req.QRCodePNG) > 0 {
		if err := drawQRCode(dc, req.QRCodePNG, w, h, sx); err != nil {
			return nil, err
		}
	}

	if req.Spec.LogoRef != "" {
		if err := r.drawLogo(dc, req.Spec.LogoRef, w, h, sy); err != nil {
			return nil, err
		}
	}

	return dc.Image(), nil
}

// drawQRCode places the verification code in the bottom-right corner, sized
// relative to canvas width so it stays scannable across canvas sizes.
func drawQRCode(dc *gg.Context, qrPNG []byte, w, h, sx float64) error {
	qr, err := imaging.Decode(bytes.NewReader(qrPNG))
	if err != nil {
		return certerrors.Wrap(certerrors.KindRenderFailure, "decoding QR code image", err)
	}

	size, margin := qrPlacement(w, h, sx)
	resized := imaging.Resize(qr, size, size, imaging.Lanczos)
	dc.DrawImage(resized, int(w)-size-margin, int(h)-size-margin)
	return nil
}

// qrPlacement returns the QR edge length and corner margin in pixels.
func qrPlacement(w, h, sx float64) (size int, margin int) {
	size = int(w * constants.QRWidthFraction)
	margin = int(constants.QRMargin * sx)
	return size, margin
}

// drawLogo places the logo top-center, capped to a fraction of canvas
// height, preserving aspect ratio and never upscaling.
func (r *Renderer) drawLogo(dc *gg.Context, ref string, w, h, sy float64) error {
	logo, err := r.OpenImage(ref)
	if err != nil {
		// A missing logo should not sink the certificate; render without it.
		return nil
	}

	maxH := int(h * constants.LogoHeightFraction)
	maxW := int(w / 3)
	fitted := imaging.Fit(logo, maxW, maxH, imaging.Lanczos)

	top := int(constants.LogoTopMargin * sy)
	left := (int(w) - fitted.Bounds().Dx()) / 2
	dc.DrawImage(fitted, left, top)
	return nil
}
