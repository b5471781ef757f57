// Package pdf turns rendered certificates into PDF documents. Raster
// certificates get wrapped one image per page; builder certificates are
// printed from HTML through a headless browser.
package pdf

import (
	"bytes"
	"image"
	_ "image/png"

	"github.com/go-pdf/fpdf"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

// A4 landscape with 10mm margins on every side.
const (
	pageWidthMM  = 297.0
	pageHeightMM = 210.0
	pageMarginMM = 10.0
)

// FromPNG wraps a rendered certificate image in a single-page landscape A4
// document. The image keeps its aspect ratio and is centered in the
// printable area.
func FromPNG(png []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, certerrors.Wrap(certerrors.KindConversionFailure, "decoding certificate image", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, certerrors.New(certerrors.KindConversionFailure, "certificate image has no pixels")
	}

	doc := fpdf.New(fpdf.OrientationLandscape, fpdf.UnitMillimeter, fpdf.PageSizeA4, "")
	doc.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	doc.RegisterImageOptionsReader("certificate", opts, bytes.NewReader(png))
	if doc.Err() {
		return nil, certerrors.Wrap(certerrors.KindConversionFailure, "registering certificate image", doc.Error())
	}

	x, y, w, h := placement(cfg.Width, cfg.Height)
	doc.ImageOptions("certificate", x, y, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, certerrors.Wrap(certerrors.KindConversionFailure, "writing certificate document", err)
	}
	return buf.Bytes(), nil
}

// placement fits a pixel rectangle into the printable area, centered, with
// the aspect ratio preserved.
func placement(pxW, pxH int) (x, y, w, h float64) {
	availW := pageWidthMM - 2*pageMarginMM
	availH := pageHeightMM - 2*pageMarginMM

	scale := availW / float64(pxW)
	if s := availH / float64(pxH); s < scale {
		scale = s
	}
	w = float64(pxW) * scale
	h = float64(pxH) * scale
	x = pageMarginMM + (availW-w)/2
	y = pageMarginMM + (availH-h)/2
	return x, y, w, h
}

// IsPDF reports whether data starts with the PDF file signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}
