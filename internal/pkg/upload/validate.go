// Package upload validates custom template images before they enter the
// rendering pipeline. Extension and sniffed content type are checked
// against a whitelist; SVG stays excluded because it can carry script.
package upload

import (
	"bytes"
	"errors"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/certforge/certforge/app/models"
	"github.com/rwcarlsen/goexif/exif"
)

// Template bases render at 1024x768, so anything smaller than 800x600
// degrades too much when scaled up.
const (
	MinTemplateWidth  = 800
	MinTemplateHeight = 600
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// ValidateImageBySniff checks the filename extension and the first bytes
// against the whitelist. Returns the detected mime type or an error.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", errors.New("only JPG, JPEG, PNG, GIF, WEBP and BMP images are supported")
	}

	detected := http.DetectContentType(head)

	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", errors.New("invalid file type: HTML content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return "", errors.New("SVG and XML files are not supported")
	}

	// Some encoders produce heads Go sniffs as octet-stream; trust the
	// extension for those.
	if detected == "application/octet-stream" && allowedExt[ext] {
		return detected, nil
	}

	if allowedMime[detected] {
		return detected, nil
	}

	return "", errors.New("unsupported file type")
}

// ValidateTemplateImage runs the sniff check and enforces the minimum
// dimensions for a certificate base image.
func ValidateTemplateImage(filename string, data []byte) (string, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mime, err := ValidateImageBySniff(filename, head)
	if err != nil {
		return "", err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", errors.New("the uploaded file is not a readable image")
	}
	if cfg.Width < MinTemplateWidth || cfg.Height < MinTemplateHeight {
		return "", errors.New("template images must be at least 800x600 pixels")
	}
	return mime, nil
}

// ExtractMetadata captures camera EXIF fields from an uploaded template.
// Most template images carry none; the result is nil in that case.
func ExtractMetadata(data []byte) *models.JSON {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	raw, err := x.MarshalJSON()
	if err != nil {
		return nil
	}
	j := models.JSON(raw)
	return &j
}
