package certrender

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// The renderer ships the Go font family so no font assets need to be
// installed. Template font families map onto the embedded faces; unknown
// families fall back to the regular face.

var (
	fontOnce    sync.Once
	fontErr     error
	regularFont *opentype.Font
	boldFont    *opentype.Font
	italicFont  *opentype.Font
)

func loadFonts() error {
	fontOnce.Do(func() {
		regularFont, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			return
		}
		boldFont, fontErr = opentype.Parse(gobold.TTF)
		if fontErr != nil {
			return
		}
		italicFont, fontErr = opentype.Parse(goitalic.TTF)
	})
	return fontErr
}

// faceFor builds a font.Face for the given family and pixel size. The bold
// flag upgrades the regular family, matching how participant names are
// emphasized relative to the secondary lines.
func faceFor(family string, size float64, bold bool) (font.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("parsing embedded fonts: %w", err)
	}

	f := regularFont
	switch family {
	case "bold", "sans-bold":
		f = boldFont
	case "italic", "sans-italic":
		f = italicFont
	default:
		if bold {
			f = boldFont
		}
	}

	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
