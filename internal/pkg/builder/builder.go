// Package builder produces custom certificate markup for the interactive
// designer. The output is a self-contained HTML document sized for a
// landscape A4 print, consumed by the headless-browser PDF printer.
package builder

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"regexp"
	"time"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

// Config is the designer state for one certificate document.
type Config struct {
	Title          string `json:"title" form:"title"`
	Subtitle       string `json:"subtitle" form:"subtitle"`
	RecipientName  string `json:"recipient_name" form:"recipient_name"`
	Description    string `json:"description" form:"description"`
	Date           string `json:"date" form:"date"`
	Signature      string `json:"signature" form:"signature"`
	PrimaryColor   string `json:"primary_color" form:"primary_color"`
	SecondaryColor string `json:"secondary_color" form:"secondary_color"`
	FontFamily     string `json:"font_family" form:"font_family"`
	BorderStyle    string `json:"border_style" form:"border_style"`
	ShowBadge      bool   `json:"show_badge" form:"show_badge"`
	BadgeText      string `json:"badge_text" form:"badge_text"`
	BadgeIcon      string `json:"badge_icon" form:"badge_icon"`
	LogoDataURL    string `json:"logo_data_url" form:"logo_data_url"`
	QRCodeDataURL  string `json:"-" form:"-"`
	CertificateID  string `json:"-" form:"-"`
}

const (
	defaultTitle       = "Certificate of Achievement"
	defaultDescription = "For outstanding performance and dedication in completing the advanced training program with exceptional results and demonstrating remarkable commitment to excellence."
	defaultPrimary     = "#0891b2"
	defaultSecondary   = "#fbbf24"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// borderStyles are the frame variants the designer offers. "classic" is the
// corner-bracket frame, "modern" uses flat accent bars, "ornate" draws an
// inset double frame, "none" suppresses the frame entirely.
var borderStyles = map[string]bool{
	"classic": true,
	"modern":  true,
	"ornate":  true,
	"none":    true,
}

// badgeIcons holds the SVG bodies for the seal presets. The values are fixed
// literals, never user input, so template.HTML is safe here.
var badgeIcons = map[string]template.HTML{
	"award":    `<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M9 12l2 2 4-4M7.835 4.697a3.42 3.42 0 001.946-.806 3.42 3.42 0 014.438 0 3.42 3.42 0 001.946.806 3.42 3.42 0 013.138 3.138 3.42 3.42 0 00.806 1.946 3.42 3.42 0 010 4.438 3.42 3.42 0 00-.806 1.946 3.42 3.42 0 01-3.138 3.138 3.42 3.42 0 00-1.946.806 3.42 3.42 0 01-4.438 0 3.42 3.42 0 00-1.946-.806 3.42 3.42 0 01-3.138-3.138 3.42 3.42 0 00-.806-1.946 3.42 3.42 0 010-4.438 3.42 3.42 0 00.806-1.946 3.42 3.42 0 013.138-3.138z"/>`,
	"star":     `<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M11.049 2.927c.3-.921 1.603-.921 1.902 0l1.519 4.674a1 1 0 00.95.69h4.915c.969 0 1.371 1.24.588 1.81l-3.976 2.888a1 1 0 00-.363 1.118l1.518 4.674c.3.922-.755 1.688-1.538 1.118l-3.976-2.888a1 1 0 00-1.176 0l-3.976 2.888c-.783.57-1.838-.197-1.538-1.118l1.518-4.674a1 1 0 00-.363-1.118l-3.976-2.888c-.784-.57-.38-1.81.588-1.81h4.914a1 1 0 00.951-.69l1.519-4.674z"/>`,
	"shield":   `<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M9 12l2 2 4-4m5.618-4.016A11.955 11.955 0 0112 2.944a11.955 11.955 0 01-8.618 3.04A12.02 12.02 0 003 9c0 5.591 3.824 10.29 9 11.622 5.176-1.332 9-6.03 9-11.622 0-1.042-.133-2.052-.382-3.016z"/>`,
	"trophy":   `<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M12 8v13m0-13V6a2 2 0 112 2h-2zm0 0V5.5A2.5 2.5 0 109.5 8H12zm-7 4h14M5 12a2 2 0 110-4h14a2 2 0 110 4M5 12v7a2 2 0 002 2h10a2 2 0 002-2v-7"/>`,
	"medal":    `<circle cx="12" cy="8" r="6" stroke="currentColor" stroke-width="2" fill="none"/><path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M8.5 14L7 22l5-3 5 3-1.5-8"/>`,
	"crown":    `<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M5 3l2 7 5-5 5 5 2-7-9 3-5-3zm0 18h14v-2H5v2z"/>`,
	"sparkles": `<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M5 3v4M3 5h4M6 17v4m-2-2h4m5-16l2.286 6.857L21 12l-5.714 2.143L13 21l-2.286-6.857L5 12l5.714-2.143L13 3z"/>`,
	"check":    `<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M9 12l2 2 4-4m6 2a9 9 0 11-18 0 9 9 0 0118 0z"/>`,
	"hexagon":  `<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M12 2L2 7v10l10 5 10-5V7l-10-5z"/>`,
}

// applyDefaults fills empty fields and discards color values that are not
// plain six-digit hex. Colors are interpolated into CSS, so anything else
// is rejected rather than escaped.
func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Subtitle == "" {
		c.Subtitle = "This certificate is proudly presented to"
	}
	if c.RecipientName == "" {
		c.RecipientName = "Recipient Name"
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	if c.Date == "" {
		c.Date = time.Now().Format("January 2, 2006")
	}
	if c.Signature == "" {
		c.Signature = "Director Signature"
	}
	if !hexColorRe.MatchString(c.PrimaryColor) {
		c.PrimaryColor = defaultPrimary
	}
	if !hexColorRe.MatchString(c.SecondaryColor) {
		c.SecondaryColor = defaultSecondary
	}
	if c.FontFamily != "serif" && c.FontFamily != "sans" {
		c.FontFamily = "serif"
	}
	if !borderStyles[c.BorderStyle] {
		c.BorderStyle = "classic"
	}
	if _, ok := badgeIcons[c.BadgeIcon]; !ok {
		c.BadgeIcon = "award"
	}
	if c.ShowBadge && c.BadgeText == "" {
		c.BadgeText = "Excellence"
	}
}

type viewData struct {
	Config
	FontStack   template.CSS
	Primary     template.CSS
	Secondary   template.CSS
	LogoURL     template.URL
	QRCodeURL   template.URL
	BadgeIconMarkup template.HTML
	ShortID     string
	ShowLogo    bool
	ShowShortID bool
}

// Render produces the printable HTML document for the given designer state.
func Render(cfg Config) (string, error) {
	cfg.applyDefaults()

	data := viewData{
		Config:    cfg,
		Primary:   template.CSS(cfg.PrimaryColor),
		Secondary: template.CSS(cfg.SecondaryColor),
	}
	if cfg.FontFamily == "serif" {
		data.FontStack = template.CSS("'Playfair Display', Georgia, serif")
	} else {
		data.FontStack = template.CSS("'Inter', Arial, sans-serif")
	}
	if cfg.ShowBadge {
		data.BadgeIconMarkup = badgeIcons[cfg.BadgeIcon]
	}
	if url, ok := safeImageURL(cfg.LogoDataURL); ok {
		data.LogoURL = url
		data.ShowLogo = true
	}
	if url, ok := safeImageURL(cfg.QRCodeDataURL); ok {
		data.QRCodeURL = url
	}
	if len(cfg.CertificateID) >= 8 {
		data.ShortID = cfg.CertificateID[:8]
		data.ShowShortID = true
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", certerrors.Wrap(certerrors.KindRenderFailure, "rendering certificate markup", err)
	}
	return buf.String(), nil
}

// DataURL wraps raw image bytes for inline embedding.
func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

var dataImageRe = regexp.MustCompile(`^data:image/(png|jpeg|gif|webp|svg\+xml);base64,[A-Za-z0-9+/=]+$`)

// safeImageURL admits only base64 image data URLs. Everything else (remote
// URLs, javascript:, malformed input) is dropped.
func safeImageURL(raw string) (template.URL, bool) {
	if !dataImageRe.MatchString(raw) {
		return "", false
	}
	return template.URL(raw), true
}
