package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFillsDefaults(t *testing.T) {
	html, err := Render(Config{})
	require.NoError(t, err)

	assert.Contains(t, html, "Certificate of Achievement")
	assert.Contains(t, html, "Recipient Name")
	assert.Contains(t, html, "#0891b2", "default primary color")
	assert.Contains(t, html, "#fbbf24", "default secondary color")
	assert.Contains(t, html, "Playfair Display", "serif is the default type stack")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(html), "<!DOCTYPE html>"))
}

func TestRenderUsesConfigValues(t *testing.T) {
	html, err := Render(Config{
		Title:          "Certificate of Completion",
		RecipientName:  "Jane Doe",
		Description:    "Completed the Go bootcamp.",
		Date:           "June 14, 2025",
		Signature:      "Dr. Smith",
		PrimaryColor:   "#112233",
		SecondaryColor: "#445566",
		FontFamily:     "sans",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "Certificate of Completion")
	assert.Contains(t, html, "June 14, 2025")
	assert.Contains(t, html, "Dr. Smith")
	assert.Contains(t, html, "#112233")
	assert.Contains(t, html, "Inter", "sans selects the Inter stack")
}

func TestRenderEscapesUserText(t *testing.T) {
	html, err := Render(Config{RecipientName: `<script>alert("x")</script>`})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderRejectsUnsafeValues(t *testing.T) {
	html, err := Render(Config{
		PrimaryColor: "red; } body { display:none",
		LogoDataURL:  "javascript:alert(1)",
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "display:none", "non-hex colors fall back to defaults")
	assert.NotContains(t, html, "javascript:alert")
	assert.NotContains(t, html, "logo-container", "unsafe logo URLs drop the logo block")
}

func TestRenderEmbedsQRAndShortID(t *testing.T) {
	qr := DataURL("image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	html, err := Render(Config{
		QRCodeDataURL: qr,
		CertificateID: "8a6e0804-2bd0-4672-b79d-d97027f9071a",
	})
	require.NoError(t, err)

	assert.Contains(t, html, qr)
	assert.Contains(t, html, "Scan to verify")
	assert.Contains(t, html, "ID: 8a6e0804")
	assert.NotContains(t, html, "d97027f9071a", "only the short prefix is printed")
}

func TestRenderBorderStyles(t *testing.T) {
	tests := []struct {
		name        string
		style       string
		contains    []string
		notContains []string
	}{
		{
			name:        "classic is the default",
			style:       "",
			contains:    []string{`class="decorative-border"`, `class="corner tl"`},
			notContains: []string{"modern-bar", "ornate-frame"},
		},
		{
			name:        "modern draws accent bars",
			style:       "modern",
			contains:    []string{`class="modern-bar top"`, `class="modern-bar bottom"`, `class="modern-wash"`},
			notContains: []string{"decorative-border", "ornate-frame"},
		},
		{
			name:        "ornate draws the double frame",
			style:       "ornate",
			contains:    []string{`class="ornate-frame"`, `class="ornate-corner br"`, `class="ornate-inner"`},
			notContains: []string{"decorative-border", "modern-bar"},
		},
		{
			name:        "none suppresses the frame",
			style:       "none",
			notContains: []string{"decorative-border", "modern-bar", "ornate-frame"},
		},
		{
			name:        "unknown falls back to classic",
			style:       "filigree",
			contains:    []string{`class="decorative-border"`},
			notContains: []string{"modern-bar", "ornate-frame"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := Render(Config{BorderStyle: tt.style})
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, html, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, html, `class="`+unwanted)
			}
		})
	}
}

func TestRenderBadge(t *testing.T) {
	html, err := Render(Config{ShowBadge: true, BadgeText: "Top Graduate", BadgeIcon: "trophy"})
	require.NoError(t, err)

	assert.Contains(t, html, `class="badge-circle"`)
	assert.Contains(t, html, "Top Graduate")
	assert.Contains(t, html, "M12 8v13", "trophy icon path is embedded")
}

func TestRenderBadgeDefaults(t *testing.T) {
	html, err := Render(Config{ShowBadge: true, BadgeIcon: "dragon"})
	require.NoError(t, err)

	assert.Contains(t, html, "Excellence", "badge text defaults when empty")
	assert.Contains(t, html, "M7.835 4.697", "unknown icons fall back to award")
}

func TestRenderWithoutBadge(t *testing.T) {
	html, err := Render(Config{BadgeText: "Top Graduate"})
	require.NoError(t, err)

	assert.NotContains(t, html, `class="badge-circle"`, "badge only renders when enabled")
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,aGk=", DataURL("image/png", []byte("hi")))
}
