package builder

import "html/template"

// documentTemplate is the printable certificate layout. The body is sized
// to the A4 landscape printable area so the browser print step does not
// reflow or paginate it.
var documentTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Certificate - {{.RecipientName}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
  width: 279mm;
  height: 194mm;
  font-family: {{.FontStack}};
  background: white;
  overflow: hidden;
  position: relative;
}
.certificate-container {
  width: 100%;
  height: 100%;
  position: relative;
  background: linear-gradient(135deg, {{.Primary}}08, {{.Secondary}}08);
  border: 3px solid {{.Primary}};
  padding: 20mm;
  display: flex;
  flex-direction: column;
  justify-content: center;
  align-items: center;
  text-align: center;
}
.decorative-border {
  position: absolute;
  top: 6mm; left: 6mm; right: 6mm; bottom: 6mm;
  border: 1px solid {{.Primary}}40;
  pointer-events: none;
}
.corner {
  position: absolute;
  width: 12mm;
  height: 12mm;
  border: 2px solid {{.Secondary}};
}
.corner.tl { top: 0; left: 0; border-right: none; border-bottom: none; }
.corner.tr { top: 0; right: 0; border-left: none; border-bottom: none; }
.corner.bl { bottom: 0; left: 0; border-right: none; border-top: none; }
.corner.br { bottom: 0; right: 0; border-left: none; border-top: none; }
.modern-bar {
  position: absolute;
  left: 0; right: 0;
  height: 3mm;
  background: {{.Primary}};
  pointer-events: none;
}
.modern-bar.top { top: 0; }
.modern-bar.bottom { bottom: 0; }
.modern-wash {
  position: absolute;
  top: 0; left: 0; bottom: 0;
  width: 28mm;
  background: linear-gradient(90deg, {{.Primary}}40 0%, transparent 100%);
  pointer-events: none;
}
.ornate-frame {
  position: absolute;
  top: 4mm; left: 4mm; right: 4mm; bottom: 4mm;
  border: 2px solid {{.Primary}}4d;
  pointer-events: none;
}
.ornate-corner {
  position: absolute;
  width: 8mm;
  height: 8mm;
  border: 2px solid {{.Primary}};
}
.ornate-corner.tl { top: -1mm; left: -1mm; border-right: none; border-bottom: none; }
.ornate-corner.tr { top: -1mm; right: -1mm; border-left: none; border-bottom: none; }
.ornate-corner.bl { bottom: -1mm; left: -1mm; border-right: none; border-top: none; }
.ornate-corner.br { bottom: -1mm; right: -1mm; border-left: none; border-top: none; }
.ornate-inner {
  position: absolute;
  top: 8mm; left: 8mm; right: 8mm; bottom: 8mm;
  border: 1px solid {{.Secondary}}33;
  pointer-events: none;
}
.logo-container {
  position: absolute;
  top: 10mm; left: 10mm;
  max-height: 18mm;
  max-width: 35mm;
}
.logo-container img { max-height: 100%; max-width: 100%; object-fit: contain; }
.qr-container {
  position: absolute;
  top: 10mm; right: 10mm;
  width: 18mm;
  height: 18mm;
}
.qr-container img {
  width: 100%;
  height: 100%;
  border: 1px solid #ddd;
  border-radius: 1mm;
}
.verification-text {
  position: absolute;
  top: 30mm; right: 10mm;
  width: 18mm;
  font-size: 7px;
  color: #666;
  text-align: center;
}
.title {
  color: {{.Primary}};
  font-size: 40px;
  margin-bottom: 6mm;
  font-weight: bold;
  letter-spacing: 1px;
}
.subtitle {
  font-size: 14px;
  margin-bottom: 10mm;
  color: #666;
  font-style: italic;
}
.recipient {
  color: {{.Secondary}};
  font-size: 32px;
  margin-bottom: 10mm;
  font-weight: bold;
  border-bottom: 2px solid {{.Secondary}};
  padding-bottom: 3mm;
  display: inline-block;
  min-width: 160mm;
}
.description {
  font-size: 13px;
  line-height: 1.5;
  margin-bottom: 12mm;
  max-width: 180mm;
  color: #444;
  text-align: justify;
}
.footer {
  position: absolute;
  bottom: 10mm; left: 20mm; right: 20mm;
  display: flex;
  justify-content: space-between;
}
.footer-item { text-align: center; color: #666; flex: 1; }
.footer-label {
  font-size: 9px;
  text-transform: uppercase;
  letter-spacing: 1px;
  margin-bottom: 2mm;
  font-weight: 600;
}
.footer-value {
  font-size: 12px;
  font-weight: 500;
  border-top: 2px solid {{.Primary}};
  padding-top: 2mm;
  min-width: 45mm;
}
.badge {
  position: absolute;
  bottom: 26mm; left: 50%;
  transform: translateX(-50%);
  text-align: center;
  z-index: 5;
}
.badge-circle {
  width: 16mm;
  height: 16mm;
  border-radius: 50%;
  background: {{.Secondary}};
  border: 3px solid white;
  box-shadow: 0 1mm 2mm rgba(0, 0, 0, 0.2);
  display: flex;
  align-items: center;
  justify-content: center;
  margin: 0 auto;
  color: white;
}
.badge-circle svg { width: 8mm; height: 8mm; }
.badge-label {
  margin-top: 1.5mm;
  display: inline-block;
  padding: 1mm 2.5mm;
  font-size: 9px;
  font-weight: bold;
  color: white;
  background: {{.Secondary}};
  border-radius: 1mm;
  white-space: nowrap;
}
.certificate-id {
  position: absolute;
  bottom: 3mm; right: 6mm;
  font-size: 7px;
  color: #999;
  font-family: monospace;
}
@media print {
  .certificate-container { page-break-inside: avoid; }
}
</style>
</head>
<body>
<div class="certificate-container">
{{if eq .BorderStyle "classic"}}  <div class="decorative-border">
    <div class="corner tl"></div>
    <div class="corner tr"></div>
    <div class="corner bl"></div>
    <div class="corner br"></div>
  </div>
{{else if eq .BorderStyle "modern"}}  <div class="modern-bar top"></div>
  <div class="modern-bar bottom"></div>
  <div class="modern-wash"></div>
{{else if eq .BorderStyle "ornate"}}  <div class="ornate-frame">
    <div class="ornate-corner tl"></div>
    <div class="ornate-corner tr"></div>
    <div class="ornate-corner bl"></div>
    <div class="ornate-corner br"></div>
  </div>
  <div class="ornate-inner"></div>
{{end}}{{if .ShowLogo}}  <div class="logo-container"><img src="{{.LogoURL}}" alt="Organization Logo"></div>
{{end}}{{if .QRCodeURL}}  <div class="qr-container"><img src="{{.QRCodeURL}}" alt="Verification QR Code"></div>
  <div class="verification-text">Scan to verify</div>
{{end}}  <h1 class="title">{{.Title}}</h1>
  <p class="subtitle">{{.Subtitle}}</p>
  <h2 class="recipient">{{.RecipientName}}</h2>
  <p class="description">{{.Description}}</p>
  <div class="footer">
    <div class="footer-item">
      <div class="footer-label">Date of Issue</div>
      <div class="footer-value">{{.Date}}</div>
    </div>
    <div class="footer-item">
      <div class="footer-label">Signature</div>
      <div class="footer-value">{{.Signature}}</div>
    </div>
  </div>
{{if .ShowBadge}}  <div class="badge">
    <div class="badge-circle">
      <svg viewBox="0 0 24 24" fill="none" stroke="currentColor">{{.BadgeIconMarkup}}</svg>
    </div>
    <div class="badge-label">{{.BadgeText}}</div>
  </div>
{{end}}{{if .ShowShortID}}  <div class="certificate-id">ID: {{.ShortID}}</div>
{{end}}</div>
</body>
</html>
`))
