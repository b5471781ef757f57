package verify

import (
	"fmt"
	"regexp"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/certforge/certforge/internal/pkg/certerrors"
	"github.com/certforge/certforge/internal/pkg/constants"
)

// QRCodeSize is the pixel edge length of the generated code. Together with
// the medium error-correction tier and the default quiet zone this keeps the
// code scannable down to roughly 2cm of print width.
const QRCodeSize = 256

// Certificate ids are 128-bit random tokens in canonical lowercase
// hyphenated hex form. The syntax check runs before any store lookup.
var idPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsWellFormed reports whether id has the canonical token shape. It never
// touches the store, so malformed input is rejected cheaply.
func IsWellFormed(id string) bool {
	return idPattern.MatchString(id)
}

// VerificationURL derives the public lookup URL embedded in issued codes.
// The format is load-bearing: it is printed, unchangeable, inside already
// issued certificates.
func VerificationURL(publicBaseURL, certificateID string) string {
	return fmt.Sprintf("%s%s/%s", strings.TrimRight(publicBaseURL, "/"), constants.VerifyRoute, certificateID)
}

// EncodeQR renders the verification URL as a PNG QR code with medium error
// correction and the library's standard quiet-zone border.
func EncodeQR(verificationURL string) ([]byte, error) {
	png, err := qrcode.Encode(verificationURL, qrcode.Medium, QRCodeSize)
	if err != nil {
		return nil, certerrors.Wrap(certerrors.KindRenderFailure, "encoding verification QR code", err)
	}
	return png, nil
}
