// Package archive bundles finished certificate documents into downloadable
// zip archives and stores them locally or in an S3-compatible bucket.
package archive

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

// Document is one finished certificate ready for packaging.
type Document struct {
	ParticipantName string
	PDF             []byte
}

var (
	disallowedRe = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SanitizeFilename reduces arbitrary participant or event text to a safe
// filename fragment. Anything outside letters, digits, spaces and hyphens
// is dropped, then whitespace runs collapse to single underscores.
func SanitizeFilename(name string) string {
	cleaned := disallowedRe.ReplaceAllString(name, "")
	return whitespaceRe.ReplaceAllString(cleaned, "_")
}

// ArchiveName derives the downloadable filename for a batch archive.
func ArchiveName(eventName string, at time.Time) string {
	return fmt.Sprintf("certificates_%s_%d.zip", SanitizeFilename(eventName), at.UnixMilli())
}

// EntryName derives the in-archive filename for one certificate.
func EntryName(participantName string) string {
	return fmt.Sprintf("%s_certificate.pdf", SanitizeFilename(participantName))
}

// Pack writes all documents into a single zip archive at maximum
// compression. Entry names come from sanitized participant names; when two
// participants sanitize to the same entry the later one wins.
func Pack(docs []Document) ([]byte, error) {
	if len(docs) == 0 {
		return nil, certerrors.New(certerrors.KindPackagingFailure, "no documents to package")
	}

	// Deduplicate by entry name, keeping the last occurrence but the
	// original encounter order.
	entries := make(map[string]int, len(docs))
	order := make([]string, 0, len(docs))
	for i, doc := range docs {
		name := EntryName(doc.ParticipantName)
		if _, seen := entries[name]; !seen {
			order = append(order, name)
		}
		entries[name] = i
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, name := range order {
		doc := docs[entries[name]]
		f, err := w.Create(name)
		if err != nil {
			return nil, certerrors.Wrap(certerrors.KindPackagingFailure, fmt.Sprintf("adding %s to archive", name), err)
		}
		if _, err := f.Write(doc.PDF); err != nil {
			return nil, certerrors.Wrap(certerrors.KindPackagingFailure, fmt.Sprintf("writing %s to archive", name), err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, certerrors.Wrap(certerrors.KindPackagingFailure, "finalizing archive", err)
	}
	return buf.Bytes(), nil
}
