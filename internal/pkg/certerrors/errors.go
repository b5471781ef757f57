// Package certerrors defines the stable error kinds surfaced by the
// certificate pipeline and the verification service. Callers match on Kind
// (or errors.Is against the exported sentinels); the message is for humans.
package certerrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindTemplateNotFound     Kind = "template_not_found"
	KindEmptyParticipantList Kind = "empty_participant_list"
	KindQuotaExceeded        Kind = "quota_exceeded"
	KindRenderFailure        Kind = "render_failure"
	KindConversionFailure    Kind = "conversion_failure"
	KindPackagingFailure     Kind = "packaging_failure"
	KindRecordNotFound       Kind = "record_not_found"
	KindMalformedIdentifier  Kind = "malformed_identifier"
	KindInternal             Kind = "internal"
)

// Error carries a machine-readable kind alongside the human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes two pipeline errors of the same kind match under errors.Is, so
// sentinel values below work as comparison targets.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, KindInternal if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Sentinels for errors.Is checks.
var (
	ErrTemplateNotFound     = New(KindTemplateNotFound, "template not found")
	ErrEmptyParticipantList = New(KindEmptyParticipantList, "participant list is empty")
	ErrQuotaExceeded        = New(KindQuotaExceeded, "certificate limit exceeded")
	ErrRenderFailure        = New(KindRenderFailure, "failed to render certificate image")
	ErrConversionFailure    = New(KindConversionFailure, "failed to convert certificate to document")
	ErrPackagingFailure     = New(KindPackagingFailure, "failed to package certificate archive")
	ErrRecordNotFound       = New(KindRecordNotFound, "certificate not found")
	ErrMalformedIdentifier  = New(KindMalformedIdentifier, "invalid certificate id format")
)
