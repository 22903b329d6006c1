package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for reporting to API callers
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConfiguration
	KindExtraction
	KindArtifactMissing
	KindStore
	KindNotFound
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindExtraction:
		return "extraction"
	case KindArtifactMissing:
		return "artifact_missing"
	case KindStore:
		return "store"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// StatusCode maps an error kind to its HTTP status
func StatusCode(k Kind) int {
	switch k {
	case KindValidation, KindExtraction:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error with a kind and a caller-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation reports bad caller input
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Configuration reports a missing or invalid service setting
func Configuration(message string) *Error {
	return New(KindConfiguration, message)
}

// Extraction reports a failure returned by the extraction tool
func Extraction(err error) *Error {
	return Wrap(KindExtraction, fmt.Sprintf("Download failed: %v", err), err)
}

// ArtifactMissing reports an extraction that produced no output file
func ArtifactMissing(message string) *Error {
	return New(KindArtifactMissing, message)
}

// Store reports a failed object store operation; the store message is kept verbatim
func Store(err error) *Error {
	return Wrap(KindStore, err.Error(), err)
}

// NotFound reports a lookup of something that does not exist
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// Message returns the caller-facing message for err
func Message(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}
