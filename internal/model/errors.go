package model

import (
	"errors"

	"github.com/rotisserie/eris"
)

// ErrorKind is the wire-level error taxonomy. Failures local to a single
// escalation tier never fail the overall request as long as a prior tier
// succeeded; only a Tier 1 failure is request-fatal.
type ErrorKind string

const (
	ErrKindValidation          ErrorKind = "validation_error"
	ErrKindQualityCheck        ErrorKind = "quality_check_failed"
	ErrKindProviderUnavailable ErrorKind = "provider_unavailable"
	ErrKindJSONParse           ErrorKind = "json_parse_error"
	ErrKindStreaming           ErrorKind = "streaming_error"
	ErrKindCancelled           ErrorKind = "cancelled"
	ErrKindInternal            ErrorKind = "internal_error"
)

// Sentinel errors for the taxonomy. Wrap with eris to add call-site context;
// classify with KindOf.
var (
	ErrValidation          = eris.New("validation error")
	ErrQualityCheck        = eris.New("quality check failed")
	ErrProviderUnavailable = eris.New("provider unavailable")
	ErrJSONParse           = eris.New("model output unparsable")
	ErrStreaming           = eris.New("streaming error")
	ErrCancelled           = eris.New("request cancelled")
)

// KindOf maps an error chain to its ErrorKind. Unrecognised errors are
// internal_error; nil maps to the empty kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return ErrKindValidation
	case errors.Is(err, ErrQualityCheck):
		return ErrKindQualityCheck
	case errors.Is(err, ErrProviderUnavailable):
		return ErrKindProviderUnavailable
	case errors.Is(err, ErrJSONParse):
		return ErrKindJSONParse
	case errors.Is(err, ErrStreaming):
		return ErrKindStreaming
	case errors.Is(err, ErrCancelled):
		return ErrKindCancelled
	default:
		return ErrKindInternal
	}
}
