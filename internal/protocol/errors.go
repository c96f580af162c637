package protocol

import (
	"errors"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// CodeFor maps a session error to its wire error code.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return ErrorCodeEmptyQuery
	case errors.Is(err, domain.ErrBusy):
		return ErrorCodeBusy
	case errors.Is(err, domain.ErrMessageNotFound):
		return ErrorCodeNotFound
	case errors.Is(err, domain.ErrInvalidReaction):
		return ErrorCodeInvalidReaction
	case errors.Is(err, domain.ErrMalformedBatchSource):
		return ErrorCodeBatchSource
	case errors.Is(err, domain.ErrTransport):
		return ErrorCodeBackendUnavailable
	default:
		return ErrorCodeInternalError
	}
}
