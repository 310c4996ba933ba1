package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/eventwise/internal/adapters/repository"
	service "github.com/okian/eventwise/internal/app"
	"github.com/okian/eventwise/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrPromptLength = errors.New("prompt too long")
)

// Wrap annotates err with the failing operation.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// statusFor maps an error to an HTTP status and a stable error code.
// Deadline is checked before cancellation since timeouts carry both.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, model.ErrCancelled), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "cancelled"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, model.ErrPrecondition):
		return http.StatusPreconditionFailed, "precondition_failed"
	case errors.Is(err, model.ErrProcessing):
		return http.StatusUnprocessableEntity, "processing_failed"
	case errors.Is(err, model.ErrNoData):
		return http.StatusNotFound, "no_data"
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrDuplicateReview):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrPromptLength),
		errors.Is(err, model.ErrInvalidReview),
		errors.Is(err, service.ErrInvalidTranscript):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
