package services

import (
	stderrors "errors"

	"github.com/abrezinsky/tinydecisions/internal/engine"
	"github.com/abrezinsky/tinydecisions/internal/errors"
)

// Service errors
var (
	ErrWheelNotFound        = errors.NotFound("wheel not found")
	ErrOptionNotFound       = errors.NotFound("option not found")
	ErrPlayerNotFound       = errors.NotFound("player not found")
	ErrTitleRequired        = errors.Validation("title is required")
	ErrLabelRequired        = errors.Validation("label is required")
	ErrNoLabels             = errors.Validation("no option labels given")
	ErrUnknownTheme         = errors.Validation("unknown theme")
	ErrUnknownCoinStyle     = errors.Validation("unknown coin style")
	ErrInvalidWinnerCount   = errors.Validation("winner count must be at least 1")
	ErrSelectionInProgress  = errors.Conflict("a selection is in progress")
	ErrBaseURLNotConfigured = errors.Validation("base url not configured")
)

// Option weights are clamped to this range
const (
	MinOptionWeight = 1
	MaxOptionWeight = 100
)

// drawError classifies an engine failure as a validation error
func drawError(err error) error {
	var (
		rangeErr     *engine.InvalidRangeError
		exhaustedErr *engine.RangeExhaustedError
		countErr     *engine.InvalidCountError
	)
	switch {
	case stderrors.Is(err, engine.ErrEmptySelection):
		return errors.Wrap(err, errors.ErrValidation, "nothing to draw from")
	case stderrors.As(err, &rangeErr), stderrors.As(err, &exhaustedErr), stderrors.As(err, &countErr):
		return &errors.Error{Kind: errors.ErrValidation, Message: err.Error(), Err: err}
	default:
		return errors.Internal(err)
	}
}
