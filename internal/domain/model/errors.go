package model

import "errors"

// Sentinel error kinds shared by the engine components. Callers match them
// with errors.Is.
var (
	// ErrPrecondition reports missing required input, e.g. no transcript.
	ErrPrecondition = errors.New("precondition failed")
	// ErrProcessing reports a failure while scoring or filtering, e.g. an
	// empty catalog.
	ErrProcessing = errors.New("processing failed")
	// ErrNoData reports a summary request without reviews.
	ErrNoData = errors.New("no data")
	// ErrInvalidReview reports a review whose rating is outside 1..5.
	ErrInvalidReview = errors.New("invalid review")
	// ErrCancelled reports that the caller's context ended before a result
	// was available.
	ErrCancelled = errors.New("operation cancelled")
)
