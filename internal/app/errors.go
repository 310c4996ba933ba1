package service

import "errors"

// Sentinel error kinds for the service facade.
var (
	// ErrBackpressure reports that the job queue is full.
	ErrBackpressure = errors.New("backpressure: job queue full")
	// ErrNotStarted reports an operation on a service that is not running.
	ErrNotStarted = errors.New("service not started")
	// ErrSessionNotFound reports an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidTranscript reports a transcript without courses or with an
	// unnamed course.
	ErrInvalidTranscript = errors.New("invalid transcript")
	// ErrDuplicateReview reports a review whose id was already submitted
	// for the same event.
	ErrDuplicateReview = errors.New("duplicate review")
	// ErrEmptySessionID reports a blank session id.
	ErrEmptySessionID = errors.New("empty session id")
)
