package summary

import "errors"

// ErrEmptyEventID is returned when a summary is requested without an event id.
var ErrEmptyEventID = errors.New("empty event id")
