package domain

import "errors"

var (
	// ErrNotFound is returned when the API answers 404. For daily check-ins it
	// means "nothing recorded yet" rather than a failure.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the API rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired is returned before a request is sent when the stored token has expired.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrNoSession is returned when no token has been stored yet.
	ErrNoSession = errors.New("not logged in")
	// ErrMalformedResponse wraps decode failures of an API response body.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidStatus is returned for a status outside pending|in_progress|completed.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrTaskUpdating is returned when a user action targets a task with a request in flight.
	ErrTaskUpdating = errors.New("task update already in progress")
)
