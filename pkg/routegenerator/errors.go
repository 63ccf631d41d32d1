package routegenerator

import "errors"

var (
	ErrBadRequest   = errors.New("bad request")
	ErrStopNotFound = errors.New("bus stop not found")

	// ErrRouteServiceFailure is returned by the client for any non-successful answer, the wire
	// protocol does not carry the reason
	ErrRouteServiceFailure = errors.New("route service failure")
)
