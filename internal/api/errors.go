package api

import "fmt"

const (
	networkDetail = "network failure"
	genericDetail = "request failed"
)

// TransportError is returned for every failed call. Status is 0 when no
// HTTP response was received or the body could not be used.
type TransportError struct {
	Status int
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFound reports a 404 response.
func (e *TransportError) NotFound() bool {
	return e.Status == 404
}

func networkFailure(err error) *TransportError {
	return &TransportError{Detail: networkDetail, Err: err}
}
