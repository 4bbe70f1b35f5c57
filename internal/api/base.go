package api

import "time"

// DefaultBaseURL is where the campus backend listens when run locally.
const DefaultBaseURL = "http://127.0.0.1:8000"

// NewDefaultClient builds a client pointed at the default campus API URL.
func NewDefaultClient(timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, timeout...)
}
