package collector

import (
	"fmt"
	"net/http"
)

// CollectorError wraps an error with the collector that produced it.
type CollectorError struct {
	Collector string
	Err       error
}

func (e *CollectorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collector, e.Err)
}

func (e *CollectorError) Unwrap() error {
	return e.Err
}

// StatusError is a non-200 answer from GitHub.
type StatusError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	return msg
}
