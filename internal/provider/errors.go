package provider

import "github.com/cockroachdb/errors"

// StatusCoder is implemented by provider errors that carry an upstream HTTP
// status.
type StatusCoder interface {
	StatusCode() int
}

// StatusCode extracts the HTTP status from an error chain.
func StatusCode(err error) (int, bool) {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return 0, false
}
