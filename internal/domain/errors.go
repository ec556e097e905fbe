package domain

import "errors"

// Failure kinds reported by the metadata and lot-list fetches.
var (
	ErrRequest         = errors.New("parkendd: request failed")
	ErrServer          = errors.New("parkendd: unreadable server response")
	ErrIncompatibleAPI = errors.New("parkendd: incompatible api version")
)

// ErrorKind names the failure kind of err for logs, metrics and responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrIncompatibleAPI):
		return "incompatible_api"
	case errors.Is(err, ErrServer):
		return "server"
	case errors.Is(err, ErrRequest):
		return "request"
	default:
		return "unknown"
	}
}
