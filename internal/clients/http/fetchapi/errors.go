package fetchapi

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

var (
	// ErrUnauthorized is returned for any 401 answer: the session cookie is missing or expired.
	ErrUnauthorized = errors.New("fetch api: unauthorized")
	// ErrTransport wraps failures that happened before an HTTP status was received.
	ErrTransport = errors.New("fetch api: transport failure")
	// ErrDecode is returned when a success response cannot be decoded.
	ErrDecode = errors.New("fetch api: malformed response")
)

// StatusError reports a non-success status other than 401.
type StatusError struct {
	Op         string
	StatusCode int
	// Problem holds the decoded problem+json body when the server sent one.
	Problem *apperrors.ProblemDetail
	Body    string
}

func (e *StatusError) Error() string {
	msg := http.StatusText(e.StatusCode)
	if e.Problem != nil {
		msg = e.Problem.Error()
	} else if e.Body != "" {
		msg = e.Body
	}
	return fmt.Sprintf("fetch api %s: status %d: %s", e.Op, e.StatusCode, msg)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
