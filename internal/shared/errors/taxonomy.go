package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies client-side failures into the categories the front end reacts to.
type Kind string

const (
	KindAuth           Kind = "auth"
	KindSessionExpired Kind = "session_expired"
	KindFetch          Kind = "fetch"
	KindValidation     Kind = "validation"
)

// Messages shown to the user for the fixed failure modes.
const (
	MsgInvalidCredentials = "invalid credentials"
	MsgNetworkUnavailable = "network unavailable"
	MsgSessionExpired     = "your session has expired, please log in again"
	MsgNeedFavorite       = "add at least one favorite"
)

// Error is the client error taxonomy. Message is safe to show to the user.
type Error struct {
	Kind      Kind
	Op        string
	Message   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(" [")
		b.WriteString(e.Op)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind alone, e.g. errors.Is(err, &Error{Kind: KindFetch}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// Auth builds an authentication failure.
func Auth(op, message string, err error) *Error {
	return &Error{Kind: KindAuth, Op: op, Message: message, Retryable: true, Err: err}
}

// SessionExpired builds the error returned when a remote call answered unauthorized.
func SessionExpired(op string, err error) *Error {
	return &Error{Kind: KindSessionExpired, Op: op, Message: MsgSessionExpired, Err: err}
}

// Fetch builds a retryable remote failure for the named action.
func Fetch(op, action string, err error) *Error {
	return &Error{
		Kind:      KindFetch,
		Op:        op,
		Message:   fmt.Sprintf("%s failed, please try again", action),
		Retryable: true,
		Err:       err,
	}
}

// Validation builds a local input error. No remote call was made.
func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// MessageMapper converts an error into a user-facing message when it recognizes it.
type MessageMapper func(err error) (string, bool)

// UserMessage renders err for display. Mappers run first, then the taxonomy, then a generic fallback.
func UserMessage(err error, mappers ...MessageMapper) string {
	if err == nil {
		return ""
	}
	for _, m := range mappers {
		if m == nil {
			continue
		}
		if msg, ok := m(err); ok {
			return msg
		}
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Error()
	}
	return "something went wrong, please try again"
}
