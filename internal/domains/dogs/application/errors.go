package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/ports"
	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

var (
	// ErrSuperseded is returned by a search whose answer arrived after a newer search was issued.
	// Its result was dropped and the visible state was left alone.
	ErrSuperseded = errors.New("search superseded by a newer request")
	// ErrEmptyMatch means the catalog answered without picking a dog.
	ErrEmptyMatch = errors.New("catalog returned no match")
	// ErrMatchNotFound means the matched id could not be loaded.
	ErrMatchNotFound = errors.New("matched dog could not be loaded")
)

// remoteError converts a catalog failure into the client taxonomy. Unauthorized answers end the session.
func remoteError(ctx context.Context, expirer ports.SessionExpirer, op, action string, err error) error {
	if errors.Is(err, ports.ErrUnauthorized) {
		expirer.Expire(ctx)
	}
	return classify(op, action, err)
}

// classify maps a catalog failure onto the taxonomy without side effects.
func classify(op, action string, err error) error {
	if errors.Is(err, ports.ErrUnauthorized) {
		return apperrors.SessionExpired(op, err)
	}
	return apperrors.Fetch(op, action, err)
}

func validationError(op string, err error) error {
	e := apperrors.Validation(op, err.Error())
	e.Err = err
	return e
}
