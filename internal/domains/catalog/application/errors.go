package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain rule.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrUnauthenticated means the session token is missing, unknown or expired.
	ErrUnauthenticated = errors.New("session is missing or expired")
	// ErrTooMany is returned when a request names more ids than one call may carry.
	ErrTooMany = fmt.Errorf("at most %d ids per request", domain.MaxHydrate)
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidSort) ||
		errors.Is(err, domain.ErrInvalidCursor) ||
		errors.Is(err, domain.ErrNegativeAge) ||
		errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyBreed) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
