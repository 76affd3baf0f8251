package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks validation failures so the HTTP layer can answer 400
// instead of 500. Wrap with invalidf; check with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
