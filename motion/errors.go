package motion

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks setup errors: a required collaborator is missing or
// a parameter is out of range. They are fatal for the affected character.
var ErrConfiguration = errors.New("motion: configuration error")

type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("motion: %s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
