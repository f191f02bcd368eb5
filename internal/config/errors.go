package config

import (
	"errors"
	"fmt"
)

// FatalError reports a required environment variable that is not defined.
// Callers at the process boundary are expected to terminate when they see it.
type FatalError struct {
	Variable string
	Message  string
	Exit     bool
}

func (e *FatalError) Error() string {
	return e.Message
}

func missingVariable(name string) *FatalError {
	return &FatalError{
		Variable: name,
		Message:  fmt.Sprintf("environment variable %s is required but not defined", name),
		Exit:     true,
	}
}

// IsFatal reports whether err carries a *FatalError requesting termination.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal) && fatal.Exit
}
