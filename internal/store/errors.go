package store

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input rejection in this package.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptySubject     = fmt.Errorf("%w: subject is empty", ErrValidation)
	ErrInvalidDuration  = fmt.Errorf("%w: duration must be at least 1 minute", ErrValidation)
	ErrDuplicateSubject = fmt.Errorf("%w: subject already exists", ErrValidation)
	ErrInvalidTarget    = fmt.Errorf("%w: target hours must be a positive number", ErrValidation)
)

// ErrUnavailable means the substrate could not be read, so a change that
// depends on the stored state was not attempted.
var ErrUnavailable = errors.New("storage unavailable")
