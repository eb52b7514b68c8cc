package questiongen

import (
	"errors"
	"fmt"
)

// ErrEmptyQuestion is returned when the reasoning service answered with
// no usable question text.
var ErrEmptyQuestion = errors.New("empty question")

// GenerationError reports that a call to the reasoning service did not
// complete. Callers treat it as recoverable and must not have mutated any
// persisted state before receiving it.
type GenerationError struct {
	// Op is the generator operation, e.g. "generate question".
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is or wraps a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
