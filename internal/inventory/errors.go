package inventory

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by stores when an update or delete names an id they
// do not hold.
var ErrNotFound = errors.New("record not found")

// StepError reports a failed export step. The staging set of that step is
// left untouched.
type StepError struct {
	Kind string
	Op   Op
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("failed to export %s %ss: %v", e.Kind, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
