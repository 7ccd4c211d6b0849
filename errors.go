package ovassess

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable reports that no classifier artifact is loaded. It is
// fatal for the request: no prediction is possible without the model, and
// it is the only classifier problem surfaced to the end user.
var ErrModelUnavailable = errors.New("classifier unavailable")

// InferenceError reports that the classifier raised while scoring, most
// often a schema/shape mismatch. It fails the request and is not retried:
// rescoring an incompatible vector cannot succeed.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
