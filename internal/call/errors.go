package call

import (
	"errors"
	"fmt"
)

// ErrUnknownTarget means the requested target ID does not resolve to a
// stored target. A user-configuration problem, not a bug.
var ErrUnknownTarget = errors.New("unknown target")

// ErrNoPrimaryTarget means join-primary was invoked with no target marked
// primary (or an empty target list).
var ErrNoPrimaryTarget = errors.New("no primary target configured")

// BusyError rejects a join issued while the controller is not idle. Joins
// are rejected outright rather than queued or switched; the caller shows a
// transient notice and moves on.
type BusyError struct {
	State State
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("cannot join while %s", e.State)
}

// IsBusy reports whether err is a busy rejection.
func IsBusy(err error) bool {
	var be *BusyError
	return errors.As(err, &be)
}
