package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPayrollRecordNotFound = errors.New("payroll record not found")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
	ErrNoBaseSalary          = errors.New("no base salary configured and no override supplied")
)

// StateConflictError reports an illegal lifecycle transition. It carries the
// record's current status so callers can render a precise message without
// re-fetching.
type StateConflictError struct {
	RecordID  string
	Current   Status
	Attempted string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s payroll record in status %q", e.Attempted, e.Current)
}

// IsStateConflict reports whether err is a lifecycle state conflict.
func IsStateConflict(err error) (*StateConflictError, bool) {
	var conflict *StateConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}
