package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// The store is append-only: rows are created individually and removed only
// per upload batch.
type AttendanceRepository interface {
	// Create inserts one attendance row. A row for the same employee and
	// date already existing surfaces as ErrDuplicateDay.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves one attendance row
	GetByID(ctx context.Context, id string) (Attendance, error)

	// List retrieves attendance rows with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// DeleteBatch removes every row created by one upload batch and
	// reports how many rows were removed.
	DeleteBatch(ctx context.Context, batchID string) (int64, error)

	// ListEmployeeIDsWithEntry returns the employees that already have a
	// row for the given day. Used by the absentee-marking job.
	ListEmployeeIDsWithEntry(ctx context.Context, date time.Time) ([]string, error)

	// CreateAbsences inserts the given rows in one transaction, skipping
	// any whose (employee, date) slot is already taken. Returns how many
	// rows were written.
	CreateAbsences(ctx context.Context, absences []Attendance) (int, error)
}
