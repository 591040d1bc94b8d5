package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
)

// ValidStatuses lists every status the importer accepts.
var ValidStatuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusHalfDay),
}

// Attendance - one employee's status for one calendar day. Rows are written
// once by the importer (or the absentee job) and never mutated afterwards;
// cleanup happens per upload batch.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	Status        Status
	WorkingHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	UploadBatchID *string
	UploadedBy    string
	CreatedAt     time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
