package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access methods for payroll records and the
// attendance aggregation they are generated from.
type PayrollRepository interface {
	// AggregateAttendance groups every attendance row with date in
	// [periodStart, periodEnd] by employee. Employees without rows in the
	// period are not returned. The scan is one query, so the result is a
	// single consistent snapshot of the store.
	AggregateAttendance(ctx context.Context, periodStart, periodEnd time.Time) ([]EmployeeAggregate, error)

	// UpsertRecord inserts a payroll record or, when one exists for the
	// same (employee, period_start, period_end), overwrites its figures
	// and resets it to draft. One call is one atomic operation.
	UpsertRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	GetRecordByID(ctx context.Context, id string) (PayrollRecord, error)
	ListRecords(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)

	// Approve moves a draft record to approved, recording who approved
	// it. Any other current status yields a StateConflictError.
	Approve(ctx context.Context, id string, approvedBy string) (PayrollRecord, error)

	// MarkPaid moves an approved record to paid. Any other current status
	// yields a StateConflictError.
	MarkPaid(ctx context.Context, id string) (PayrollRecord, error)

	// GetPeriodSummary sums figures and counts statuses across every
	// payroll record whose period falls inside [periodStart, periodEnd].
	GetPeriodSummary(ctx context.Context, periodStart, periodEnd time.Time) (PeriodSummaryResponse, error)
}
