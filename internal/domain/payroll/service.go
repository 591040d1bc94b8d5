package payroll

import "context"

type PayrollService interface {
	// Generate aggregates attendance over the period, prices every
	// employee found, and upserts one draft record per employee. An
	// employee failing does not stop the rest; failures come back in
	// GenerationResult.Errors. Callers are responsible for not running
	// overlapping periods for the same employees.
	Generate(ctx context.Context, req GeneratePayrollRequest) (GenerationResult, error)

	GetRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)

	Approve(ctx context.Context, id string, approvedBy string) (PayrollRecordResponse, error)
	MarkPaid(ctx context.Context, id string) (PayrollRecordResponse, error)

	GetPeriodSummary(ctx context.Context, periodStart, periodEnd string) (PeriodSummaryResponse, error)
}
