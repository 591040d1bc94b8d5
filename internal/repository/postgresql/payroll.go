package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== AGGREGATION ==========

func (r *payrollRepository) AggregateAttendance(ctx context.Context, periodStart, periodEnd time.Time) ([]payroll.EmployeeAggregate, error) {
	q := GetQuerier(ctx, r.db)

	// Late days count toward presence; half days weigh 0.5.
	query := `
		SELECT
			employee_id,
			COUNT(*) FILTER (WHERE status IN ('present', 'late'))
				+ 0.5 * COUNT(*) FILTER (WHERE status = 'half_day') as present_days,
			COUNT(*) FILTER (WHERE status = 'absent') as absent_days,
			COUNT(*) FILTER (WHERE status = 'late') as late_days,
			COALESCE(SUM(working_hours), 0) as total_working_hours,
			COALESCE(SUM(overtime_hours), 0) as total_overtime_hours
		FROM attendances
		WHERE date >= $1 AND date <= $2
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance: %w", err)
	}
	defer rows.Close()

	var aggregates []payroll.EmployeeAggregate
	for rows.Next() {
		var a payroll.EmployeeAggregate
		if err := rows.Scan(
			&a.EmployeeID, &a.PresentDays, &a.AbsentDays, &a.LateDays,
			&a.TotalWorkingHours, &a.TotalOvertimeHours,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance aggregate: %w", err)
		}
		aggregates = append(aggregates, a)
	}

	return aggregates, nil
}

// ========== RECORDS ==========

const payrollRecordColumns = `pr.id, pr.employee_id, pr.period_start, pr.period_end,
	pr.total_working_days, pr.total_present_days, pr.total_absent_days, pr.total_late_days,
	pr.total_working_hours, pr.total_overtime_hours,
	pr.base_salary, pr.hourly_rate, pr.overtime_pay, pr.deductions, pr.net_salary,
	pr.currency, pr.status, pr.generated_by, pr.approved_by, pr.created_at, pr.updated_at`

func scanPayrollRecord(row pgx.Row, withEmployee bool) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.TotalWorkingDays, &rec.TotalPresentDays, &rec.TotalAbsentDays, &rec.TotalLateDays,
		&rec.TotalWorkingHours, &rec.TotalOvertimeHours,
		&rec.BaseSalary, &rec.HourlyRate, &rec.OvertimePay, &rec.Deductions, &rec.NetSalary,
		&rec.Currency, &rec.Status, &rec.GeneratedBy, &rec.ApprovedBy, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &rec.EmployeeName, &rec.EmployeeCode)
	}
	if err := row.Scan(dest...); err != nil {
		return payroll.PayrollRecord{}, err
	}
	return rec, nil
}

func (r *payrollRepository) UpsertRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	// Regeneration overwrites the figures and drops the record back to
	// draft; an approval on the old figures does not survive new ones.
	query := `
		INSERT INTO payroll_records (
			employee_id, period_start, period_end,
			total_working_days, total_present_days, total_absent_days, total_late_days,
			total_working_hours, total_overtime_hours,
			base_salary, hourly_rate, overtime_pay, deductions, net_salary,
			currency, status, generated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 'draft', $16)
		ON CONFLICT (employee_id, period_start, period_end) DO UPDATE SET
			total_working_days = EXCLUDED.total_working_days,
			total_present_days = EXCLUDED.total_present_days,
			total_absent_days = EXCLUDED.total_absent_days,
			total_late_days = EXCLUDED.total_late_days,
			total_working_hours = EXCLUDED.total_working_hours,
			total_overtime_hours = EXCLUDED.total_overtime_hours,
			base_salary = EXCLUDED.base_salary,
			hourly_rate = EXCLUDED.hourly_rate,
			overtime_pay = EXCLUDED.overtime_pay,
			deductions = EXCLUDED.deductions,
			net_salary = EXCLUDED.net_salary,
			currency = EXCLUDED.currency,
			status = 'draft',
			generated_by = EXCLUDED.generated_by,
			approved_by = NULL,
			updated_at = NOW()
		RETURNING ` + strings.ReplaceAll(payrollRecordColumns, "pr.", "")

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.PeriodStart, record.PeriodEnd,
		record.TotalWorkingDays, record.TotalPresentDays, record.TotalAbsentDays, record.TotalLateDays,
		record.TotalWorkingHours, record.TotalOvertimeHours,
		record.BaseSalary, record.HourlyRate, record.OvertimePay, record.Deductions, record.NetSalary,
		record.Currency, record.GeneratedBy,
	), false)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `,
			   e.full_name as employee_name, e.code as employee_code
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ListRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodStart != nil && *filter.PeriodStart != "" {
		baseQuery += fmt.Sprintf(" AND pr.period_start >= $%d", argIdx)
		args = append(args, *filter.PeriodStart)
		argIdx++
	}
	if filter.PeriodEnd != nil && *filter.PeriodEnd != "" {
		baseQuery += fmt.Sprintf(" AND pr.period_end <= $%d", argIdx)
		args = append(args, *filter.PeriodEnd)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	sortColumn := "pr.created_at"
	allowedColumns := map[string]string{
		"created_at":    "pr.created_at",
		"period":        "pr.period_start",
		"employee_code": "e.code",
		"net_salary":    "pr.net_salary",
	}
	if col, ok := allowedColumns[filter.SortBy]; ok {
		sortColumn = col
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s,
			   e.full_name as employee_name, e.code as employee_code
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, payrollRecordColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, totalCount, nil
}

// ========== LIFECYCLE ==========

// transition runs one guarded status update. The WHERE clause is the state
// guard; zero rows means either the record is missing or it sits in another
// status, and the follow-up select tells the two apart.
func (r *payrollRepository) transition(ctx context.Context, id string, from, to payroll.Status, attempted string, approvedBy *string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records pr
		SET status = $3, approved_by = COALESCE($4, approved_by), updated_at = NOW()
		FROM employees e
		WHERE pr.id = $1 AND pr.status = $2 AND pr.employee_id = e.id
		RETURNING ` + payrollRecordColumns + `, e.full_name as employee_name, e.code as employee_code`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id, from, to, approvedBy), true)
	if err == nil {
		return rec, nil
	}
	if err != pgx.ErrNoRows {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll status: %w", err)
	}

	var current payroll.Status
	err = q.QueryRow(ctx, `SELECT status FROM payroll_records WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to check payroll record status: %w", err)
	}

	return payroll.PayrollRecord{}, &payroll.StateConflictError{RecordID: id, Current: current, Attempted: attempted}
}

func (r *payrollRepository) Approve(ctx context.Context, id string, approvedBy string) (payroll.PayrollRecord, error) {
	return r.transition(ctx, id, payroll.StatusDraft, payroll.StatusApproved, "approve", &approvedBy)
}

func (r *payrollRepository) MarkPaid(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return r.transition(ctx, id, payroll.StatusApproved, payroll.StatusPaid, "mark paid", nil)
}

// ========== SUMMARY ==========

func (r *payrollRepository) GetPeriodSummary(ctx context.Context, periodStart, periodEnd time.Time) (payroll.PeriodSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total_employees,
			COALESCE(SUM(base_salary), 0) as total_base_salary,
			COALESCE(SUM(overtime_pay), 0) as total_overtime_pay,
			COALESCE(SUM(deductions), 0) as total_deductions,
			COALESCE(SUM(net_salary), 0) as total_net_salary,
			COUNT(*) FILTER (WHERE status = 'draft') as draft_count,
			COUNT(*) FILTER (WHERE status = 'approved') as approved_count,
			COUNT(*) FILTER (WHERE status = 'paid') as paid_count
		FROM payroll_records
		WHERE period_start >= $1 AND period_end <= $2
	`

	var summary payroll.PeriodSummaryResponse
	err := q.QueryRow(ctx, query, periodStart, periodEnd).Scan(
		&summary.TotalEmployees, &summary.TotalBaseSalary, &summary.TotalOvertimePay,
		&summary.TotalDeductions, &summary.TotalNetSalary,
		&summary.DraftCount, &summary.ApprovedCount, &summary.PaidCount,
	)
	if err != nil {
		return payroll.PeriodSummaryResponse{}, fmt.Errorf("failed to get period summary: %w", err)
	}

	summary.PeriodStart = periodStart.Format("2006-01-02")
	summary.PeriodEnd = periodEnd.Format("2006-01-02")

	return summary, nil
}
