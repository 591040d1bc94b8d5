package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tallyworks/payroll-backend-go/internal/domain/attendance"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date, status, working_hours, overtime_hours, upload_batch_id, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, employee_id, date, status, working_hours, overtime_hours, upload_batch_id, uploaded_by, created_at
	`

	var created attendance.Attendance
	err := q.QueryRow(ctx, query,
		att.EmployeeID, att.Date, att.Status, att.WorkingHours, att.OvertimeHours, att.UploadBatchID, att.UploadedBy,
	).Scan(
		&created.ID, &created.EmployeeID, &created.Date, &created.Status,
		&created.WorkingHours, &created.OvertimeHours, &created.UploadBatchID, &created.UploadedBy, &created.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_attendance_employee_date") {
			return attendance.Attendance{}, attendance.ErrDuplicateDay
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.date, a.status, a.working_hours, a.overtime_hours,
			   a.upload_batch_id, a.uploaded_by, a.created_at,
			   e.full_name as employee_name, e.code as employee_code
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.id = $1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, id).Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.Status, &att.WorkingHours, &att.OvertimeHours,
		&att.UploadBatchID, &att.UploadedBy, &att.CreatedAt,
		&att.EmployeeName, &att.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseQuery += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseQuery += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.UploadBatchID != nil {
		baseQuery += fmt.Sprintf(" AND a.upload_batch_id = $%d", argIdx)
		args = append(args, *filter.UploadBatchID)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	sortColumn := "a.date"
	allowedColumns := map[string]string{
		"date":          "a.date",
		"employee_code": "e.code",
		"status":        "a.status",
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
		SELECT a.id, a.employee_id, a.date, a.status, a.working_hours, a.overtime_hours,
			   a.upload_batch_id, a.uploaded_by, a.created_at,
			   e.full_name as employee_name, e.code as employee_code
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.Status, &att.WorkingHours, &att.OvertimeHours,
			&att.UploadBatchID, &att.UploadedBy, &att.CreatedAt,
			&att.EmployeeName, &att.EmployeeCode,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, totalCount, nil
}

func (r *attendanceRepository) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM attendances WHERE upload_batch_id = $1`

	tag, err := q.Exec(ctx, query, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, attendance.ErrBatchNotFound
	}

	return tag.RowsAffected(), nil
}

func (r *attendanceRepository) CreateAbsences(ctx context.Context, absences []attendance.Attendance) (int, error) {
	if len(absences) == 0 {
		return 0, nil
	}

	created := 0
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO attendances (employee_id, date, status, working_hours, overtime_hours, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (employee_id, date) DO NOTHING
		`
		for _, att := range absences {
			tag, err := q.Exec(txCtx, query,
				att.EmployeeID, att.Date, att.Status, att.WorkingHours, att.OvertimeHours, att.UploadedBy,
			)
			if err != nil {
				return fmt.Errorf("failed to create absence: %w", err)
			}
			created += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

func (r *attendanceRepository) ListEmployeeIDsWithEntry(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT DISTINCT employee_id FROM attendances WHERE date = $1`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with entry: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
