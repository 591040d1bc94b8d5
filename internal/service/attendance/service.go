package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tallyworks/payroll-backend-go/internal/domain/attendance"
	"github.com/tallyworks/payroll-backend-go/internal/domain/employee"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/spreadsheet"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
	}
}

var requiredColumns = []string{"employee_code", "date", "status"}

// Import implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Import(ctx context.Context, req attendance.ImportRequest) (attendance.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportResult{}, err
	}

	rows, err := spreadsheet.ReadRows(req.File, req.Filename)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(rows) < 2 {
		return attendance.ImportResult{}, attendance.ErrEmptyUpload
	}

	columns := map[string]int{}
	for idx, header := range rows[0] {
		columns[spreadsheet.NormalizeHeader(header)] = idx
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return attendance.ImportResult{}, fmt.Errorf("%w: %s", attendance.ErrMissingColumns, strings.Join(missing, ", "))
	}

	batchID := uuid.NewString()
	result := attendance.ImportResult{BatchID: batchID, Errors: []attendance.RowError{}}

	// Employees are looked up once per distinct code; uploads tend to repeat
	// the same handful of employees across many dates.
	employeeCache := map[string]employee.Employee{}
	unknownCodes := map[string]bool{}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, header is row 1

		if isBlankRow(row) {
			continue
		}

		code := spreadsheet.CellValue(row, columns["employee_code"])
		dateStr := spreadsheet.CellValue(row, columns["date"])
		statusStr := strings.ToLower(spreadsheet.CellValue(row, columns["status"]))

		if rowErr := s.validateRow(ctx, rowNum, code, dateStr, statusStr, employeeCache, unknownCodes); rowErr != nil {
			result.Skipped++
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		workingHours, ok := validator.ParseHours(cellAt(row, columns, "working_hours"))
		if !ok {
			result.Skipped++
			result.Errors = append(result.Errors, attendance.RowError{
				Row: rowNum, Field: "working_hours", Value: cellAt(row, columns, "working_hours"),
				Message: "working_hours must be a non-negative number",
			})
			continue
		}
		overtimeHours, ok := validator.ParseHours(cellAt(row, columns, "overtime_hours"))
		if !ok {
			result.Skipped++
			result.Errors = append(result.Errors, attendance.RowError{
				Row: rowNum, Field: "overtime_hours", Value: cellAt(row, columns, "overtime_hours"),
				Message: "overtime_hours must be a non-negative number",
			})
			continue
		}

		date, _ := spreadsheet.ParseDate(dateStr)
		emp := employeeCache[code]

		_, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID:    emp.ID,
			Date:          date,
			Status:        attendance.Status(statusStr),
			WorkingHours:  workingHours,
			OvertimeHours: overtimeHours,
			UploadBatchID: &batchID,
			UploadedBy:    req.UploadedBy,
		})
		if err != nil {
			result.Skipped++
			message := "failed to store row"
			if errors.Is(err, attendance.ErrDuplicateDay) {
				message = fmt.Sprintf("attendance for %s on %s already recorded", code, date.Format("2006-01-02"))
			}
			result.Errors = append(result.Errors, attendance.RowError{
				Row: rowNum, Field: "date", Value: dateStr, Message: message,
			})
			continue
		}

		result.Imported++
	}

	return result, nil
}

// validateRow checks the identifying cells of one upload row and returns the
// first problem found, so each bad row yields exactly one error.
func (s *AttendanceServiceImpl) validateRow(
	ctx context.Context,
	rowNum int,
	code, dateStr, statusStr string,
	employeeCache map[string]employee.Employee,
	unknownCodes map[string]bool,
) *attendance.RowError {
	if validator.IsEmpty(code) {
		return &attendance.RowError{Row: rowNum, Field: "employee_code", Value: code, Message: "employee_code is required"}
	}
	if !validator.IsValidEmployeeCode(code) {
		return &attendance.RowError{Row: rowNum, Field: "employee_code", Value: code, Message: "employee_code must match NNNN-NNNN"}
	}

	if !unknownCodes[code] {
		if _, cached := employeeCache[code]; !cached {
			emp, err := s.EmployeeRepository.GetByCode(ctx, code)
			if err != nil {
				unknownCodes[code] = true
			} else {
				employeeCache[code] = emp
			}
		}
	}
	if unknownCodes[code] {
		return &attendance.RowError{Row: rowNum, Field: "employee", Value: code, Message: "employee not found"}
	}

	if _, ok := spreadsheet.ParseDate(dateStr); !ok {
		return &attendance.RowError{Row: rowNum, Field: "date", Value: dateStr, Message: "date is missing or not a recognized format"}
	}

	if !validator.IsInSlice(statusStr, attendance.ValidStatuses) {
		return &attendance.RowError{Row: rowNum, Field: "status", Value: statusStr, Message: "status must be one of: present, absent, late, half_day"}
	}

	return nil
}

func cellAt(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok {
		return ""
	}
	return spreadsheet.CellValue(row, idx)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toAttendanceResponse(att), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, totalCount, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, toAttendanceResponse(att))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  totalCount,
		Page:        filter.Page,
		Limit:       filter.Limit,
		Attendances: responses,
	}, nil
}

// DeleteBatch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteBatch(ctx context.Context, batchID string) (attendance.DeleteBatchResponse, error) {
	if validator.IsEmpty(batchID) {
		return attendance.DeleteBatchResponse{}, validator.ValidationErrors{
			{Field: "batch_id", Message: "batch_id is required"},
		}
	}

	deleted, err := s.AttendanceRepository.DeleteBatch(ctx, batchID)
	if err != nil {
		return attendance.DeleteBatchResponse{}, err
	}

	return attendance.DeleteBatchResponse{BatchID: batchID, Deleted: deleted}, nil
}

// MarkAbsentees implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsentees(ctx context.Context, date time.Time) (int, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	withEntry, err := s.AttendanceRepository.ListEmployeeIDsWithEntry(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list recorded employees: %w", err)
	}
	recorded := make(map[string]bool, len(withEntry))
	for _, id := range withEntry {
		recorded[id] = true
	}

	var absences []attendance.Attendance
	for _, emp := range employees {
		if recorded[emp.ID] {
			continue
		}
		absences = append(absences, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       date,
			Status:     attendance.StatusAbsent,
			UploadedBy: "system",
		})
	}

	marked, err := s.AttendanceRepository.CreateAbsences(ctx, absences)
	if err != nil {
		return 0, fmt.Errorf("failed to record absences: %w", err)
	}

	return marked, nil
}

func toAttendanceResponse(att attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:            att.ID,
		EmployeeID:    att.EmployeeID,
		Date:          att.Date.Format("2006-01-02"),
		Status:        string(att.Status),
		WorkingHours:  att.WorkingHours.String(),
		OvertimeHours: att.OvertimeHours.String(),
		UploadBatchID: att.UploadBatchID,
		UploadedBy:    att.UploadedBy,
		CreatedAt:     att.CreatedAt.Format(time.RFC3339),
	}
	if att.EmployeeName != nil {
		resp.EmployeeName = *att.EmployeeName
	}
	if att.EmployeeCode != nil {
		resp.EmployeeCode = *att.EmployeeCode
	}
	return resp
}
