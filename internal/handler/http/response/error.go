package response

import (
	"errors"
	"net/http"

	"github.com/tallyworks/payroll-backend-go/internal/domain/attendance"
	"github.com/tallyworks/payroll-backend-go/internal/domain/employee"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Lifecycle conflicts carry the current status; surface it verbatim.
	if conflict, ok := payroll.IsStateConflict(err); ok {
		Conflict(w, conflict.Error())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrBatchNotFound):
		NotFound(w, "Upload batch not found")
	case errors.Is(err, attendance.ErrDuplicateDay):
		Conflict(w, "Attendance already recorded for this employee and date")
	case errors.Is(err, attendance.ErrEmptyUpload):
		BadRequest(w, "Upload contains no data rows", nil)
	case errors.Is(err, attendance.ErrMissingColumns):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrNoBaseSalary):
		BadRequest(w, "No base salary configured and no override supplied", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
