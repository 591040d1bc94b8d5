package attendance

import (
	"io"
	"strings"

	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

// ========== IMPORT DTOs ==========

type ImportRequest struct {
	File       io.Reader `json:"-"`
	Filename   string    `json:"-"`
	UploadedBy string    `json:"-"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.File == nil {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "attendance file is required"})
	}
	if validator.IsEmpty(r.Filename) {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "filename is required"})
	} else {
		ext := strings.ToLower(r.Filename[strings.LastIndex(r.Filename, ".")+1:])
		if !validator.IsInSlice(ext, []string{"csv", "xlsx", "xlsm"}) {
			errs = append(errs, validator.ValidationError{Field: "file", Message: "invalid file type: only csv, xlsx, xlsm allowed"})
		}
	}
	if validator.IsEmpty(r.UploadedBy) {
		errs = append(errs, validator.ValidationError{Field: "uploaded_by", Message: "uploader is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RowError describes one rejected upload row. The batch keeps going; callers
// render these next to the imported/skipped counts.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	BatchID  string     `json:"batch_id"`
	Errors   []RowError `json:"errors"`
}

// ========== LIST DTOs ==========

type AttendanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	EmployeeCode  string  `json:"employee_code,omitempty"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	WorkingHours  string  `json:"working_hours"`
	OvertimeHours string  `json:"overtime_hours"`
	UploadBatchID *string `json:"upload_batch_id,omitempty"`
	UploadedBy    string  `json:"uploaded_by"`
	CreatedAt     string  `json:"created_at"`
}

type AttendanceFilter struct {
	EmployeeID    *string `json:"employee_id,omitempty"`
	StartDate     *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate       *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status        *string `json:"status,omitempty"`
	UploadBatchID *string `json:"upload_batch_id,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, employee_code, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: present, absent, late, half_day"})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, []string{"date", "employee_code", "status"}) {
			errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: date, employee_code, status"})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be one of: asc, desc"})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type DeleteBatchResponse struct {
	BatchID string `json:"batch_id"`
	Deleted int64  `json:"deleted"`
}
