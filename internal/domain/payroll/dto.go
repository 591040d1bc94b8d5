package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

// ========== GENERATION DTOs ==========

type GeneratePayrollRequest struct {
	PeriodStart        string           `json:"period_start"` // YYYY-MM-DD, inclusive
	PeriodEnd          string           `json:"period_end"`   // YYYY-MM-DD, inclusive
	BaseSalaryOverride *decimal.Decimal `json:"base_salary_override,omitempty"`
	GeneratedBy        string           `json:"-"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "period_start must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "period_end must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "period_end must not be before period_start"})
	}
	if r.BaseSalaryOverride != nil && r.BaseSalaryOverride.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary_override", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GenerationResult reports the outcome of one generation run. Errors may be
// non-empty even when Generated > 0; callers must render both.
type GenerationResult struct {
	Generated int      `json:"generated"`
	Errors    []string `json:"errors"`
}

// ========== RECORD DTOs ==========

type PayrollRecordResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name,omitempty"`
	EmployeeCode       string          `json:"employee_code,omitempty"`
	PeriodStart        string          `json:"period_start"`
	PeriodEnd          string          `json:"period_end"`
	TotalWorkingDays   int             `json:"total_working_days"`
	TotalPresentDays   decimal.Decimal `json:"total_present_days"`
	TotalAbsentDays    int             `json:"total_absent_days"`
	TotalLateDays      int             `json:"total_late_days"`
	TotalWorkingHours  decimal.Decimal `json:"total_working_hours"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	Deductions         decimal.Decimal `json:"deductions"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	Currency           string          `json:"currency"`
	Status             string          `json:"status"`
	GeneratedBy        string          `json:"generated_by"`
	ApprovedBy         *string         `json:"approved_by,omitempty"`
}

type PayrollFilter struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	PeriodStart *string `json:"period_start,omitempty"` // YYYY-MM-DD
	PeriodEnd   *string `json:"period_end,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // created_at, period, employee_code, net_salary
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *PayrollFilter) Validate() error {
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

	if f.Status != nil {
		validStatuses := []string{string(StatusDraft), string(StatusApproved), string(StatusPaid)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: draft, approved, paid"})
		}
	}
	if f.PeriodStart != nil && *f.PeriodStart != "" {
		if _, valid := validator.IsValidDate(*f.PeriodStart); !valid {
			errs = append(errs, validator.ValidationError{Field: "period_start", Message: "period_start must be in YYYY-MM-DD format"})
		}
	}
	if f.PeriodEnd != nil && *f.PeriodEnd != "" {
		if _, valid := validator.IsValidDate(*f.PeriodEnd); !valid {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "period_end must be in YYYY-MM-DD format"})
		}
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, []string{"created_at", "period", "employee_code", "net_salary"}) {
			errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: created_at, period, employee_code, net_salary"})
		}
	} else {
		f.SortBy = "created_at"
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

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

// ========== SUMMARY DTOs ==========

type PeriodSummaryResponse struct {
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
	TotalEmployees   int             `json:"total_employees"`
	TotalBaseSalary  decimal.Decimal `json:"total_base_salary"`
	TotalOvertimePay decimal.Decimal `json:"total_overtime_pay"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	DraftCount       int             `json:"draft_count"`
	ApprovedCount    int             `json:"approved_count"`
	PaidCount        int             `json:"paid_count"`
}
