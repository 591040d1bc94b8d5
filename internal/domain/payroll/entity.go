package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

// Configuration - company-wide compensation rules, supplied at startup and
// read-only to the engine.
type Configuration struct {
	WorkingHoursPerDay  decimal.Decimal
	WorkingDaysPerMonth int
	OvertimeMultiplier  decimal.Decimal
	DefaultBaseSalary   decimal.Decimal
	DeductAbsences      bool
	Currency            string
}

// EmployeeAggregate - per-employee attendance summary over one period.
// PresentDays carries the half-day weighting (half_day counts 0.5), so it is
// fractional; late days are a sub-classification of presence and show up in
// both PresentDays and LateDays.
type EmployeeAggregate struct {
	EmployeeID         string
	PresentDays        decimal.Decimal
	AbsentDays         int
	LateDays           int
	TotalWorkingHours  decimal.Decimal
	TotalOvertimeHours decimal.Decimal
}

// PayrollRecord - the persisted result of one computation for one employee
// and period. Unique per (employee_id, period_start, period_end);
// regeneration overwrites the figures and resets the record to draft.
type PayrollRecord struct {
	ID                 string
	EmployeeID         string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	TotalWorkingDays   int
	TotalPresentDays   decimal.Decimal
	TotalAbsentDays    int
	TotalLateDays      int
	TotalWorkingHours  decimal.Decimal
	TotalOvertimeHours decimal.Decimal
	BaseSalary         decimal.Decimal
	HourlyRate         decimal.Decimal
	OvertimePay        decimal.Decimal
	Deductions         decimal.Decimal
	NetSalary          decimal.Decimal
	Currency           string
	Status             Status
	GeneratedBy        string
	ApprovedBy         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
