package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	config payroll.Configuration
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	config payroll.Configuration,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		PayrollRepository: payrollRepo,
		config:            config,
	}
}

// Generate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerationResult{}, err
	}

	periodStart, _ := validator.IsValidDate(req.PeriodStart)
	periodEnd, _ := validator.IsValidDate(req.PeriodEnd)

	aggregates, err := s.PayrollRepository.AggregateAttendance(ctx, periodStart, periodEnd)
	if err != nil {
		return payroll.GenerationResult{}, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	result := payroll.GenerationResult{Errors: []string{}}
	if len(aggregates) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"no attendance records found between %s and %s", req.PeriodStart, req.PeriodEnd,
		))
		return result, nil
	}

	for _, agg := range aggregates {
		if err := s.generateForEmployee(ctx, agg, req, periodStart, periodEnd); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("employee #%s: %v", agg.EmployeeID, err))
			continue
		}
		result.Generated++
	}

	return result, nil
}

// generateForEmployee prices one employee's aggregate and writes the draft
// record. Each call is independent so one failure never poisons the batch.
func (s *PayrollServiceImpl) generateForEmployee(
	ctx context.Context,
	agg payroll.EmployeeAggregate,
	req payroll.GeneratePayrollRequest,
	periodStart, periodEnd time.Time,
) error {
	baseSalary, err := s.resolveBaseSalary(req.BaseSalaryOverride)
	if err != nil {
		return err
	}

	figures := payroll.Calculate(agg, baseSalary, s.config)

	_, err = s.PayrollRepository.UpsertRecord(ctx, payroll.PayrollRecord{
		EmployeeID:         agg.EmployeeID,
		PeriodStart:        periodStart,
		PeriodEnd:          periodEnd,
		TotalWorkingDays:   s.config.WorkingDaysPerMonth,
		TotalPresentDays:   agg.PresentDays,
		TotalAbsentDays:    agg.AbsentDays,
		TotalLateDays:      agg.LateDays,
		TotalWorkingHours:  agg.TotalWorkingHours,
		TotalOvertimeHours: agg.TotalOvertimeHours,
		BaseSalary:         baseSalary,
		HourlyRate:         figures.HourlyRate,
		OvertimePay:        figures.OvertimePay,
		Deductions:         figures.Deductions,
		NetSalary:          figures.NetSalary,
		Currency:           s.config.Currency,
		GeneratedBy:        req.GeneratedBy,
	})
	if err != nil {
		return err
	}

	return nil
}

// resolveBaseSalary picks the request override when supplied, else the
// configured company-wide default. Salaries live in configuration, not on the
// employee record.
func (s *PayrollServiceImpl) resolveBaseSalary(override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	if s.config.DefaultBaseSalary.IsPositive() {
		return s.config.DefaultBaseSalary, nil
	}
	return decimal.Zero, payroll.ErrNoBaseSalary
}

// GetRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.PayrollRepository.GetRecordByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return toPayrollRecordResponse(record), nil
}

// ListRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, totalCount, err := s.PayrollRepository.ListRecords(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	responses := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toPayrollRecordResponse(record))
	}

	return payroll.ListPayrollRecordResponse{
		Data:       responses,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Approve implements payroll.PayrollService.
func (s *PayrollServiceImpl) Approve(ctx context.Context, id string, approvedBy string) (payroll.PayrollRecordResponse, error) {
	if validator.IsEmpty(approvedBy) {
		return payroll.PayrollRecordResponse{}, validator.ValidationErrors{
			{Field: "approved_by", Message: "approver is required"},
		}
	}

	record, err := s.PayrollRepository.Approve(ctx, id, approvedBy)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return toPayrollRecordResponse(record), nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.PayrollRepository.MarkPaid(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return toPayrollRecordResponse(record), nil
}

// GetPeriodSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriodSummary(ctx context.Context, periodStart, periodEnd string) (payroll.PeriodSummaryResponse, error) {
	var errs validator.ValidationErrors
	start, startOK := validator.IsValidDate(periodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "period_start must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(periodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "period_end must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "period_end must not be before period_start"})
	}
	if len(errs) > 0 {
		return payroll.PeriodSummaryResponse{}, errs
	}

	return s.PayrollRepository.GetPeriodSummary(ctx, start, end)
}

func toPayrollRecordResponse(record payroll.PayrollRecord) payroll.PayrollRecordResponse {
	resp := payroll.PayrollRecordResponse{
		ID:                 record.ID,
		EmployeeID:         record.EmployeeID,
		PeriodStart:        record.PeriodStart.Format("2006-01-02"),
		PeriodEnd:          record.PeriodEnd.Format("2006-01-02"),
		TotalWorkingDays:   record.TotalWorkingDays,
		TotalPresentDays:   record.TotalPresentDays,
		TotalAbsentDays:    record.TotalAbsentDays,
		TotalLateDays:      record.TotalLateDays,
		TotalWorkingHours:  record.TotalWorkingHours,
		TotalOvertimeHours: record.TotalOvertimeHours,
		BaseSalary:         record.BaseSalary,
		HourlyRate:         record.HourlyRate,
		OvertimePay:        record.OvertimePay,
		Deductions:         record.Deductions,
		NetSalary:          record.NetSalary,
		Currency:           record.Currency,
		Status:             string(record.Status),
		GeneratedBy:        record.GeneratedBy,
		ApprovedBy:         record.ApprovedBy,
	}
	if record.EmployeeName != nil {
		resp.EmployeeName = *record.EmployeeName
	}
	if record.EmployeeCode != nil {
		resp.EmployeeCode = *record.EmployeeCode
	}
	return resp
}
