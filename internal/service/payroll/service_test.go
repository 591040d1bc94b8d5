package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
)

// ========== FAKES ==========

type fakePayrollRepo struct {
	aggregates []payroll.EmployeeAggregate
	records    map[string]payroll.PayrollRecord // keyed by record ID
	nextID     int

	failOnEmployee string // UpsertRecord fails for this employee ID
}

func newFakePayrollRepo(aggregates ...payroll.EmployeeAggregate) *fakePayrollRepo {
	return &fakePayrollRepo{
		aggregates: aggregates,
		records:    map[string]payroll.PayrollRecord{},
	}
}

func (f *fakePayrollRepo) AggregateAttendance(_ context.Context, _, _ time.Time) ([]payroll.EmployeeAggregate, error) {
	return f.aggregates, nil
}

func (f *fakePayrollRepo) UpsertRecord(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if f.failOnEmployee != "" && record.EmployeeID == f.failOnEmployee {
		return payroll.PayrollRecord{}, fmt.Errorf("storage unavailable")
	}
	for id, existing := range f.records {
		if existing.EmployeeID == record.EmployeeID &&
			existing.PeriodStart.Equal(record.PeriodStart) &&
			existing.PeriodEnd.Equal(record.PeriodEnd) {
			record.ID = id
			record.Status = payroll.StatusDraft
			record.ApprovedBy = nil
			f.records[id] = record
			return record, nil
		}
	}
	f.nextID++
	record.ID = fmt.Sprintf("rec-%d", f.nextID)
	record.Status = payroll.StatusDraft
	f.records[record.ID] = record
	return record, nil
}

func (f *fakePayrollRepo) GetRecordByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return record, nil
}

func (f *fakePayrollRepo) ListRecords(_ context.Context, _ payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	var records []payroll.PayrollRecord
	for _, record := range f.records {
		records = append(records, record)
	}
	return records, int64(len(records)), nil
}

func (f *fakePayrollRepo) Approve(_ context.Context, id string, approvedBy string) (payroll.PayrollRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	if record.Status != payroll.StatusDraft {
		return payroll.PayrollRecord{}, &payroll.StateConflictError{RecordID: id, Current: record.Status, Attempted: "approve"}
	}
	record.Status = payroll.StatusApproved
	record.ApprovedBy = &approvedBy
	f.records[id] = record
	return record, nil
}

func (f *fakePayrollRepo) MarkPaid(_ context.Context, id string) (payroll.PayrollRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	if record.Status != payroll.StatusApproved {
		return payroll.PayrollRecord{}, &payroll.StateConflictError{RecordID: id, Current: record.Status, Attempted: "mark paid"}
	}
	record.Status = payroll.StatusPaid
	f.records[id] = record
	return record, nil
}

func (f *fakePayrollRepo) GetPeriodSummary(_ context.Context, periodStart, periodEnd time.Time) (payroll.PeriodSummaryResponse, error) {
	summary := payroll.PeriodSummaryResponse{
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
	}
	for _, record := range f.records {
		summary.TotalEmployees++
		summary.TotalNetSalary = summary.TotalNetSalary.Add(record.NetSalary)
		switch record.Status {
		case payroll.StatusDraft:
			summary.DraftCount++
		case payroll.StatusApproved:
			summary.ApprovedCount++
		case payroll.StatusPaid:
			summary.PaidCount++
		}
	}
	return summary, nil
}

func testConfig() payroll.Configuration {
	return payroll.Configuration{
		WorkingHoursPerDay:  decimal.NewFromInt(8),
		WorkingDaysPerMonth: 26,
		OvertimeMultiplier:  decimal.NewFromFloat(1.5),
		DefaultBaseSalary:   decimal.NewFromInt(30000),
		DeductAbsences:      true,
		Currency:            "IDR",
	}
}

func aggregateFor(employeeID string) payroll.EmployeeAggregate {
	return payroll.EmployeeAggregate{
		EmployeeID:         employeeID,
		PresentDays:        decimal.NewFromInt(24),
		AbsentDays:         2,
		TotalWorkingHours:  decimal.NewFromInt(192),
		TotalOvertimeHours: decimal.NewFromInt(5),
	}
}

func generateRequest() payroll.GeneratePayrollRequest {
	return payroll.GeneratePayrollRequest{
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
		GeneratedBy: "user-1",
	}
}

// ========== GENERATION ==========

func TestGenerate(t *testing.T) {
	repo := newFakePayrollRepo(aggregateFor("emp-1"), aggregateFor("emp-2"))
	svc := NewPayrollService(repo, testConfig())

	result, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Generated)
	assert.Empty(t, result.Errors)
	require.Len(t, repo.records, 2)

	for _, record := range repo.records {
		assert.Equal(t, payroll.StatusDraft, record.Status)
		assert.Equal(t, "28774.04", record.NetSalary.StringFixed(2))
		assert.Equal(t, "user-1", record.GeneratedBy)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	repo := newFakePayrollRepo(aggregateFor("emp-1"))
	svc := NewPayrollService(repo, testConfig())

	first, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	require.Equal(t, 1, first.Generated)

	second, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Generated)

	// Rerunning overwrites the existing record instead of adding another.
	assert.Len(t, repo.records, 1)
}

func TestGenerateResetsApprovedRecordToDraft(t *testing.T) {
	repo := newFakePayrollRepo(aggregateFor("emp-1"))
	svc := NewPayrollService(repo, testConfig())

	_, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	var recordID string
	for id := range repo.records {
		recordID = id
	}
	_, err = svc.Approve(context.Background(), recordID, "manager-1")
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	record := repo.records[recordID]
	assert.Equal(t, payroll.StatusDraft, record.Status)
	assert.Nil(t, record.ApprovedBy)
}

func TestGenerateEmptyPeriod(t *testing.T) {
	repo := newFakePayrollRepo()
	svc := NewPayrollService(repo, testConfig())

	result, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Generated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no attendance records found")
}

func TestGenerateStorageFaultIsolated(t *testing.T) {
	repo := newFakePayrollRepo(aggregateFor("emp-1"), aggregateFor("emp-2"))
	repo.failOnEmployee = "emp-1"
	svc := NewPayrollService(repo, testConfig())

	result, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Generated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "employee #emp-1")
}

func TestGenerateBaseSalaryOverride(t *testing.T) {
	repo := newFakePayrollRepo(aggregateFor("emp-1"))
	svc := NewPayrollService(repo, testConfig())

	override := decimal.NewFromInt(17600)
	req := generateRequest()
	req.BaseSalaryOverride = &override

	result, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)

	for _, record := range repo.records {
		assert.Equal(t, "17600", record.BaseSalary.String())
	}
}

func TestGenerateUsesConfiguredDefault(t *testing.T) {
	repo := newFakePayrollRepo(aggregateFor("emp-1"))
	cfg := testConfig()
	cfg.DefaultBaseSalary = decimal.NewFromInt(25000)
	svc := NewPayrollService(repo, cfg)

	// Without an override every record is priced at the configured default.
	result, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Empty(t, result.Errors)

	for _, record := range repo.records {
		assert.Equal(t, "25000", record.BaseSalary.String())
	}
}

func TestGenerateNoBaseSalaryConfigured(t *testing.T) {
	repo := newFakePayrollRepo(aggregateFor("emp-1"))
	cfg := testConfig()
	cfg.DefaultBaseSalary = decimal.Zero
	svc := NewPayrollService(repo, cfg)

	result, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Generated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "employee #emp-1")
	assert.Contains(t, result.Errors[0], "no base salary")
	assert.Empty(t, repo.records)
}

func TestGenerateInvalidPeriod(t *testing.T) {
	svc := NewPayrollService(newFakePayrollRepo(), testConfig())

	_, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		PeriodStart: "2025-01-31",
		PeriodEnd:   "2025-01-01",
		GeneratedBy: "user-1",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "period_end")
}

// ========== LIFECYCLE ==========

func setupDraftRecord(t *testing.T) (*fakePayrollRepo, payroll.PayrollService, string) {
	t.Helper()
	repo := newFakePayrollRepo(aggregateFor("emp-1"))
	svc := NewPayrollService(repo, testConfig())

	_, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	var recordID string
	for id := range repo.records {
		recordID = id
	}
	return repo, svc, recordID
}

func TestApproveThenMarkPaid(t *testing.T) {
	_, svc, recordID := setupDraftRecord(t)

	approved, err := svc.Approve(context.Background(), recordID, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "manager-1", *approved.ApprovedBy)

	paid, err := svc.MarkPaid(context.Background(), recordID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
}

func TestMarkPaidRequiresApproval(t *testing.T) {
	_, svc, recordID := setupDraftRecord(t)

	_, err := svc.MarkPaid(context.Background(), recordID)
	require.Error(t, err)

	conflict, ok := payroll.IsStateConflict(err)
	require.True(t, ok)
	assert.Equal(t, payroll.StatusDraft, conflict.Current)
	assert.Equal(t, "mark paid", conflict.Attempted)
}

func TestApprovePaidRecordRejected(t *testing.T) {
	_, svc, recordID := setupDraftRecord(t)

	_, err := svc.Approve(context.Background(), recordID, "manager-1")
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), recordID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), recordID, "manager-2")
	conflict, ok := payroll.IsStateConflict(err)
	require.True(t, ok)
	assert.Equal(t, payroll.StatusPaid, conflict.Current)
}

func TestApproveRequiresApprover(t *testing.T) {
	_, svc, recordID := setupDraftRecord(t)

	_, err := svc.Approve(context.Background(), recordID, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approver is required")
}

func TestApproveUnknownRecord(t *testing.T) {
	svc := NewPayrollService(newFakePayrollRepo(), testConfig())

	_, err := svc.Approve(context.Background(), "no-such-record", "manager-1")
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

// ========== SUMMARY ==========

func TestGetPeriodSummary(t *testing.T) {
	repo := newFakePayrollRepo(aggregateFor("emp-1"), aggregateFor("emp-2"))
	svc := NewPayrollService(repo, testConfig())

	_, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	summary, err := svc.GetPeriodSummary(context.Background(), "2025-01-01", "2025-01-31")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalEmployees)
	assert.Equal(t, 2, summary.DraftCount)
	assert.Equal(t, "57548.08", summary.TotalNetSalary.StringFixed(2))
}

func TestGetPeriodSummaryInvalidDates(t *testing.T) {
	svc := NewPayrollService(newFakePayrollRepo(), testConfig())

	_, err := svc.GetPeriodSummary(context.Background(), "2025-13-01", "2025-01-31")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period_start")
}
