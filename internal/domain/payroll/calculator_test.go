package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testConfig() Configuration {
	return Configuration{
		WorkingHoursPerDay:  decimal.NewFromInt(8),
		WorkingDaysPerMonth: 26,
		OvertimeMultiplier:  decimal.NewFromFloat(1.5),
		DeductAbsences:      true,
		Currency:            "IDR",
	}
}

func TestCalculate(t *testing.T) {
	cfg := testConfig()

	agg := EmployeeAggregate{
		EmployeeID:         "emp-1",
		PresentDays:        decimal.NewFromInt(24),
		AbsentDays:         2,
		TotalOvertimeHours: decimal.NewFromInt(5),
	}

	figures := Calculate(agg, decimal.NewFromInt(30000), cfg)

	assert.Equal(t, "144.23", figures.HourlyRate.StringFixed(2))
	assert.Equal(t, "1081.73", figures.OvertimePay.StringFixed(2))
	assert.Equal(t, "2307.69", figures.Deductions.StringFixed(2))
	assert.Equal(t, "28774.04", figures.NetSalary.StringFixed(2))
}

func TestCalculateNoAbsences(t *testing.T) {
	cfg := testConfig()

	agg := EmployeeAggregate{
		EmployeeID:         "emp-1",
		PresentDays:        decimal.NewFromInt(26),
		TotalOvertimeHours: decimal.Zero,
	}

	figures := Calculate(agg, decimal.NewFromInt(30000), cfg)

	assert.True(t, figures.Deductions.IsZero())
	assert.True(t, figures.OvertimePay.IsZero())
	assert.Equal(t, "30000.00", figures.NetSalary.StringFixed(2))
}

func TestCalculateDeductionsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.DeductAbsences = false

	agg := EmployeeAggregate{
		EmployeeID: "emp-1",
		AbsentDays: 10,
	}

	figures := Calculate(agg, decimal.NewFromInt(30000), cfg)

	assert.True(t, figures.Deductions.IsZero())
	assert.Equal(t, "30000.00", figures.NetSalary.StringFixed(2))
}

func TestCalculateNetSalaryFlooredAtZero(t *testing.T) {
	cfg := testConfig()

	// Absences worth more than the base salary must not go negative.
	agg := EmployeeAggregate{
		EmployeeID: "emp-1",
		AbsentDays: 40,
	}

	figures := Calculate(agg, decimal.NewFromInt(30000), cfg)

	assert.True(t, figures.Deductions.GreaterThan(decimal.NewFromInt(30000)))
	assert.True(t, figures.NetSalary.IsZero())
	assert.False(t, figures.NetSalary.IsNegative())
}

func TestCalculateDeterministic(t *testing.T) {
	cfg := testConfig()
	agg := EmployeeAggregate{
		EmployeeID:         "emp-1",
		PresentDays:        decimal.NewFromFloat(21.5),
		AbsentDays:         3,
		LateDays:           2,
		TotalOvertimeHours: decimal.NewFromFloat(7.25),
	}
	base := decimal.NewFromFloat(12345.67)

	first := Calculate(agg, base, cfg)
	second := Calculate(agg, base, cfg)

	assert.True(t, first.HourlyRate.Equal(second.HourlyRate))
	assert.True(t, first.OvertimePay.Equal(second.OvertimePay))
	assert.True(t, first.Deductions.Equal(second.Deductions))
	assert.True(t, first.NetSalary.Equal(second.NetSalary))
}

func TestCalculateHalfDayOvertime(t *testing.T) {
	cfg := Configuration{
		WorkingHoursPerDay:  decimal.NewFromInt(8),
		WorkingDaysPerMonth: 22,
		OvertimeMultiplier:  decimal.NewFromInt(2),
		DeductAbsences:      true,
	}

	agg := EmployeeAggregate{
		EmployeeID:         "emp-2",
		TotalOvertimeHours: decimal.NewFromFloat(2.5),
		AbsentDays:         1,
	}

	figures := Calculate(agg, decimal.NewFromInt(17600), cfg)

	// hourlyRate = 17600 / 176 = 100.00
	assert.Equal(t, "100.00", figures.HourlyRate.StringFixed(2))
	// overtimePay = 2.5 * 100 * 2 = 500.00
	assert.Equal(t, "500.00", figures.OvertimePay.StringFixed(2))
	// deductions = 1 * 17600/22 = 800.00
	assert.Equal(t, "800.00", figures.Deductions.StringFixed(2))
	assert.Equal(t, "17300.00", figures.NetSalary.StringFixed(2))
}
