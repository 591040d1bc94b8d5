package payroll

import "github.com/shopspring/decimal"

// Figures holds the computed compensation for one employee and period.
type Figures struct {
	HourlyRate  decimal.Decimal
	OvertimePay decimal.Decimal
	Deductions  decimal.Decimal
	NetSalary   decimal.Decimal
}

// Calculate prices one employee's attendance aggregate against the
// compensation rules. Pure and deterministic; every monetary result is
// rounded to 2 decimal places.
//
//	hourlyRate  = round(base / (daysPerMonth * hoursPerDay), 2)
//	overtimePay = round(overtimeHours * hourlyRate * multiplier, 2)
//	deductions  = round(absentDays * base / daysPerMonth, 2)   (when enabled)
//	netSalary   = max(0, round(base + overtimePay - deductions, 2))
//
// Deductions are priced off the unrounded daily rate; rounding the daily rate
// first drifts a cent per absent day on salaries like 30000/26.
func Calculate(agg EmployeeAggregate, baseSalary decimal.Decimal, cfg Configuration) Figures {
	daysPerMonth := decimal.NewFromInt(int64(cfg.WorkingDaysPerMonth))
	monthlyHours := daysPerMonth.Mul(cfg.WorkingHoursPerDay)

	hourlyRate := baseSalary.Div(monthlyHours).Round(2)
	overtimePay := agg.TotalOvertimeHours.Mul(hourlyRate).Mul(cfg.OvertimeMultiplier).Round(2)

	deductions := decimal.Zero
	if cfg.DeductAbsences && agg.AbsentDays > 0 {
		absentDays := decimal.NewFromInt(int64(agg.AbsentDays))
		deductions = absentDays.Mul(baseSalary.Div(daysPerMonth)).Round(2)
	}

	netSalary := baseSalary.Add(overtimePay).Sub(deductions).Round(2)
	if netSalary.IsNegative() {
		netSalary = decimal.Zero
	}

	return Figures{
		HourlyRate:  hourlyRate,
		OvertimePay: overtimePay,
		Deductions:  deductions,
		NetSalary:   netSalary,
	}
}
