package main

import (
	"fmt"
	"net/http"

	"github.com/tallyworks/payroll-backend-go/internal/config"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/tallyworks/payroll-backend-go/internal/handler/http"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/cron"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/jwt"
	"github.com/tallyworks/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/tallyworks/payroll-backend-go/internal/service/attendance"
	payrollService "github.com/tallyworks/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, payroll.Configuration{
		WorkingHoursPerDay:  cfg.Payroll.WorkingHoursPerDay,
		WorkingDaysPerMonth: cfg.Payroll.WorkingDaysPerMonth,
		OvertimeMultiplier:  cfg.Payroll.OvertimeMultiplier,
		DefaultBaseSalary:   cfg.Payroll.DefaultBaseSalary,
		DeductAbsences:      cfg.Payroll.DeductAbsences,
		Currency:            cfg.Payroll.Currency,
	})

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(JWTService, attendanceHandler, payrollHandler)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
