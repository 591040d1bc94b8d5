package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tallyworks/payroll-backend-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService

	mu      sync.Mutex
	lastRun string // UTC day (YYYY-MM-DD) of the last completed backfill
}

func NewAttendanceJobs(attendanceSvc attendance.AttendanceService) *AttendanceJobs {
	return &AttendanceJobs{attendanceSvc: attendanceSvc}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees backfills an absent row for every active employee who
// has no attendance entry for yesterday. Payroll deductions depend on absences
// being recorded, not merely missing. The job runs once per UTC day: the first
// tick after start (or after the date rolls over) does the work, later ticks
// the same day are no-ops. A failed run is retried on the next tick.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	today := time.Now().UTC().Format("2006-01-02")

	j.mu.Lock()
	done := j.lastRun == today
	j.mu.Unlock()
	if done {
		return nil
	}

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	marked, err := j.attendanceSvc.MarkAbsentees(ctx, yesterday)
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.lastRun = today
	j.mu.Unlock()

	if marked > 0 {
		slog.Info("Cron: Marked absent employees", "count", marked, "date", yesterday.Format("2006-01-02"))
	}
	return nil
}
