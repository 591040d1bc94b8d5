package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// Import ingests a bulk attendance upload. Row failures are collected
	// into the result instead of aborting the batch.
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	DeleteBatch(ctx context.Context, batchID string) (DeleteBatchResponse, error)

	// MarkAbsentees writes an absent row for every active employee without
	// an attendance entry on the given day. Run by the scheduler.
	MarkAbsentees(ctx context.Context, date time.Time) (int, error)
}
