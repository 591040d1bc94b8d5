package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrBatchNotFound      = errors.New("upload batch not found")
	ErrDuplicateDay       = errors.New("attendance already recorded for this employee and date")
	ErrEmptyUpload        = errors.New("upload contains no data rows")
	ErrMissingColumns     = errors.New("upload is missing required columns")
)
