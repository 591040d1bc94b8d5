package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyworks/payroll-backend-go/internal/domain/attendance"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/jwt"
)

// ========== FAKES ==========

type fakePayrollService struct {
	generateResult payroll.GenerationResult
	record         payroll.PayrollRecordResponse
	err            error
}

func (f *fakePayrollService) Generate(_ context.Context, req payroll.GeneratePayrollRequest) (payroll.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerationResult{}, err
	}
	return f.generateResult, f.err
}

func (f *fakePayrollService) GetRecord(_ context.Context, _ string) (payroll.PayrollRecordResponse, error) {
	return f.record, f.err
}

func (f *fakePayrollService) ListRecords(_ context.Context, _ payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	return payroll.ListPayrollRecordResponse{Data: []payroll.PayrollRecordResponse{f.record}, TotalCount: 1, Page: 1, Limit: 20}, f.err
}

func (f *fakePayrollService) Approve(_ context.Context, _ string, _ string) (payroll.PayrollRecordResponse, error) {
	return f.record, f.err
}

func (f *fakePayrollService) MarkPaid(_ context.Context, _ string) (payroll.PayrollRecordResponse, error) {
	return f.record, f.err
}

func (f *fakePayrollService) GetPeriodSummary(_ context.Context, _, _ string) (payroll.PeriodSummaryResponse, error) {
	return payroll.PeriodSummaryResponse{}, f.err
}

type fakeAttendanceService struct {
	importResult attendance.ImportResult
	err          error
}

func (f *fakeAttendanceService) Import(_ context.Context, req attendance.ImportRequest) (attendance.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportResult{}, err
	}
	return f.importResult, f.err
}

func (f *fakeAttendanceService) GetAttendance(_ context.Context, _ string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, f.err
}

func (f *fakeAttendanceService) ListAttendance(_ context.Context, _ attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return attendance.ListAttendanceResponse{Page: 1, Limit: 20}, f.err
}

func (f *fakeAttendanceService) DeleteBatch(_ context.Context, batchID string) (attendance.DeleteBatchResponse, error) {
	return attendance.DeleteBatchResponse{BatchID: batchID, Deleted: 3}, f.err
}

func (f *fakeAttendanceService) MarkAbsentees(_ context.Context, _ time.Time) (int, error) {
	return 0, f.err
}

// ========== HELPERS ==========

func testRouter(t *testing.T, attSvc attendance.AttendanceService, paySvc payroll.PayrollService) (http.Handler, string) {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret", "1h")
	token, _, err := jwtService.GenerateAccessToken("user-1", "admin")
	require.NoError(t, err)

	router := NewRouter(jwtService, NewAttendanceHandler(attSvc), NewPayrollHandler(paySvc))
	return router, token
}

func doRequest(router http.Handler, req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ========== AUTH ==========

func TestRoutesRequireToken(t *testing.T) {
	router, _ := testRouter(t, &fakeAttendanceService{}, &fakePayrollService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/records", nil)
	rec := doRequest(router, req, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRejectsTokenFromWrongSecret(t *testing.T) {
	router, _ := testRouter(t, &fakeAttendanceService{}, &fakePayrollService{})

	other := jwt.NewJWTService("wrong-secret", "1h")
	token, _, err := other.GenerateAccessToken("user-1", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/records", nil)
	rec := doRequest(router, req, token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ========== PAYROLL ==========

func TestGeneratePayroll(t *testing.T) {
	svc := &fakePayrollService{generateResult: payroll.GenerationResult{Generated: 3, Errors: []string{"employee #emp-9: no base salary configured and no override supplied"}}}
	router, token := testRouter(t, &fakeAttendanceService{}, svc)

	body, _ := json.Marshal(map[string]string{
		"period_start": "2025-01-01",
		"period_end":   "2025-01-31",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate", bytes.NewReader(body))
	rec := doRequest(router, req, token)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"generated":3`)
	assert.Contains(t, rec.Body.String(), "employee #emp-9")
}

func TestGeneratePayrollValidation(t *testing.T) {
	router, token := testRouter(t, &fakeAttendanceService{}, &fakePayrollService{})

	body, _ := json.Marshal(map[string]string{
		"period_start": "2025-01-31",
		"period_end":   "2025-01-01",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate", bytes.NewReader(body))
	rec := doRequest(router, req, token)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "period_end")
}

func TestApproveConflictReturns409(t *testing.T) {
	svc := &fakePayrollService{err: &payroll.StateConflictError{RecordID: "rec-1", Current: payroll.StatusPaid, Attempted: "approve"}}
	router, token := testRouter(t, &fakeAttendanceService{}, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/records/rec-1/approve", nil)
	rec := doRequest(router, req, token)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot approve payroll record")
}

func TestGetRecordNotFound(t *testing.T) {
	svc := &fakePayrollService{err: payroll.ErrPayrollRecordNotFound}
	router, token := testRouter(t, &fakeAttendanceService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/records/missing", nil)
	rec := doRequest(router, req, token)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ========== ATTENDANCE ==========

func TestImportAttendance(t *testing.T) {
	svc := &fakeAttendanceService{importResult: attendance.ImportResult{Imported: 8, Skipped: 2, BatchID: "batch-1"}}
	router, token := testRouter(t, svc, &fakePayrollService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "attendance.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("employee_code,date,status\n1001-0001,2025-01-06,present\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := doRequest(router, req, token)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":8`)
	assert.Contains(t, rec.Body.String(), `"skipped":2`)
}

func TestImportAttendanceRequiresFile(t *testing.T) {
	router, token := testRouter(t, &fakeAttendanceService{}, &fakePayrollService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := doRequest(router, req, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Attendance file is required")
}

func TestDeleteBatchEndpoint(t *testing.T) {
	router, token := testRouter(t, &fakeAttendanceService{}, &fakePayrollService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/attendance/batches/batch-1", nil)
	rec := doRequest(router, req, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":3`)
}

func TestHealthcheckIsPublic(t *testing.T) {
	router, _ := testRouter(t, &fakeAttendanceService{}, &fakePayrollService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := doRequest(router, req, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ok"))
}
