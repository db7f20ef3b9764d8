package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/calendar"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/jwt"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/oauth"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/spreadsheet"
	"github.com/dayflow-hr/dayflow-backend-go/internal/repository/memory"
	attendanceservice "github.com/dayflow-hr/dayflow-backend-go/internal/service/attendance"
	authservice "github.com/dayflow-hr/dayflow-backend-go/internal/service/auth"
	leaveservice "github.com/dayflow-hr/dayflow-backend-go/internal/service/leave"
	payrollservice "github.com/dayflow-hr/dayflow-backend-go/internal/service/payroll"
	profileservice "github.com/dayflow-hr/dayflow-backend-go/internal/service/profile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testSecret = "test-secret-key-for-jwt"

var (
	employee = user.Identity{UserID: "emp-1", Email: "emp@example.com", Name: "Emp", Role: user.RoleEmployee}
	admin    = user.Identity{UserID: "adm-1", Email: "admin@example.com", Name: "Admin", Role: user.RoleAdmin}
)

type fakeGoogle struct {
	info oauth.GoogleInformation
}

func (fakeGoogle) GenerateState() (string, error) { return "state-123", nil }

func (fakeGoogle) RedirectURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (fakeGoogle) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	if code != "good-code" {
		return nil, errors.New("bad code")
	}
	return &oauth2.Token{AccessToken: "google-token"}, nil
}

func (g fakeGoogle) VerifyUser(ctx context.Context, token *oauth2.Token) (oauth.GoogleInformation, error) {
	return g.info, nil
}

type testServer struct {
	handler    http.Handler
	jwtService jwt.Service
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, attendanceOverride attendance.AttendanceService) *testServer {
	t.Helper()

	store := memory.NewStore()
	jwtService := jwt.NewJWTService(testSecret, "1h")

	cal, err := calendar.New([]string{"MO", "TU", "WE", "TH", "FR"}, nil)
	require.NoError(t, err)

	profiles := profileservice.NewProfileService(store.Profiles(), profileservice.DefaultRetryPolicy(), quietLogger())
	leaves := leaveservice.NewLeaveService(store.LeaveRequests(), quietLogger())
	attendances := attendanceOverride
	if attendances == nil {
		attendances = attendanceservice.NewAttendanceService(store.Attendances(), leaves, cal,
			attendance.Policy{HalfDayThreshold: decimal.NewFromInt(5)}, time.UTC,
			attendanceservice.WithLogger(quietLogger()))
	}
	payrolls := payrollservice.NewPayrollService(store.Payrolls(), store, quietLogger())
	auths := authservice.NewAuthService(profiles, jwtService, nil, quietLogger())

	google := fakeGoogle{info: oauth.GoogleInformation{GoogleID: "g-9", Email: "new@example.com", Name: "New", VerifiedEmail: true}}

	router := NewRouter(jwtService, Handlers{
		Auth:       NewAuthHandler(auths, google, "http://frontend", false),
		Profile:    NewProfileHandler(profiles),
		Attendance: NewAttendanceHandler(attendances),
		Leave:      NewLeaveHandler(leaves),
		Payroll:    NewPayrollHandler(payrolls),
	}, RouterOptions{AllowedOrigins: []string{"http://frontend"}})

	return &testServer{handler: router, jwtService: jwtService}
}

func (s *testServer) token(t *testing.T, identity user.Identity) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(identity)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path string, identity *user.Identity, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if identity != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, *identity))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(t *testing.T, method, path string, identity *user.Identity, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return s.do(t, method, path, identity, body, "application/json")
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/today", nil, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A token signed with another secret is rejected.
	other, _, err := jwt.NewJWTService("another-secret", "1h").GenerateAccessToken(employee)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttendanceLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.json(t, http.MethodPost, "/api/v1/attendance/check-out", &employee, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/attendance/check-in", &employee, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var checkedIn attendance.AttendanceResponse
	decode(t, rec, &checkedIn)
	assert.Equal(t, employee.UserID, checkedIn.UserID)
	assert.NotNil(t, checkedIn.CheckIn)
	assert.Nil(t, checkedIn.CheckOut)

	rec = s.json(t, http.MethodPost, "/api/v1/attendance/check-in", &employee, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	rec = s.json(t, http.MethodGet, "/api/v1/attendance/today", &employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today attendance.TodayResponse
	decode(t, rec, &today)
	assert.Equal(t, attendance.StateCheckedIn, today.State)

	rec = s.json(t, http.MethodPost, "/api/v1/attendance/check-out", &employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/attendance/check-out", &employee, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.json(t, http.MethodGet, "/api/v1/attendance/history?limit=5", &employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history attendance.HistoryResponse
	decode(t, rec, &history)
	assert.Len(t, history.Records, 1)
	assert.Equal(t, 5, history.Limit)
}

func TestAttendanceQueryValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "limit not a number", path: "/api/v1/attendance/history?limit=ten", want: http.StatusUnprocessableEntity},
		{name: "limit too large", path: "/api/v1/attendance/history?limit=500", want: http.StatusUnprocessableEntity},
		{name: "summary without range", path: "/api/v1/attendance/summary", want: http.StatusUnprocessableEntity},
		{name: "summary reversed range", path: "/api/v1/attendance/summary?start_date=2026-01-10&end_date=2026-01-01", want: http.StatusUnprocessableEntity},
		{name: "summary valid range", path: "/api/v1/attendance/summary?start_date=2026-01-01&end_date=2026-01-10", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.json(t, http.MethodGet, tt.path, &employee, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAttendanceExport(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.json(t, http.MethodPost, "/api/v1/attendance/check-in", &employee, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	today := time.Now().UTC().Format("2006-01-02")
	rec = s.json(t, http.MethodGet, "/api/v1/attendance/export?start_date="+today+"&end_date="+today, &employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_"+today)

	rows, err := spreadsheet.ReadRows(bytes.NewReader(rec.Body.Bytes()), "Attendance")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	paths := []string{"/api/v1/attendance", "/api/v1/profiles", "/api/v1/leave-requests", "/api/v1/payroll"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := s.json(t, http.MethodGet, path, &employee, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code)

			rec = s.json(t, http.MethodGet, path, &admin, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestLeaveFlow(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.json(t, http.MethodPost, "/api/v1/leave-requests", &employee, map[string]string{
		"type":       "sick",
		"start_date": "2026-03-02",
		"end_date":   "2026-03-03",
		"reason":     "flu",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "pending", created.Status)

	rec = s.json(t, http.MethodPost, "/api/v1/leave-requests", &employee, map[string]string{"type": "holiday"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/leave-requests/"+created.ID+"/approve", &employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/leave-requests/"+created.ID+"/approve", &admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/leave-requests/"+created.ID+"/reject", &admin, map[string]string{"reason": "no"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.json(t, http.MethodPost, "/api/v1/leave-requests/missing/approve", &admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.json(t, http.MethodGet, "/api/v1/leave-requests/my?status=approved", &employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]interface{}
	decode(t, rec, &mine)
	assert.Len(t, mine, 1)
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.json(t, http.MethodGet, "/api/v1/profiles/me", &employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]interface{}
	decode(t, rec, &me)
	assert.Equal(t, "created_fallback", me["outcome"])
	assert.Equal(t, "Emp", me["name"])

	rec = s.json(t, http.MethodPut, "/api/v1/profiles/me", &employee, map[string]string{"department": "Finance"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &me)
	assert.Equal(t, "Finance", me["department"])

	rec = s.json(t, http.MethodPut, "/api/v1/profiles/me", &employee, map[string]string{"name": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func payrollUpload(t *testing.T, rows ...[]interface{}) (io.Reader, string) {
	t.Helper()
	file, err := spreadsheet.Workbook(spreadsheet.Sheet{Name: "Payroll", Header: payroll.ImportColumns, Rows: rows})
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "payroll.xlsx")
	require.NoError(t, err)
	_, err = part.Write(file)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestPayrollImport(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := payrollUpload(t, []interface{}{employee.UserID, 2026, 2, "1000", "100", "50", "1050", "paid"})
	rec := s.do(t, http.MethodPost, "/api/v1/payroll/import", &employee, body, contentType)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	body, contentType = payrollUpload(t, []interface{}{employee.UserID, 2026, 2, "1000", "100", "50", "1050", "paid"})
	rec = s.do(t, http.MethodPost, "/api/v1/payroll/import", &admin, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.json(t, http.MethodGet, "/api/v1/payroll/my?year=2026", &employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []payroll.PayrollRecordResponse
	decode(t, rec, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "1050.00", mine[0].NetSalary)

	body, contentType = payrollUpload(t, []interface{}{employee.UserID, 2026, 14, "1000", "0", "0", "1000", "paid"})
	rec = s.do(t, http.MethodPost, "/api/v1/payroll/import", &admin, body, contentType)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec, nil)
	assert.Contains(t, env.Error.Details, "row 2: month")

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/import", &admin, strings.NewReader("x"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(t, http.MethodGet, "/api/v1/payroll?month=abc", &admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

type unavailableAttendance struct {
	attendance.AttendanceService
}

func (unavailableAttendance) CheckIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, errors.Join(attendance.ErrStoreUnavailable, errors.New("connection reset"))
}

func TestStoreUnavailableIsRetryable(t *testing.T) {
	s := newTestServer(t, unavailableAttendance{})

	rec := s.json(t, http.MethodPost, "/api/v1/attendance/check-in", &employee, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	env := decode(t, rec, nil)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
}

type unreachableLeaveRepository struct {
	leave.LeaveRequestRepository
}

func (unreachableLeaveRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestStoreUnavailable_LeaveSource(t *testing.T) {
	cal, err := calendar.New([]string{"MO", "TU", "WE", "TH", "FR"}, nil)
	require.NoError(t, err)
	leaves := leaveservice.NewLeaveService(unreachableLeaveRepository{}, quietLogger())
	attendances := attendanceservice.NewAttendanceService(memory.NewStore().Attendances(), leaves, cal,
		attendance.Policy{HalfDayThreshold: decimal.NewFromInt(5)}, time.UTC,
		attendanceservice.WithLogger(quietLogger()))
	s := newTestServer(t, attendances)

	for _, path := range []string{
		"/api/v1/attendance/summary?start_date=2026-01-01&end_date=2026-01-10",
		"/api/v1/attendance/export?start_date=2026-01-01&end_date=2026-01-10",
	} {
		rec := s.json(t, http.MethodGet, path, &employee, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"), path)
	}
}

func TestGoogleLogin(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/google/login", nil, nil, "")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "state=state-123")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "state", cookies[0].Name)

	callback := func(query string, cookie string) *url.URL {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?"+query, nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "state", Value: cookie})
		}
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		return location
	}

	assert.Equal(t, "state_cookie_not_found", callback("state=state-123&code=good-code", "").Query().Get("error"))
	assert.Equal(t, "state_mismatch", callback("state=other&code=good-code", "state-123").Query().Get("error"))
	assert.Equal(t, "access_denied", callback("error=access_denied", "state-123").Query().Get("error"))
	assert.Equal(t, "code_empty", callback("state=state-123", "state-123").Query().Get("error"))
	assert.Equal(t, "token_verification_failed", callback("state=state-123&code=bad", "state-123").Query().Get("error"))

	location := callback("state=state-123&code=good-code", "state-123")
	assert.Equal(t, "frontend", location.Host)
	accessToken := location.Query().Get("access_token")
	require.NotEmpty(t, accessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]interface{}
	decode(t, rec, &me)
	assert.Equal(t, "g-9", me["id"])
	assert.Equal(t, "found", me["outcome"])
}
