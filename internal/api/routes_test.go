package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/analytics"
	"github.com/hiredeck/hiredeck/internal/lifecycle"
	"github.com/hiredeck/hiredeck/internal/logger"
	"github.com/hiredeck/hiredeck/internal/notify"
	"github.com/hiredeck/hiredeck/internal/report"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/window"
)

const testJWTSecret = "test-secret"

var apiTestNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, sub uuid.UUID, role store.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub.String(),
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestRouter(t *testing.T, mem *store.Memory) http.Handler {
	t.Helper()

	engine := analytics.NewService(mem, logger.NewTestLogger())
	resolver := window.NewResolver(func() time.Time { return apiTestNow })
	assembler := report.NewAssembler(engine, resolver, nil, logger.NewTestLogger())
	lifecycleSvc := lifecycle.NewService(mem, notify.NewStoreEmitter(mem, func() time.Time { return apiTestNow }), logger.NewTestLogger())

	return NewRouter(&Config{
		Store:          mem,
		Assembler:      assembler,
		Lifecycle:      lifecycleSvc,
		JWTSecret:      testJWTSecret,
		RequestTimeout: 5 * time.Second,
	})
}

func seedApplication(mem *store.Memory, status string) (store.Application, store.JobPosting) {
	job := store.JobPosting{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Title:          "Data Engineer",
		Status:         store.JobActive,
		ApprovalStatus: store.ApprovalApproved,
		CreatedAt:      apiTestNow.Add(-48 * time.Hour),
	}
	mem.SeedJobPosting(job)
	app := store.Application{
		ID:          uuid.New(),
		JobID:       job.ID,
		ApplicantID: uuid.New(),
		Status:      status,
		AppliedAt:   apiTestNow.Add(-24 * time.Hour),
	}
	mem.SeedApplication(app)
	return app, job
}

func doTransition(t *testing.T, router http.Handler, token string, appID uuid.UUID, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/v1/applications/%s/status", appID), bytes.NewReader(raw))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTransitionEndpoint(t *testing.T) {
	mem := store.NewMemory()
	app, _ := seedApplication(mem, "New")
	router := newTestRouter(t, mem)
	token := signToken(t, uuid.New(), store.RoleRecruiter)

	rec := doTransition(t, router, token, app.ID, map[string]string{
		"status":   "Reviewed",
		"expected": "New",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got store.Application
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != "Reviewed" {
		t.Errorf("status = %s, want Reviewed", got.Status)
	}
}

func TestTransitionEndpointStaleState(t *testing.T) {
	mem := store.NewMemory()
	app, _ := seedApplication(mem, "Shortlisted")
	router := newTestRouter(t, mem)
	token := signToken(t, uuid.New(), store.RoleRecruiter)

	rec := doTransition(t, router, token, app.ID, map[string]string{
		"status":   "Reviewed",
		"expected": "New",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestTransitionEndpointTerminal(t *testing.T) {
	mem := store.NewMemory()
	app, _ := seedApplication(mem, "Hired")
	router := newTestRouter(t, mem)
	token := signToken(t, uuid.New(), store.RoleRecruiter)

	rec := doTransition(t, router, token, app.ID, map[string]string{
		"status":   "Reviewed",
		"expected": "Hired",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestTransitionEndpointDefaultsExpectedToCurrent(t *testing.T) {
	mem := store.NewMemory()
	app, _ := seedApplication(mem, "New")
	router := newTestRouter(t, mem)
	token := signToken(t, uuid.New(), store.RoleRecruiter)

	rec := doTransition(t, router, token, app.ID, map[string]string{"status": "Shortlisted"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestTransitionEndpointAuth(t *testing.T) {
	mem := store.NewMemory()
	app, _ := seedApplication(mem, "New")
	router := newTestRouter(t, mem)

	rec := doTransition(t, router, "", app.ID, map[string]string{"status": "Reviewed"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	seekerToken := signToken(t, uuid.New(), store.RoleJobSeeker)
	rec = doTransition(t, router, seekerToken, app.ID, map[string]string{"status": "Reviewed"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("job seeker: status = %d, want 403", rec.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	mem := store.NewMemory()
	owner := uuid.New()
	mem.SeedAccount(store.Account{
		ID: owner, Role: store.RoleRecruiter, CompanyName: "Acme",
		CreatedAt: apiTestNow.Add(-72 * time.Hour), IsActive: true,
	})
	seedApplication(mem, "New")
	router := newTestRouter(t, mem)
	token := signToken(t, owner, store.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/dashboard?period=month", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var out report.DashboardKPIs
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Applications.Value != 1 {
		t.Errorf("applications = %d, want 1", out.Applications.Value)
	}
	if len(out.Degraded) != 0 {
		t.Errorf("Degraded = %v, want empty", out.Degraded)
	}
}

func TestDashboardEndpointRejectsBadPeriod(t *testing.T) {
	mem := store.NewMemory()
	router := newTestRouter(t, mem)
	token := signToken(t, uuid.New(), store.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/dashboard?period=quarter", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestCompanyReportForbiddenForOtherOwner(t *testing.T) {
	mem := store.NewMemory()
	other := uuid.New()
	mem.SeedAccount(store.Account{
		ID: other, Role: store.RoleRecruiter, CompanyName: "Rival",
		CreatedAt: apiTestNow.Add(-time.Hour), IsActive: true,
	})
	router := newTestRouter(t, mem)
	token := signToken(t, uuid.New(), store.RoleRecruiter)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/company/"+other.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestNotificationsEndpoint(t *testing.T) {
	mem := store.NewMemory()
	app, job := seedApplication(mem, "New")
	router := newTestRouter(t, mem)

	// A successful transition leaves exactly one notification for the
	// applicant.
	recruiter := signToken(t, job.OwnerID, store.RoleRecruiter)
	if rec := doTransition(t, router, recruiter, app.ID, map[string]string{
		"status": "Reviewed", "expected": "New",
	}); rec.Code != http.StatusOK {
		t.Fatalf("transition failed: %d %s", rec.Code, rec.Body.String())
	}

	applicant := signToken(t, app.ApplicantID, store.RoleJobSeeker)
	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+applicant)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Notifications []store.Notification `json:"notifications"`
		Count         int                  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || len(out.Notifications) != 1 {
		t.Fatalf("count = %d, want 1: %s", out.Count, rec.Body.String())
	}
	if out.Notifications[0].Type != notify.TypeStatusUpdate {
		t.Errorf("type = %s, want %s", out.Notifications[0].Type, notify.TypeStatusUpdate)
	}
}
