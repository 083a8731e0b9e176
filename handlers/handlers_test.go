package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bearcart/api/dataset"
	"bearcart/api/metrics"
	"bearcart/api/models"
	"bearcart/api/store"
	"bearcart/api/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeSource struct {
	engine *metrics.Engine
	err    error
}

func (f fakeSource) Engine() (*metrics.Engine, error) { return f.engine, f.err }

type fakeReloader struct {
	err   error
	calls int
}

func (f *fakeReloader) Reload(context.Context) error {
	f.calls++
	return f.err
}

func serve(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return out
}

func revenueEngine(t *testing.T) *metrics.Engine {
	t.Helper()
	day := func(s string) time.Time {
		ts, _ := time.Parse("2006-01-02", s)
		return ts
	}
	sessions, err := dataset.NewTable("sessions",
		dataset.NewTimeColumn("session_date", []time.Time{day("2023-11-05"), day("2023-12-05"), day("2024-01-05")}, nil),
		dataset.NewNumberColumn("total_order_value", []float64{10, 20, 30}, nil),
		dataset.NewStringColumn("traffic_channel", []string{"Organic", "Paid", "Organic"}, nil),
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return metrics.NewEngine(sessions, nil, nil)
}

func TestGetDashboardNotInitialized(t *testing.T) {
	r := gin.New()
	r.GET("/api/dashboard", NewDashboardHandlers(fakeSource{err: metrics.ErrServiceNotInitialized}, "Month", "").GetDashboard)

	w := serve(t, r, http.MethodGet, "/api/dashboard", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Metrics service not initialized. Run pipeline first." {
		t.Fatalf("unexpected error body: %v", got)
	}
}

func TestGetDashboard(t *testing.T) {
	r := gin.New()
	r.GET("/api/dashboard", NewDashboardHandlers(fakeSource{engine: revenueEngine(t)}, "Month", "").GetDashboard)

	w := serve(t, r, http.MethodGet, "/api/dashboard?range=All", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	revenue := body["revenue"].(map[string]any)
	if revenue["total_revenue"] != 60.0 {
		t.Errorf("total_revenue: %v", revenue["total_revenue"])
	}

	// The default range applies when none is given: only the last 30 days of data.
	w = serve(t, r, http.MethodGet, "/api/dashboard", "")
	revenue = decode(t, w)["revenue"].(map[string]any)
	if revenue["total_revenue"] != 30.0 {
		t.Errorf("default range total_revenue: %v", revenue["total_revenue"])
	}
}

func TestGetDashboardComputationFailure(t *testing.T) {
	sessions, _ := dataset.NewTable("sessions", dataset.NewStringColumn("total_order_value", []string{"x"}, nil))
	r := gin.New()
	r.GET("/api/dashboard", NewDashboardHandlers(fakeSource{engine: metrics.NewEngine(sessions, nil, nil)}, "All", "").GetDashboard)

	w := serve(t, r, http.MethodGet, "/api/dashboard", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if decode(t, w)["details"] == nil {
		t.Fatal("expected error details")
	}
}

func TestGetQualityReport(t *testing.T) {
	dir := t.TempDir()
	r := gin.New()
	r.GET("/api/quality", NewDashboardHandlers(nil, "Month", dir).GetQualityReport)

	if w := serve(t, r, http.MethodGet, "/api/quality", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	if err := os.WriteFile(filepath.Join(dir, "quality_report.json"), []byte(`{"ok":true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	w := serve(t, r, http.MethodGet, "/api/quality", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"ok":true}` {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestAdminReload(t *testing.T) {
	reloader := &fakeReloader{}
	r := gin.New()
	r.POST("/api/admin/reload", NewAdminHandlers(reloader).Reload)

	w := serve(t, r, http.MethodPost, "/api/admin/reload", "")
	if w.Code != http.StatusOK || reloader.calls != 1 {
		t.Fatalf("expected 200 after one reload, got %d after %d", w.Code, reloader.calls)
	}

	reloader.err = errors.New("boom")
	if w := serve(t, r, http.MethodPost, "/api/admin/reload", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetForecastPeriodsValidation(t *testing.T) {
	r := gin.New()
	r.GET("/api/forecast", NewForecastHandlers(fakeSource{engine: revenueEngine(t)}, 3, 12).GetForecast)

	for _, q := range []string{"abc", "-1", "13", "2.5"} {
		if w := serve(t, r, http.MethodGet, "/api/forecast?periods="+q, ""); w.Code != http.StatusBadRequest {
			t.Errorf("periods=%s: expected 400, got %d", q, w.Code)
		}
	}

	w := serve(t, r, http.MethodGet, "/api/forecast", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp models.ForecastResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Forecast) != 3 || len(resp.Labels) != 6 {
		t.Fatalf("expected 3 forecast values and 6 labels, got %+v", resp)
	}
}

func TestGetForecastNotInitialized(t *testing.T) {
	r := gin.New()
	r.GET("/api/forecast", NewForecastHandlers(fakeSource{err: metrics.ErrServiceNotInitialized}, 3, 12).GetForecast)
	if w := serve(t, r, http.MethodGet, "/api/forecast", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestBuildForecast(t *testing.T) {
	months := []metrics.MonthBucket{
		{Year: 2023, Month: time.November, Revenue: 10},
		{Year: 2023, Month: time.December, Revenue: 20},
		{Year: 2024, Month: time.January, Revenue: 30},
	}
	got := BuildForecast(months, 2)

	wantLabels := []string{"Nov 2023", "Dec 2023", "Jan 2024", "Feb 2024", "Mar 2024"}
	if !reflect.DeepEqual(got.Labels, wantLabels) {
		t.Errorf("Labels: %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Actual, []float64{10, 20, 30}) {
		t.Errorf("Actual: %v", got.Actual)
	}
	if !reflect.DeepEqual(got.Forecast, []float64{40, 50}) {
		t.Errorf("Forecast: %v", got.Forecast)
	}
	if got.GrowthRatePct != 50 || got.TrendDirection != "Up" {
		t.Errorf("growth %v direction %s", got.GrowthRatePct, got.TrendDirection)
	}
}

func TestBuildForecastRoundingAndDirection(t *testing.T) {
	months := []metrics.MonthBucket{
		{Year: 2024, Month: time.January, Revenue: 10},
		{Year: 2024, Month: time.February, Revenue: 20},
		{Year: 2024, Month: time.March, Revenue: 40},
	}
	if got := BuildForecast(months, 0); got.GrowthRatePct != 64.29 {
		t.Errorf("expected 64.29, got %v", got.GrowthRatePct)
	}

	down := []metrics.MonthBucket{
		{Year: 2024, Month: time.January, Revenue: 40},
		{Year: 2024, Month: time.February, Revenue: 10},
	}
	if got := BuildForecast(down, 1); got.TrendDirection != "Down" {
		t.Errorf("expected Down, got %s", got.TrendDirection)
	}

	if got := BuildForecast(nil, 3); len(got.Labels) != 0 || len(got.Forecast) != 0 {
		t.Errorf("no history should give an empty forecast, got %+v", got)
	}
}

type memoryUsers struct {
	byEmail map[string]*models.User
	failGet error
}

func (m *memoryUsers) CreateUser(_ context.Context, email string, hashed []byte) (*models.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, store.ErrUserExists
	}
	u := &models.User{ID: len(m.byEmail) + 1, Email: email, HashedPassword: hashed}
	m.byEmail[email] = u
	return u, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func authRouter(t *testing.T) (*gin.Engine, *memoryUsers) {
	t.Helper()
	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	users := &memoryUsers{byEmail: map[string]*models.User{}}
	h := NewAuthHandlers(users, tokens)

	r := gin.New()
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	return r, users
}

func TestSignupAndLogin(t *testing.T) {
	r, _ := authRouter(t)
	creds := `{"email":"analyst@bearcart.test","password":"correct-horse"}`

	if w := serve(t, r, http.MethodPost, "/signup", creds); w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d %s", w.Code, w.Body.String())
	}
	if w := serve(t, r, http.MethodPost, "/signup", creds); w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", w.Code)
	}

	w := serve(t, r, http.MethodPost, "/login", creds)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "jwt_token=") {
		t.Fatalf("login should set the token cookie, got %q", w.Header().Get("Set-Cookie"))
	}

	wrong := `{"email":"analyst@bearcart.test","password":"wrong-horse"}`
	if w := serve(t, r, http.MethodPost, "/login", wrong); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", w.Code)
	}
	unknown := `{"email":"nobody@bearcart.test","password":"whatever"}`
	if w := serve(t, r, http.MethodPost, "/login", unknown); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", w.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	r, users := authRouter(t)
	if w := serve(t, r, http.MethodPost, "/signup", `{"email":"not-an-email","password":"longenough"}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad email: expected 400, got %d", w.Code)
	}
	if w := serve(t, r, http.MethodPost, "/signup", `{"email":"a@b.test","password":"short"}`); w.Code != http.StatusBadRequest {
		t.Errorf("short password: expected 400, got %d", w.Code)
	}

	users.failGet = errors.New("connection reset")
	if w := serve(t, r, http.MethodPost, "/signup", `{"email":"a@b.test","password":"longenough"}`); w.Code != http.StatusInternalServerError {
		t.Errorf("store failure: expected 500, got %d", w.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := authRouter(t)
	w := serve(t, r, http.MethodPost, "/logout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cookie := w.Header().Get("Set-Cookie"); !strings.Contains(cookie, "jwt_token=;") || !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected an expired cookie, got %q", cookie)
	}
}
