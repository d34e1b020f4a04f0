package main

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lg/goal-engine-api/goalcalc"
)

// setupRouter registers every route against a Handler with no database.
// Only paths that answer before touching h.db are exercised here: preview,
// metrics, and the request validation in front of each query.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	registerMetrics()
	h := &Handler{engine: goalcalc.Default()}
	router := gin.New()
	h.registerRoutes(router)
	return router
}

// setupAuthedRouter mounts a single handler behind a stub that sets user_id,
// skipping authMiddleware.
func setupAuthedRouter(method, path string, handler func(*Handler) gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{engine: goalcalc.Default()}
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, handler(h))
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const referenceBody = `{
	"age": 30, "sex": "male", "height_ft": 5, "height_in": 10,
	"weight_lbs": 200, "target_weight_lbs": 180,
	"activity_level": "moderate", "goal_type": "lose",
	"start_date": "2026-01-05", "end_date": "2026-05-25"
}`

/* ─── Preview ────────────────────────────────────────────────────────── */

func TestPreviewGoalPlan_ReferenceProfile(t *testing.T) {
	router := setupRouter()
	w := doRequest(router, "POST", "/api/goal-plan/preview", referenceBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var got goalcalc.CalculatedResults
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Calories != 2404 || got.DailyDelta != -500 || got.WeeklyChange != -1.0 {
		t.Errorf("calories/delta/weekly = %d/%d/%v, want 2404/-500/-1", got.Calories, got.DailyDelta, got.WeeklyChange)
	}
	if got.Protein != 180 || got.Carbs != 240 || got.Fat != 80 {
		t.Errorf("macros = %d/%d/%d, want 180/240/80", got.Protein, got.Carbs, got.Fat)
	}
	if got.BMICategory.Name != "Overweight" {
		t.Errorf("bmi category = %q, want Overweight", got.BMICategory.Name)
	}
	if math.Abs(got.TotalWeeks-20) > 1e-9 {
		t.Errorf("total weeks = %v, want 20", got.TotalWeeks)
	}
}

func TestPreviewGoalPlan_ObeseCategoryMaxIsNull(t *testing.T) {
	router := setupRouter()
	body := strings.Replace(referenceBody, `"weight_lbs": 200`, `"weight_lbs": 260`, 1)
	body = strings.Replace(body, `"target_weight_lbs": 180`, `"target_weight_lbs": 240`, 1)
	w := doRequest(router, "POST", "/api/goal-plan/preview", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var raw struct {
		BMICategory map[string]any `json:"bmi_category"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw.BMICategory["name"] != "Obese" {
		t.Fatalf("category = %v, want Obese", raw.BMICategory["name"])
	}
	if v, ok := raw.BMICategory["max"]; !ok || v != nil {
		t.Errorf("max = %v (present=%v), want null", v, ok)
	}
}

func TestPreviewGoalPlan_ValidationErrors(t *testing.T) {
	cases := []struct {
		name      string
		from, to  string
		wantField string
	}{
		{"unknown sex", `"sex": "male"`, `"sex": "other"`, "sex"},
		{"unknown activity", `"activity_level": "moderate"`, `"activity_level": "active"`, "activity"},
		{"unknown goal type", `"goal_type": "lose"`, `"goal_type": "cut"`, "goal_type"},
		{"zero age", `"age": 30`, `"age": 0`, "age"},
		{"zero weight", `"weight_lbs": 200`, `"weight_lbs": 0`, "weight"},
		{"zero target", `"target_weight_lbs": 180`, `"target_weight_lbs": 0`, "target_weight"},
		{"end before start", `"end_date": "2026-05-25"`, `"end_date": "2026-01-01"`, "end_date"},
		{"end equals start", `"end_date": "2026-05-25"`, `"end_date": "2026-01-05"`, "end_date"},
	}
	router := setupRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := strings.Replace(referenceBody, tc.from, tc.to, 1)
			w := doRequest(router, "POST", "/api/goal-plan/preview", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["field"] != tc.wantField {
				t.Errorf("field = %q, want %q (error %q)", resp["field"], tc.wantField, resp["error"])
			}
			if resp["error"] == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestPreviewGoalPlan_BadBody(t *testing.T) {
	router := setupRouter()
	for _, body := range []string{
		`not json`,
		strings.Replace(referenceBody, `"2026-01-05"`, `"01/05/2026"`, 1),
	} {
		w := doRequest(router, "POST", "/api/goal-plan/preview", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d for body %q", w.Code, body)
		}
		if !strings.Contains(w.Body.String(), "invalid request body") {
			t.Errorf("body = %s", w.Body.String())
		}
	}
}

/* ─── Metrics & auth ─────────────────────────────────────────────────── */

func TestMetrics_ExposesComputeCounters(t *testing.T) {
	router := setupRouter()
	doRequest(router, "POST", "/api/goal-plan/preview", referenceBody)
	doRequest(router, "POST", "/api/goal-plan/preview", strings.Replace(referenceBody, `"age": 30`, `"age": 0`, 1))

	w := doRequest(router, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := w.Body.String()
	for _, want := range []string{
		`goal_engine_plans_computed_total{outcome="ok"}`,
		`goal_engine_plans_computed_total{outcome="invalid"}`,
		`goal_engine_validation_failures_total{field="age"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	router := setupRouter()
	for _, path := range []string{"/api/goal-plan", "/api/goal-profile", "/api/weight-log"} {
		w := doRequest(router, "GET", path, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, w.Code)
		}
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc-123", "abc-123", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := bearerToken(tc.header)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLogin_BadBody(t *testing.T) {
	router := setupRouter()
	w := doRequest(router, "POST", "/api/login", `{"password": "x"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

/* ─── Request validation in front of queries ─────────────────────────── */

func TestGetWeightLog_ParamValidation(t *testing.T) {
	router := setupAuthedRouter("GET", "/api/weight-log", func(h *Handler) gin.HandlerFunc { return h.getWeightLog })
	cases := []struct {
		query   string
		wantMsg string
	}{
		{"", "start is required"},
		{"?start=2026-01-05", "end is required"},
		{"?start=bad&end=2026-01-05", "invalid start"},
		{"?start=2026-02-01&end=2026-01-05", "start must not be after end"},
	}
	for _, tc := range cases {
		w := doRequest(router, "GET", "/api/weight-log"+tc.query, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%q: status = %d, want 400", tc.query, w.Code)
		}
		if !strings.Contains(w.Body.String(), tc.wantMsg) {
			t.Errorf("%q: body = %s, want %q", tc.query, w.Body.String(), tc.wantMsg)
		}
	}
}

func TestUpsertWeightEntry_Validation(t *testing.T) {
	router := setupAuthedRouter("POST", "/api/weight-log", func(h *Handler) gin.HandlerFunc { return h.upsertWeightEntry })
	for _, body := range []string{
		`{"weight_lbs": 180}`,
		`{"date": "2026-13-01", "weight_lbs": 180}`,
		`{"date": "2026-01-05", "weight_lbs": 0}`,
		`{"date": "2026-01-05", "weight_lbs": -5}`,
		`{"date": "2026-01-05", "weight_lbs": 10000}`,
	} {
		w := doRequest(router, "POST", "/api/weight-log", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestPutGoalProfile_RejectsBeforeSaving(t *testing.T) {
	router := setupAuthedRouter("PUT", "/api/goal-profile", func(h *Handler) gin.HandlerFunc { return h.putGoalProfile })
	body := strings.Replace(referenceBody, `"sex": "male"`, `"sex": ""`, 1)
	w := doRequest(router, "PUT", "/api/goal-profile", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"field":"sex"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGetGoalPlanByID_RejectsNonUUID(t *testing.T) {
	router := setupAuthedRouter("GET", "/api/goal-plans/:id", func(h *Handler) gin.HandlerFunc { return h.getGoalPlanByID })
	w := doRequest(router, "GET", "/api/goal-plans/42", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteWeightEntry_RejectsNonIntegerID(t *testing.T) {
	router := setupAuthedRouter("DELETE", "/api/weight-log/:id", func(h *Handler) gin.HandlerFunc { return h.deleteWeightEntry })
	for _, id := range []string{"abc", "1.5", "9f1c"} {
		w := doRequest(router, "DELETE", "/api/weight-log/"+id, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("DELETE %s: status = %d, want 400", id, w.Code)
		}
	}
}

/* ─── Config ─────────────────────────────────────────────────────────── */

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/test")
	t.Setenv("PORT", "8080")
	t.Setenv("GOAL_TABLES_FILE", "")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBURL != "postgres://localhost/test" {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv("PORT", "")
	if cfg, _ = loadConfig(); cfg.Addr != ":3000" {
		t.Errorf("default addr = %q, want :3000", cfg.Addr)
	}

	t.Setenv("DB_URL", "")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error without DB_URL")
	}
}

func TestLoadEngine_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	yaml := "safety:\n  calorie_floor:\n    male: ${TEST_MALE_FLOOR}\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEST_MALE_FLOOR", "2600")

	e, err := loadEngine(path)
	if err != nil {
		t.Fatalf("loadEngine: %v", err)
	}
	if got := e.Tables().Safety.CalorieFloor[goalcalc.Male]; got != 2600 {
		t.Errorf("male floor = %d, want 2600", got)
	}
	if got := e.Tables().Safety.CalorieFloor[goalcalc.Female]; got != 1200 {
		t.Errorf("female floor = %d, want default 1200", got)
	}

	if e, err := loadEngine(""); err != nil || e != goalcalc.Default() {
		t.Errorf("loadEngine(\"\") = %p, %v; want default engine", e, err)
	}
	if _, err := loadEngine(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
