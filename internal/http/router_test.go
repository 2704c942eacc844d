package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-congress-backend/internal/app"
	"github.com/tbourn/go-congress-backend/internal/config"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/http/handlers"
	"github.com/tbourn/go-congress-backend/internal/http/middleware"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api/v1",
		RateRPS:        100,
		RateBurst:      50,
		MaxPromptRunes: 500,
		IdempotencyTTL: time.Hour,
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
		Upstream:       config.UpstreamConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Sync:           config.SyncConfig{CurrentCongress: 119, BatchSize: 10, Freshness: time.Hour, Concurrency: 1},
	}
}

// newRouter wires the full stack over a fresh store.
func newRouter(t *testing.T, cfg config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	a := app.New(cfg, db, nil)
	r := gin.New()
	RegisterRoutes(r, db, cfg, a.HandlerDeps())
	return r, db
}

func do(r http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedLee(t *testing.T, db *gorm.DB) {
	t.Helper()
	m, err := domain.NewMember(domain.Member{
		BioguideID: "L000577",
		Name:       "Mike Lee",
		FirstName:  "Mike",
		LastName:   "Lee",
		State:      "UT",
		Party:      "R",
		Chamber:    domain.ChamberSenate,
		UpdatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("member: %v", err)
	}
	if err := repo.UpsertMember(context.Background(), db, m); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestRegisterRoutes_HealthMetricsAndFallbacks(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	w := do(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-all CORS expected '*', got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("request id or security headers missing: %v", w.Header())
	}

	w = do(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "congress_http_requests_total") {
		t.Fatalf("GET /metrics code=%d", w.Code)
	}

	w = do(r, http.MethodGet, "/nope", "", nil)
	var env handlers.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	if w.Code != http.StatusNotFound || env.Code != handlers.ErrCodeNotFound || env.RequestID == "" {
		t.Fatalf("NoRoute = %d %+v", w.Code, env)
	}

	if w := do(r, http.MethodPost, "/health", "", nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/swagger/index.html", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger must be off by default, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"http://example.com"}
	r, _ := newRouter(t, cfg)

	w := do(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://example.com"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
	w = do(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://evil.test"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "http://evil.test" {
		t.Fatalf("unlisted origin must not be echoed")
	}
}

func TestRegisterRoutes_PublicDataRoutes(t *testing.T) {
	r, db := newRouter(t, testConfig())
	seedLee(t, db)

	w := do(r, http.MethodGet, "/api/v1/members?q=lee&state=UT", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d %s", w.Code, w.Body.String())
	}
	var page struct {
		Results []struct {
			BioguideID string `json:"bioguide_id"`
		} `json:"results"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil || page.Total != 1 || page.Results[0].BioguideID != "L000577" {
		t.Fatalf("search body = %s", w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=60" {
		t.Fatalf("public cache header = %q", got)
	}

	if w := do(r, http.MethodGet, "/api/v1/members/l000577", "", nil); w.Code != http.StatusOK {
		t.Fatalf("get member = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/v1/members/states", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "UT") {
		t.Fatalf("states = %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/api/v1/members?page=0", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad page = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/v1/bills/not-a-bill", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad bill id = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/v1/votes/recent?chamber=moon", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad chamber = %d", w.Code)
	}
}

func TestRegisterRoutes_AssistantFlowWithIdempotentReplay(t *testing.T) {
	r, db := newRouter(t, testConfig())
	seedLee(t, db)
	user := map[string]string{"X-User-ID": "alice"}

	w := do(r, http.MethodPost, "/api/v1/agent/conversations", `{}`, user)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("conversation responses must be no-store, got %q", got)
	}
	var conv domain.Conversation
	_ = json.Unmarshal(w.Body.Bytes(), &conv)

	path := "/api/v1/agent/conversations/" + conv.ID + "/messages"
	hdr := map[string]string{"X-User-ID": "alice", middleware.HeaderIdempotencyKey: "k-1"}

	first := do(r, http.MethodPost, path, `{"content":"Who is Mike Lee?"}`, hdr)
	if first.Code != http.StatusOK {
		t.Fatalf("post = %d %s", first.Code, first.Body.String())
	}
	if first.Header().Get("Idempotency-Replayed") != "" {
		t.Fatalf("first answer must not be a replay")
	}
	second := do(r, http.MethodPost, path, `{"content":"Who is Mike Lee?"}`, hdr)
	if second.Code != http.StatusOK || second.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("replay = %d %v", second.Code, second.Header())
	}

	var a, b handlers.PostMessageResponse
	_ = json.Unmarshal(first.Body.Bytes(), &a)
	_ = json.Unmarshal(second.Body.Bytes(), &b)
	if a.Message == nil || b.Message == nil || a.Message.ID != b.Message.ID {
		t.Fatalf("replay must return the stored message")
	}

	w = do(r, http.MethodGet, path, "", user)
	var msgs handlers.ListMessagesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &msgs)
	if w.Code != http.StatusOK || len(msgs.Messages) != 2 {
		t.Fatalf("messages = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/v1/agent/messages/"+a.Message.ID+"/feedback", `{"value":1}`, user)
	if w.Code != http.StatusNoContent {
		t.Fatalf("feedback = %d %s", w.Code, w.Body.String())
	}

	bad := do(r, http.MethodPost, path, `{"content":"hi"}`, map[string]string{middleware.HeaderIdempotencyKey: "bad key"})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("invalid idempotency key = %d", bad.Code)
	}
}

func TestIdempotencyLookup(t *testing.T) {
	if idempotencyLookup(nil) != nil {
		t.Fatalf("nil db must disable the lookup")
	}
	db := newTestDB(t)
	lookup := idempotencyLookup(db)
	ctx := context.Background()
	now := time.Now().UTC()

	if hit, err := lookup(ctx, "u1", "c1", "k", now); hit || err != nil {
		t.Fatalf("miss = %v, %v", hit, err)
	}
	if _, err := repo.CreateIdempotency(ctx, db, "u1", "c1", "k", "m1", http.StatusOK, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if hit, _ := lookup(ctx, "u1", "c1", "k", now); !hit {
		t.Fatalf("expected hit")
	}
	if hit, _ := lookup(ctx, "u1", "c1", "k", now.Add(2*time.Hour)); hit {
		t.Fatalf("expired record must miss")
	}
}

func Test_limitBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(4))
	r.POST("/x", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString("12345678")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString("123")))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, prefix := range []string{"", "/", "/api/v2"} {
		r := gin.New()
		groupWithPrefix(r, prefix).GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		path := strings.TrimSuffix(prefix, "/") + "/ping"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("prefix %q: GET %s = %d", prefix, path, w.Code)
		}
	}
}
