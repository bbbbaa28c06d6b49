package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/family-budget/backend/internal/integration/adapters"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIdentify(t *testing.T) {
	tokens := adapters.NewTokenService("middleware-secret")
	valid, err := tokens.IssueToken("user-1", "ana@example.com", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{name: "no header continues anonymously", header: "", wantStatus: http.StatusOK},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantUser: "user-1"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			engine := gin.New()
			engine.Use(NewAuthMiddleware(tokens).Identify())
			engine.GET("/", func(c *gin.Context) {
				if s := GetSession(c); s != nil {
					gotUser = s.UserID
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if gotUser != tt.wantUser {
				t.Errorf("expected user %q, got %q", tt.wantUser, gotUser)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }

	engine := gin.New()
	engine.POST("/invite", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/invite", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := send("10.0.0.1:1234"); w.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201, got %d", i+1, w.Code)
		}
	}

	now = now.Add(20 * time.Second)
	w := send("10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the limit, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "40" {
		t.Errorf("expected Retry-After 40, got %q", got)
	}
	if w := send("10.0.0.2:1234"); w.Code != http.StatusCreated {
		t.Errorf("expected another client to be allowed, got %d", w.Code)
	}

	now = now.Add(time.Minute)
	if remaining := limiter.Cleanup(); remaining != 1 {
		t.Errorf("expected one live window after cleanup, got %d", remaining)
	}
	if w := send("10.0.0.1:1234"); w.Code != http.StatusCreated {
		t.Errorf("expected 201 once the window expired, got %d", w.Code)
	}

	limiter.Reset()
	if remaining := limiter.Cleanup(); remaining != 0 {
		t.Errorf("expected no windows after reset, got %d", remaining)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(0, time.Minute)
	engine := gin.New()
	engine.POST("/invite", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invite", nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201, got %d", i+1, w.Code)
		}
	}
}
