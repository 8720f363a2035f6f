package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactdesk/internal/domain"
	"contactdesk/internal/service"
)

func newMiddlewareFixture() (*service.AuthService, *fakeSessionRepo, *fakeUserRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	codes := newFakeCodeRepo(sessions)
	svc := service.NewAuthService(zap.NewNop(), users, codes, sessions, nil, nil)
	return svc, sessions, users
}

func TestSessionAuthMiddleware_AllowsLiveSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, sessions, users := newMiddlewareFixture()

	now := time.Now().UTC()
	users.usersByID["u1"] = domain.User{ID: "u1", Email: "user@example.com", CreatedAt: now}
	sessions.sessions["tok1"] = domain.Session{Token: "tok1", UserID: "u1", CreatedAt: now.Add(-time.Hour), LastUsedAt: now.Add(-time.Hour)}

	r := gin.New()
	r.GET("/protected", SessionAuthMiddleware(svc), func(c *gin.Context) {
		user, ok := GetAuthUser(c)
		if !ok || user.ID != "u1" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !sessions.sessions["tok1"].LastUsedAt.After(now.Add(-time.Minute)) {
		t.Fatalf("expected last_used_at refreshed")
	}
}

func TestSessionAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _ := newMiddlewareFixture()

	r := gin.New()
	r.GET("/protected", SessionAuthMiddleware(svc), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthMiddleware_RejectsUnknownToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _ := newMiddlewareFixture()

	r := gin.New()
	r.GET("/protected", SessionAuthMiddleware(svc), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
