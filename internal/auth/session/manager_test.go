package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
)

func TestSetAndReadCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(config.Config{AuthCookieSecure: true}, clock.NewFakeClock(now))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	m.Set(c, "token-value", now.Add(time.Hour))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != DefaultCookieName || ck.Value != "token-value" {
		t.Fatalf("unexpected cookie %s=%s", ck.Name, ck.Value)
	}
	if !ck.HttpOnly || !ck.Secure {
		t.Fatalf("expected HttpOnly secure cookie")
	}
	if ck.MaxAge != 3600 {
		t.Fatalf("expected max age 3600, got %d", ck.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "token-value"})
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = req
	token, ok := m.ReadToken(c2)
	if !ok || token != "token-value" {
		t.Fatalf("expected to read token back, got %q %v", token, ok)
	}
}

func TestReadTokenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager(config.Config{}, clock.New())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := m.ReadToken(c); ok {
		t.Fatal("expected no token")
	}
}
