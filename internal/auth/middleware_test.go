package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plumeblog/plume/pkg/config"
)

func testRouter(t *testing.T) (*gin.Engine, *TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := NewTokenManager(&config.AuthConfig{
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	r := gin.New()
	r.GET("/whoami", Middleware(m), func(c *gin.Context) {
		id, ok := Viewer(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no viewer"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r, m
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestMiddlewareAcceptsCookie(t *testing.T) {
	r, m := testRouter(t)

	access, _, err := m.IssuePair(42)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: access})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestMiddlewareAcceptsBearerHeader(t *testing.T) {
	r, m := testRouter(t)

	access, _, err := m.IssuePair(42)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestMiddlewareRejectsRefreshTokenAsAccess(t *testing.T) {
	r, m := testRouter(t)

	_, refresh, err := m.IssuePair(42)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: refresh})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
