package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"structa-system/internal/utils"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/", JWTAuth())
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": CtxClaims(c).Username})
	})

	admin := r.Group("/admin", JWTAuth(), RequireAdmin())
	admin.GET("/reports", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingToken(t *testing.T) {
	r := authTestRouter()
	w := doRequest(t, r, "/me", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error":"Unauthorized"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	r := authTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abcdef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthTamperedToken(t *testing.T) {
	token, _, err := utils.GenerateToken(5, "client-a", "client", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	r := authTestRouter()
	w := doRequest(t, r, "/me", tampered)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestJWTAuthValidTokenPassesClaims(t *testing.T) {
	token, _, err := utils.GenerateToken(5, "client-a", "client", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := authTestRouter()
	w := doRequest(t, r, "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"username":"client-a"`) {
		t.Errorf("claims not threaded through: %s", w.Body.String())
	}
}

func TestRequireAdminForbidsClient(t *testing.T) {
	token, _, err := utils.GenerateToken(5, "client-a", "client", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := authTestRouter()
	w := doRequest(t, r, "/admin/reports", token)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error":"Forbidden"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRequireAdminAllowsBackOffice(t *testing.T) {
	for _, role := range []string{"admin", "staff"} {
		token, _, err := utils.GenerateToken(1, "ops", role, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		r := authTestRouter()
		if w := doRequest(t, r, "/admin/reports", token); w.Code != http.StatusOK {
			t.Errorf("role %s: status = %d, want 200", role, w.Code)
		}
	}
}
