package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	decision   Decision
	err        error
	credential string
	permission string
}

func (s *stubChecker) Check(_ context.Context, credential, permission string) (Decision, error) {
	s.credential = credential
	s.permission = permission
	return s.decision, s.err
}

func permissionRouter(checker PermissionChecker) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	router.POST("/runs", RequirePermission("reports:run", checker, logger), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})
	return router
}

func TestRequirePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("AllowPassesThrough", func(t *testing.T) {
		checker := &stubChecker{decision: Allow}
		router := permissionRouter(checker)

		req, _ := http.NewRequest(http.MethodPost, "/runs", nil)
		req.Header.Set("Authorization", "Bearer token-abc")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, "token-abc", checker.credential)
		assert.Equal(t, "reports:run", checker.permission)
	})

	t.Run("DenyYields403", func(t *testing.T) {
		router := permissionRouter(&stubChecker{decision: Deny})

		req, _ := http.NewRequest(http.MethodPost, "/runs", nil)
		req.Header.Set("Authorization", "Bearer token-abc")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "PERMISSION_DENIED")
	})

	t.Run("RetryAuthYields401WithChallenge", func(t *testing.T) {
		router := permissionRouter(&stubChecker{decision: RetryAuth})

		req, _ := http.NewRequest(http.MethodPost, "/runs", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		assert.Contains(t, rr.Body.String(), "AUTHENTICATION_REQUIRED")
	})

	t.Run("CheckerErrorYields503", func(t *testing.T) {
		router := permissionRouter(&stubChecker{err: errors.New("authz service down")})

		req, _ := http.NewRequest(http.MethodPost, "/runs", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "AUTHORIZATION_UNAVAILABLE")
	})

	t.Run("MissingBearerPrefixYieldsEmptyCredential", func(t *testing.T) {
		checker := &stubChecker{decision: Allow}
		router := permissionRouter(checker)

		req, _ := http.NewRequest(http.MethodPost, "/runs", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Empty(t, checker.credential)
	})
}

func TestAllowAllChecker(t *testing.T) {
	decision, err := AllowAllChecker{}.Check(context.Background(), "", "anything")
	assert.NoError(t, err)
	assert.Equal(t, Allow, decision)
}

func TestStaticChecker(t *testing.T) {
	checker := NewStaticChecker(map[string][]string{
		"ops-token":      {"reports:run"},
		"partner-token":  {"merchants:onboard"},
		"combined-token": {"reports:run", "merchants:onboard"},
	})

	tests := []struct {
		name       string
		credential string
		permission string
		want       Decision
	}{
		{"GrantedPermission", "ops-token", "reports:run", Allow},
		{"MissingPermission", "ops-token", "merchants:onboard", Deny},
		{"SecondGrant", "combined-token", "merchants:onboard", Allow},
		{"UnknownCredential", "bogus", "reports:run", RetryAuth},
		{"EmptyCredential", "", "reports:run", RetryAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := checker.Check(context.Background(), tt.credential, tt.permission)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, decision)
		})
	}
}
