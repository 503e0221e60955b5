package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Decision is the explicit outcome of a permission check.
type Decision int

const (
	// Allow lets the request proceed to the handler.
	Allow Decision = iota
	// Deny rejects the request; the caller is known but lacks the permission.
	Deny
	// RetryAuth rejects the request; the caller's credentials are missing,
	// expired, or otherwise need to be presented again.
	RetryAuth
)

// PermissionChecker decides whether the presented credential holds a
// permission. Implementations typically call an external authorization
// service; a check error is an availability problem, not a denial.
type PermissionChecker interface {
	Check(ctx context.Context, credential, permission string) (Decision, error)
}

// RequirePermission guards a route with a single named permission. The
// checker's decision is mapped one-to-one onto HTTP status codes: Allow
// passes through, Deny yields 403, RetryAuth yields 401. A checker failure
// yields 503 so clients can distinguish "not allowed" from "cannot tell".
func RequirePermission(permission string, checker PermissionChecker, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := bearerToken(c.GetHeader("Authorization"))

		decision, err := checker.Check(c.Request.Context(), credential, permission)
		if err != nil {
			logger.Error("Permission check unavailable",
				"permission", permission,
				"path", c.Request.URL.Path,
				"error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": gin.H{
					"code":    "AUTHORIZATION_UNAVAILABLE",
					"message": "The authorization service could not be reached",
				},
			})
			return
		}

		switch decision {
		case Allow:
			c.Next()
		case RetryAuth:
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "AUTHENTICATION_REQUIRED",
					"message": "Credentials are missing or expired",
				},
			})
		default:
			logger.Warn("Permission denied",
				"permission", permission,
				"path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "PERMISSION_DENIED",
					"message": "The caller does not hold the required permission",
				},
			})
		}
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// AllowAllChecker grants every permission. Used when the gateway runs
// without an authorization service, for local development and tests.
type AllowAllChecker struct{}

func (AllowAllChecker) Check(_ context.Context, _, _ string) (Decision, error) {
	return Allow, nil
}

// StaticChecker resolves permissions from a fixed credential table. A blank
// or unknown credential asks the caller to re-authenticate; a known
// credential without the permission is denied.
type StaticChecker struct {
	grants map[string]map[string]bool
}

// NewStaticChecker builds a checker from credential -> granted permissions.
func NewStaticChecker(grants map[string][]string) *StaticChecker {
	byCredential := make(map[string]map[string]bool, len(grants))
	for credential, permissions := range grants {
		set := make(map[string]bool, len(permissions))
		for _, p := range permissions {
			set[p] = true
		}
		byCredential[credential] = set
	}
	return &StaticChecker{grants: byCredential}
}

func (s *StaticChecker) Check(_ context.Context, credential, permission string) (Decision, error) {
	if credential == "" {
		return RetryAuth, nil
	}
	permissions, ok := s.grants[credential]
	if !ok {
		return RetryAuth, nil
	}
	if !permissions[permission] {
		return Deny, nil
	}
	return Allow, nil
}
