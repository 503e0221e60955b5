package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("LogsRequestDetails", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		router := gin.New()
		router.Use(Logger(logger))
		router.GET("/reports/runs", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest(http.MethodGet, "/reports/runs?date=2026-03-14", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		out := buf.String()
		assert.Contains(t, out, "HTTP request")
		assert.Contains(t, out, "/reports/runs?date=2026-03-14")
		assert.Contains(t, out, "\"method\":\"GET\"")
		assert.Contains(t, out, "\"status\":200")
	})

	t.Run("IncludesCorrelationIDWhenPresent", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		router := gin.New()
		router.Use(CorrelationID(), Logger(logger))
		router.GET("/ok", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		providedID := uuid.New().String()
		req, _ := http.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(CorrelationIDHeader, providedID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Contains(t, buf.String(), providedID)
	})
}
