package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMerchantService struct {
	mock.Mock
}

func (m *MockMerchantService) OnboardMerchant(ctx context.Context, submission *onboarding.Submission) (*settlement.Merchant, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Merchant), args.Error(1)
}

func setupMerchantRouter(svc *MockMerchantService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMerchantHandler(newTestLogger(), svc)
	router := gin.New()
	router.POST("/api/v1/merchants/onboarding", h.Onboard)
	return router
}

func onboardBody(fields map[string]string) []byte {
	body, _ := json.Marshal(OnboardMerchantRequest{Fields: fields})
	return body
}

func TestMerchantHandler_Onboard(t *testing.T) {
	t.Run("creates the merchant and returns 201", func(t *testing.T) {
		svc := new(MockMerchantService)
		router := setupMerchantRouter(svc)

		merchant := &settlement.Merchant{UID: uuid.New(), MerchantID: "M-123", Name: "Alpha Goods"}
		svc.On("OnboardMerchant", mock.Anything, mock.MatchedBy(func(s *onboarding.Submission) bool {
			return s.MerchantID == "M-123" && len(s.AccountNumbers) == 2
		})).Return(merchant, nil)

		body := onboardBody(map[string]string{
			"merchant_id":      "M-123",
			"merchant_name":    "Alpha Goods",
			"account_0_number": "111000025",
			"account_1_number": "111000038",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/merchants/onboarding", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), merchant.UID.String())
		svc.AssertExpectations(t)
	})

	t.Run("maps mapping table violations to 400", func(t *testing.T) {
		svc := new(MockMerchantService)
		router := setupMerchantRouter(svc)

		body := onboardBody(map[string]string{
			"merchant_name":    "Alpha Goods",
			"account_0_number": "111000025",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/merchants/onboarding", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "merchant_id")
		svc.AssertNotCalled(t, "OnboardMerchant", mock.Anything, mock.Anything)
	})

	t.Run("rejects a body without fields", func(t *testing.T) {
		svc := new(MockMerchantService)
		router := setupMerchantRouter(svc)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/merchants/onboarding", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("maps persistence failures to 500", func(t *testing.T) {
		svc := new(MockMerchantService)
		router := setupMerchantRouter(svc)

		svc.On("OnboardMerchant", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		body := onboardBody(map[string]string{
			"merchant_id":      "M-123",
			"merchant_name":    "Alpha Goods",
			"account_0_number": "111000025",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/merchants/onboarding", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
