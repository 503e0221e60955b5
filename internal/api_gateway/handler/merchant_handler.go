package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/settlement-reporting/internal/api_gateway/service"
	"github.com/settlement-reporting/internal/onboarding"
)

// MerchantHandler handles HTTP requests for merchant onboarding
type MerchantHandler struct {
	merchantService service.MerchantService
	logger          *slog.Logger
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(logger *slog.Logger, merchantService service.MerchantService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		logger:          logger,
	}
}

// Onboard decodes a flat key-value submission through the onboarding mapping
// table and creates the merchant with its settlement accounts
func (h *MerchantHandler) Onboard(c *gin.Context) {
	var req OnboardMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	submission, err := onboarding.Decode(req.Fields)
	if err != nil {
		var missing onboarding.ErrMissingField
		var invalid onboarding.ErrInvalidField
		if errors.As(err, &missing) || errors.As(err, &invalid) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to decode onboarding submission", "error", err)
		RespondInternalError(c)
		return
	}

	merchant, err := h.merchantService.OnboardMerchant(c.Request.Context(), submission)
	if err != nil {
		h.logger.Error("Failed to onboard merchant", "merchant_id", submission.MerchantID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, MerchantResponse{
		UID:        merchant.UID.String(),
		MerchantID: merchant.MerchantID,
		Name:       merchant.Name,
	})
}
