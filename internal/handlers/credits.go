// internal/handlers/credits.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/solaforge/solaforge-backend/internal/i18n"
	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

type CreditHandler struct {
	creditService *services.CreditService
}

func NewCreditHandler(creditService *services.CreditService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
	}
}

// GET /credits/packs
func (h *CreditHandler) Packs(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"packs": h.creditService.Packs()})
}

// POST /credits/purchase
func (h *CreditHandler) Purchase(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		PackID string `json:"pack_id" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	intent, err := h.creditService.CreatePurchaseIntent(c.Request.Context(), wallet, req.PackID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCreditPack) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, intent)
}

// POST /credits/confirm
func (h *CreditHandler) Confirm(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		PaymentIntentID string `json:"payment_intent_id" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	purchase, err := h.creditService.ConfirmPurchase(c.Request.Context(), wallet, req.PaymentIntentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPurchaseNotFound):
			utils.NotFoundResponse(c, "purchase")
		case errors.Is(err, services.ErrPaymentNotComplete):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, purchase)
}

// GET /credits/history
func (h *CreditHandler) History(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	purchases, err := h.creditService.History(c.Request.Context(), wallet)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"purchases": purchases})
}
