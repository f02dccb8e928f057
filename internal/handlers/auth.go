// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/solaforge/solaforge-backend/internal/i18n"
	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/challenge
func (h *AuthHandler) Challenge(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		WalletAddress string `json:"wallet_address" validate:"required,wallet_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	challenge, err := h.authService.Challenge(c.Request.Context(), req.WalletAddress)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, challenge)
}

// POST /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		WalletAddress string `json:"wallet_address" validate:"required,wallet_address"`
		Signature     string `json:"signature" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	authResponse, err := h.authService.Verify(c.Request.Context(), req.WalletAddress, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNonceExpired):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthNonceExpired))
		case errors.Is(err, services.ErrInvalidSignature):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidSignature))
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user":          authResponse.User,
		"token":         authResponse.Token,
		"refresh_token": authResponse.RefreshToken,
		"expires_at":    authResponse.ExpiresAt,
	})
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	authResponse, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user":          authResponse.User,
		"token":         authResponse.Token,
		"refresh_token": authResponse.RefreshToken,
		"expires_at":    authResponse.ExpiresAt,
	})
}
