// internal/handlers/generation.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solaforge/solaforge-backend/internal/i18n"
	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

type GenerationHandler struct {
	generationService *services.GenerationService
}

func NewGenerationHandler(generationService *services.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
	}
}

// GET /generation/quota
func (h *GenerationHandler) Quota(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	quota, err := h.generationService.Quota(c.Request.Context(), wallet)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, quota)
}

// GET /generation/tiers
func (h *GenerationHandler) Tiers(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"tiers": services.Tiers()})
}

// POST /generation/image
func (h *GenerationHandler) GenerateImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		Prompt string `json:"prompt" validate:"required,min=3,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	image, quota, err := h.generationService.GenerateImage(c.Request.Context(), wallet, req.Prompt)
	if err != nil {
		if errors.Is(err, services.ErrGenerationLimitReached) {
			utils.TooManyRequestsResponse(c, i18n.T(lang, i18n.KeyGenerationLimitReached))
			return
		}
		utils.ErrorResponse(c, http.StatusBadGateway, "GENERATION_FAILED", i18n.T(lang, i18n.KeyGenerationFailed), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"image": image,
		"quota": quota,
	})
}

// POST /generation/metadata
func (h *GenerationHandler) GenerateMetadata(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		Prompt   string `json:"prompt" validate:"required,min=3,max=1000"`
		ImageURL string `json:"image_url" validate:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	metadata, err := h.generationService.GenerateMetadata(c.Request.Context(), wallet, req.Prompt, req.ImageURL)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadGateway, "GENERATION_FAILED", i18n.T(lang, i18n.KeyGenerationFailed), err.Error())
		return
	}

	utils.SuccessResponse(c, metadata)
}
