// internal/handlers/mint.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solaforge/solaforge-backend/internal/i18n"
	"github.com/solaforge/solaforge-backend/internal/providers/aiimage"
	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

type MintHandler struct {
	mintService *services.MintService
}

func NewMintHandler(mintService *services.MintService) *MintHandler {
	return &MintHandler{
		mintService: mintService,
	}
}

// GET /mint/fee
func (h *MintHandler) QuoteFee(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	useFreeMint := c.Query("use_free_mint") == "true"
	fee, tier, err := h.mintService.QuoteMintFee(c.Request.Context(), wallet, useFreeMint)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"fee":  fee,
		"tier": tier,
	})
}

type mintNFTRequest struct {
	Name             string              `json:"name" validate:"required,min=1,max=255"`
	Description      string              `json:"description" validate:"max=2000"`
	ImageURL         string              `json:"image_url" validate:"required,url"`
	Prompt           string              `json:"prompt" validate:"max=1000"`
	Attributes       []aiimage.Attribute `json:"attributes" validate:"max=50,dive"`
	IsNSFW           bool                `json:"is_nsfw"`
	CollectionID     string              `json:"collection_id"`
	PaymentSignature string              `json:"payment_signature"`
	UseFreeMint      bool                `json:"use_free_mint"`
}

// POST /mint/nft
func (h *MintHandler) MintNFT(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req mintNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.mintService.MintNFT(c.Request.Context(), &services.MintNFTRequest{
		Wallet:           wallet,
		Name:             req.Name,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		Prompt:           req.Prompt,
		Attributes:       req.Attributes,
		IsNSFW:           req.IsNSFW,
		CollectionID:     req.CollectionID,
		PaymentSignature: req.PaymentSignature,
		UseFreeMint:      req.UseFreeMint,
	})
	if err != nil {
		respondFlowError(c, lang, result.State, err)
		return
	}

	utils.SuccessResponse(c, result)
}

type createCollectionRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=255"`
	Symbol           string `json:"symbol" validate:"required,token_symbol"`
	Description      string `json:"description" validate:"max=2000"`
	ImageURL         string `json:"image_url" validate:"omitempty,url"`
	SupplyCap        *int   `json:"supply_cap" validate:"omitempty,gt=0"`
	Transferable     *bool  `json:"transferable"`
	PaymentSignature string `json:"payment_signature"`
}

// POST /mint/collection
func (h *MintHandler) CreateCollection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	transferable := true
	if req.Transferable != nil {
		transferable = *req.Transferable
	}

	result, err := h.mintService.CreateCollection(c.Request.Context(), &services.CreateCollectionRequest{
		Wallet:           wallet,
		Name:             req.Name,
		Symbol:           req.Symbol,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		SupplyCap:        req.SupplyCap,
		Transferable:     transferable,
		PaymentSignature: req.PaymentSignature,
	})
	if err != nil {
		respondFlowError(c, lang, result.State, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /mint/status/:action_id
func (h *MintHandler) Status(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	status, err := h.mintService.GetMintStatus(c.Request.Context(), c.Param("action_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadGateway, "STATUS_CHECK_FAILED",
			i18n.T(lang, i18n.KeyStatusCheckFailed), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"state":         status.State,
		"mint_address":  status.MintAddress,
		"collection_id": status.CollectionID,
		"error":         status.Error,
	})
}

// respondFlowError maps a failed flow state onto an HTTP error that
// tells the client where the flow stopped.
func respondFlowError(c *gin.Context, lang string, state services.FlowState, err error) {
	payload := gin.H{"state": state}

	switch {
	case errors.Is(err, services.ErrPaymentRequired),
		errors.Is(err, services.ErrPaymentNotConfirmed):
		utils.ErrorResponse(c, http.StatusPaymentRequired, "PAYMENT_FAILED",
			i18n.T(lang, i18n.KeyPaymentFailed), payload)
	case errors.Is(err, services.ErrMintTimedOut),
		errors.Is(err, services.ErrMintFailed):
		utils.ErrorResponse(c, http.StatusBadGateway, "MINT_FAILED",
			i18n.T(lang, i18n.KeyMintFailed), payload)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), payload)
	}
}
