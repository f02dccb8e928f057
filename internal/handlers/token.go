// internal/handlers/token.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/solaforge/solaforge-backend/internal/i18n"
	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

type TokenHandler struct {
	tokenService *services.TokenService
}

func NewTokenHandler(tokenService *services.TokenService) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
	}
}

// GET /tokens
func (h *TokenHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tokens, total, err := h.tokenService.List(c.Request.Context(), params,
		c.Query("creator"), models.LauncherBackend(c.Query("backend")))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(tokens, total, params))
}

// GET /tokens/:id
func (h *TokenHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid token id", nil)
		return
	}

	token, err := h.tokenService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			utils.NotFoundResponse(c, "token")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, token)
}

// GET /tokens/launch/fee?backend=...&liquidity=...&initial_buy=...
func (h *TokenHandler) QuoteFee(c *gin.Context) {
	backend := models.LauncherBackend(c.Query("backend"))
	liquidity := parseFloatQuery(c, "liquidity")
	initialBuy := parseFloatQuery(c, "initial_buy")

	fee, err := h.tokenService.QuoteLaunchFee(backend, liquidity, initialBuy)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"backend": backend,
		"fee":     fee,
	})
}

type launchTokenRequest struct {
	Backend          string   `json:"backend" validate:"required,oneof=bonding amm instant"`
	Name             string   `json:"name" validate:"required,min=1,max=255"`
	Symbol           string   `json:"symbol" validate:"required,token_symbol"`
	Description      string   `json:"description" validate:"max=2000"`
	ImageURL         string   `json:"image_url" validate:"omitempty,url"`
	SocialLinks      []string `json:"social_links" validate:"max=10,dive,url"`
	InitialBuy       float64  `json:"initial_buy" validate:"gte=0"`
	Liquidity        float64  `json:"liquidity" validate:"gte=0"`
	TaxTier          string   `json:"tax_tier"`
	DistributionMode string   `json:"distribution_mode"`
	FundingSignature string   `json:"funding_signature"`
}

// POST /tokens/launch
func (h *TokenHandler) Launch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req launchTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.tokenService.Launch(c.Request.Context(), &services.LaunchTokenRequest{
		Wallet:           wallet,
		Backend:          models.LauncherBackend(req.Backend),
		Name:             req.Name,
		Symbol:           req.Symbol,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		SocialLinks:      req.SocialLinks,
		InitialBuy:       req.InitialBuy,
		Liquidity:        req.Liquidity,
		TaxTier:          req.TaxTier,
		DistributionMode: req.DistributionMode,
		FundingSignature: req.FundingSignature,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownBackend) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		respondLaunchError(c, lang, result.State, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /tokens/launch/status/:backend/:request_id
func (h *TokenHandler) LaunchStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	backend := models.LauncherBackend(c.Param("backend"))
	status, err := h.tokenService.GetLaunchStatus(c.Request.Context(), backend, c.Param("request_id"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownBackend) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.ErrorResponse(c, http.StatusBadGateway, "STATUS_CHECK_FAILED",
			i18n.T(lang, i18n.KeyStatusCheckFailed), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"state":        status.State,
		"mint_address": status.MintAddress,
		"error":        status.Error,
	})
}

func respondLaunchError(c *gin.Context, lang string, state services.FlowState, err error) {
	payload := gin.H{"state": state}

	switch {
	case errors.Is(err, services.ErrPaymentRequired),
		errors.Is(err, services.ErrFundingNotReceived):
		utils.ErrorResponse(c, http.StatusPaymentRequired, "PAYMENT_FAILED",
			i18n.T(lang, i18n.KeyPaymentFailed), payload)
	case errors.Is(err, services.ErrLaunchTimedOut),
		errors.Is(err, services.ErrLaunchFailed):
		utils.ErrorResponse(c, http.StatusBadGateway, "LAUNCH_FAILED",
			i18n.T(lang, i18n.KeyLaunchFailed), payload)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), payload)
	}
}

func parseFloatQuery(c *gin.Context, key string) float64 {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
