// internal/handlers/nft.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/solaforge/solaforge-backend/internal/i18n"
	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

type NFTHandler struct {
	nftService    *services.NFTService
	rarityService *services.RarityService
}

func NewNFTHandler(nftService *services.NFTService, rarityService *services.RarityService) *NFTHandler {
	return &NFTHandler{
		nftService:    nftService,
		rarityService: rarityService,
	}
}

// GET /nfts
func (h *NFTHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filters := services.NFTFilters{
		Owner:       c.Query("owner"),
		Creator:     c.Query("creator"),
		ListedOnly:  c.Query("listed") == "true",
		IncludeNSFW: c.Query("include_nsfw") == "true",
	}
	if params.Collection != "" {
		collectionID, err := uuid.Parse(params.Collection)
		if err != nil {
			utils.BadRequestResponse(c, "invalid collection id", nil)
			return
		}
		filters.CollectionID = &collectionID
	}

	nfts, total, err := h.nftService.List(c.Request.Context(), params, filters)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(nfts, total, params))
}

// GET /nfts/:id
func (h *NFTHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid nft id", nil)
		return
	}

	nft, err := h.nftService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNFTNotFound) {
			utils.NotFoundResponse(c, "nft")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	response := gin.H{"nft": nft}
	if wallet, ok := utils.GetWalletFromContext(c); ok {
		liked, err := h.nftService.IsLiked(c.Request.Context(), id, wallet)
		if err == nil {
			response["liked"] = liked
		}
	}

	utils.SuccessResponse(c, response)
}

// GET /nfts/:id/rarity
func (h *NFTHandler) Rarity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid nft id", nil)
		return
	}

	result, err := h.rarityService.ComputeRarity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNFTNotFound) {
			utils.NotFoundResponse(c, "nft")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /nfts/traits/rarity?trait_type=...&value=...
func (h *NFTHandler) TraitRarity(c *gin.Context) {
	traitType := c.Query("trait_type")
	value := c.Query("value")
	if traitType == "" || value == "" {
		utils.BadRequestResponse(c, "trait_type and value are required", nil)
		return
	}

	frequency, err := h.rarityService.TraitRarity(c.Request.Context(), traitType, value)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"trait_type":        traitType,
		"value":             value,
		"frequency_percent": frequency,
	})
}

// POST /nfts/:id/like
func (h *NFTHandler) Like(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid nft id", nil)
		return
	}

	likeCount, err := h.nftService.Like(c.Request.Context(), id, wallet)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNFTNotFound):
			utils.NotFoundResponse(c, "nft")
		case errors.Is(err, services.ErrAlreadyLiked):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyNFTAlreadyLiked))
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"like_count": likeCount, "liked": true})
}

// DELETE /nfts/:id/like
func (h *NFTHandler) Unlike(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid nft id", nil)
		return
	}

	likeCount, err := h.nftService.Unlike(c.Request.Context(), id, wallet)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNFTNotFound):
			utils.NotFoundResponse(c, "nft")
		case errors.Is(err, services.ErrNotLiked):
			utils.ConflictResponse(c, "nft is not liked")
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"like_count": likeCount, "liked": false})
}

// POST /nfts/:id/list
func (h *NFTHandler) ListForSale(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid nft id", nil)
		return
	}

	var req struct {
		Price float64 `json:"price" validate:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	nft, err := h.nftService.ListForSale(c.Request.Context(), id, wallet, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNFTNotFound):
			utils.NotFoundResponse(c, "nft")
		case errors.Is(err, services.ErrNotOwner):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyNFTNotOwner))
		case errors.Is(err, services.ErrAlreadyListed), errors.Is(err, services.ErrInvalidPrice):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, nft)
}

// POST /nfts/:id/delist
func (h *NFTHandler) Delist(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid nft id", nil)
		return
	}

	nft, err := h.nftService.Delist(c.Request.Context(), id, wallet)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNFTNotFound):
			utils.NotFoundResponse(c, "nft")
		case errors.Is(err, services.ErrNotOwner):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyNFTNotOwner))
		case errors.Is(err, services.ErrNotListed):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, nft)
}

// GET /nfts/:id/history
func (h *NFTHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid nft id", nil)
		return
	}

	params := utils.GetPaginationParams(c)
	transactions, total, err := h.nftService.History(c.Request.Context(), id, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(transactions, total, params))
}
