// internal/handlers/collection.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
	nftService        *services.NFTService
}

func NewCollectionHandler(collectionService *services.CollectionService, nftService *services.NFTService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		nftService:        nftService,
	}
}

// GET /collections
func (h *CollectionHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	collections, total, err := h.collectionService.List(c.Request.Context(), params, c.Query("creator"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(collections, total, params))
}

// GET /collections/:id
func (h *CollectionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid collection id", nil)
		return
	}

	collection, err := h.collectionService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			utils.NotFoundResponse(c, "collection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	stats, err := h.collectionService.Stats(c.Request.Context(), id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"collection": collection,
		"stats":      stats,
	})
}

// GET /collections/:id/nfts
func (h *CollectionHandler) NFTs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid collection id", nil)
		return
	}

	params := utils.GetPaginationParams(c)
	filters := services.NFTFilters{
		CollectionID: &id,
		IncludeNSFW:  c.Query("include_nsfw") == "true",
	}

	nfts, total, err := h.nftService.List(c.Request.Context(), params, filters)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(nfts, total, params))
}
