// internal/handlers/market.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

// MarketHandler serves price quotes and partner revshare stats.
type MarketHandler struct {
	cfg             *config.Config
	priceService    *services.PriceService
	revshareService *services.RevshareService
}

func NewMarketHandler(cfg *config.Config, priceService *services.PriceService, revshareService *services.RevshareService) *MarketHandler {
	return &MarketHandler{
		cfg:             cfg,
		priceService:    priceService,
		revshareService: revshareService,
	}
}

// GET /market/price/:mint
func (h *MarketHandler) TokenPrice(c *gin.Context) {
	utils.SuccessResponse(c, h.priceService.GetTokenPrice(c.Request.Context(), c.Param("mint")))
}

// GET /market/price
func (h *MarketHandler) PlatformTokenPrice(c *gin.Context) {
	utils.SuccessResponse(c, h.priceService.GetTokenPrice(c.Request.Context(), h.cfg.Chain.PlatformTokenMint))
}

// GET /market/revshare
// Always answers 200; the cascade degrades to a tagged fallback payload.
func (h *MarketHandler) RevshareStats(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	utils.SuccessResponse(c, h.revshareService.Stats(c.Request.Context()))
}
