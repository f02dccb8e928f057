// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/handlers"
	"github.com/solaforge/solaforge-backend/internal/middleware"
	"github.com/solaforge/solaforge-backend/internal/providers/aiimage"
	"github.com/solaforge/solaforge-backend/internal/providers/chainrpc"
	"github.com/solaforge/solaforge-backend/internal/providers/launchpad"
	"github.com/solaforge/solaforge-backend/internal/providers/mintpad"
	"github.com/solaforge/solaforge-backend/internal/providers/pricefeed"
	"github.com/solaforge/solaforge-backend/internal/providers/revshare"
	"github.com/solaforge/solaforge-backend/internal/services"
	"github.com/solaforge/solaforge-backend/internal/utils"
)

func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	// External providers
	chainClient := chainrpc.NewClient(cfg.Chain.RPCURL)
	aiClient := aiimage.NewClient(cfg.AIImage.BaseURL, cfg.AIImage.APIKey)
	padClient := mintpad.NewClient(cfg.MintPad.BaseURL, cfg.MintPad.APIKey)
	priceClient := pricefeed.NewClient(cfg.PriceFeed.BaseURL)
	revshareClient := revshare.NewClient(cfg.Revshare.Endpoints, cfg.Revshare.LandingPage)
	launchers := []launchpad.Launcher{
		launchpad.NewBondingLauncher(cfg.Launchpad.BondingURL, cfg.Launchpad.APIKey, cfg.Launchpad.BondingFlatFee),
		launchpad.NewAMMLauncher(cfg.Launchpad.AMMURL, cfg.Launchpad.APIKey, cfg.Launchpad.AMMFeePercent),
		launchpad.NewInstantLauncher(cfg.Launchpad.InstantURL, cfg.Launchpad.APIKey, cfg.Launchpad.InstantFeePercent),
	}

	// Services
	storageService, _ := services.NewStorageService(cfg)
	tierService := services.NewTierService(cfg, chainClient)
	userService := services.NewUserService(db, storageService)
	authService := services.NewAuthService(cfg, rdb, userService)
	generationService := services.NewGenerationService(db, tierService, aiClient, logger)
	rarityService := services.NewRarityService(db)
	nftService := services.NewNFTService(db)
	collectionService := services.NewCollectionService(db)
	mintService := services.NewMintService(cfg, padClient, chainClient, tierService, userService, nftService, collectionService, logger)
	tokenService := services.NewTokenService(cfg, db, chainClient, launchers, logger)
	priceService := services.NewPriceService(cfg, priceClient, rdb, logger)
	revshareService := services.NewRevshareService(revshareClient, logger)
	creditService := services.NewCreditService(db, cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	nftHandler := handlers.NewNFTHandler(nftService, rarityService)
	collectionHandler := handlers.NewCollectionHandler(collectionService, nftService)
	tokenHandler := handlers.NewTokenHandler(tokenService)
	generationHandler := handlers.NewGenerationHandler(generationService)
	mintHandler := handlers.NewMintHandler(mintService)
	creditHandler := handlers.NewCreditHandler(creditService)
	marketHandler := handlers.NewMarketHandler(cfg, priceService, revshareService)
	uploadHandler := handlers.NewUploadHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/challenge", authHandler.Challenge)
			auth.POST("/verify", authHandler.Verify)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/me", middleware.AuthRequired(), userHandler.GetProfile)
			users.PUT("/me", middleware.AuthRequired(), userHandler.UpdateProfile)
			users.POST("/me/avatar", middleware.AuthRequired(), middleware.UploadRateLimit(), userHandler.UploadAvatar)
			users.GET("/:wallet", userHandler.GetPublicProfile)
		}

		// NFT routes
		nfts := v1.Group("/nfts")
		{
			nfts.GET("", middleware.OptionalAuth(), nftHandler.List)
			nfts.GET("/traits/rarity", nftHandler.TraitRarity)
			nfts.GET("/:id", middleware.OptionalAuth(), nftHandler.Get)
			nfts.GET("/:id/rarity", nftHandler.Rarity)
			nfts.GET("/:id/history", nftHandler.History)

			protected := nfts.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/:id/like", nftHandler.Like)
				protected.DELETE("/:id/like", nftHandler.Unlike)
				protected.POST("/:id/list", nftHandler.ListForSale)
				protected.POST("/:id/delist", nftHandler.Delist)
			}
		}

		// Collection routes
		collections := v1.Group("/collections")
		{
			collections.GET("", collectionHandler.List)
			collections.GET("/:id", collectionHandler.Get)
			collections.GET("/:id/nfts", collectionHandler.NFTs)
		}

		// Token launchpad routes
		tokens := v1.Group("/tokens")
		{
			tokens.GET("", tokenHandler.List)
			tokens.GET("/launch/fee", tokenHandler.QuoteFee)
			tokens.GET("/launch/status/:backend/:request_id", tokenHandler.LaunchStatus)
			tokens.GET("/:id", tokenHandler.Get)
			tokens.POST("/launch", middleware.AuthRequired(), tokenHandler.Launch)
		}

		// AI generation routes
		generation := v1.Group("/generation")
		generation.Use(middleware.AuthRequired())
		{
			generation.GET("/quota", generationHandler.Quota)
			generation.GET("/tiers", generationHandler.Tiers)
			generation.POST("/image", middleware.GenerationRateLimit(), generationHandler.GenerateImage)
			generation.POST("/metadata", middleware.GenerationRateLimit(), generationHandler.GenerateMetadata)
		}

		// Mint routes
		mint := v1.Group("/mint")
		mint.Use(middleware.AuthRequired())
		{
			mint.GET("/fee", mintHandler.QuoteFee)
			mint.POST("/nft", mintHandler.MintNFT)
			mint.POST("/collection", mintHandler.CreateCollection)
			mint.GET("/status/:action_id", mintHandler.Status)
		}

		// Credit routes
		credits := v1.Group("/credits")
		{
			credits.GET("/packs", creditHandler.Packs)

			protected := credits.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/purchase", creditHandler.Purchase)
				protected.POST("/confirm", creditHandler.Confirm)
				protected.GET("/history", creditHandler.History)
			}
		}

		// Market data routes (public)
		market := v1.Group("/market")
		{
			market.GET("/price", marketHandler.PlatformTokenPrice)
			market.GET("/price/:mint", marketHandler.TokenPrice)
			market.GET("/revshare", marketHandler.RevshareStats)
		}

		// Upload routes
		uploads := v1.Group("/uploads")
		uploads.Use(middleware.AuthRequired(), middleware.UploadRateLimit())
		{
			uploads.POST("/:category", uploadHandler.Upload)
		}
	}

	return r
}
