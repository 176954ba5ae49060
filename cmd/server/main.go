package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/besicmining/marketplace-api/internal/auction"
	"github.com/besicmining/marketplace-api/internal/auth"
	"github.com/besicmining/marketplace-api/internal/cart"
	"github.com/besicmining/marketplace-api/internal/config"
	"github.com/besicmining/marketplace-api/internal/contract"
	"github.com/besicmining/marketplace-api/internal/database"
	"github.com/besicmining/marketplace-api/internal/product"
	"github.com/besicmining/marketplace-api/internal/user"
	"github.com/besicmining/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the marketplace API server with graceful
// shutdown support.
func main() {
	cfg := config.Load()

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Initialize services and handlers
	userService := user.NewService(db)
	userHandlers := user.NewGinHandlers(userService)

	authService := auth.NewService(db, userService.Store(), cfg.Auth)
	authHandlers := auth.NewGinHandlers(authService)

	productService := product.NewService(db)
	productHandlers := product.NewGinHandlers(productService)

	contractService := contract.NewService(db, productService)
	contractHandlers := contract.NewGinHandlers(contractService)

	cartService := cart.NewService(db, productService)
	cartHandlers := cart.NewGinHandlers(cartService)

	auctionService := auction.NewService(db, userService, productService, contractService)
	auctionHandlers := auction.NewGinHandlers(auctionService)

	// Start the auction expiry sweep
	auctionProcessor := auction.NewProcessor(auctionService, cfg.Auction.SweepInterval)
	processorCtx, processorCancel := context.WithCancel(context.Background())
	defer processorCancel()

	go auctionProcessor.Start(processorCtx)

	router.Use(middleware.RateLimit())

	setupRoutes(router, cfg, authHandlers, userHandlers, productHandlers,
		contractHandlers, cartHandlers, auctionHandlers)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers, grouped by
// domain. Public routes need no token; the rest run behind JWTAuth and
// the admin listing additionally behind a role check.
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandlers *auth.GinHandlers,
	userHandlers *user.GinHandlers,
	productHandlers *product.GinHandlers,
	contractHandlers *contract.GinHandlers,
	cartHandlers *cart.GinHandlers,
	auctionHandlers *auction.GinHandlers,
) {
	jwtAuth := middleware.JWTAuth(cfg.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", authHandlers.SignupHandler())
			authGroup.POST("/login", authHandlers.LoginHandler())
			authGroup.POST("/refresh", authHandlers.RefreshHandler())
			authGroup.POST("/logout", jwtAuth, authHandlers.LogoutHandler())
		}

		users := v1.Group("/users", jwtAuth)
		{
			users.GET("/me", userHandlers.GetMeHandler())
			users.PATCH("/me", userHandlers.UpdateMeHandler())
		}

		products := v1.Group("/products")
		{
			products.GET("/public", productHandlers.ListPublicHandler())
			products.GET("/public/:id", productHandlers.GetPublicHandler())

			protected := products.Group("", jwtAuth)
			{
				protected.POST("", productHandlers.CreateHandler())
				protected.GET("/my", productHandlers.ListMineHandler())
				protected.PATCH("/:id", productHandlers.UpdateHandler())
				protected.DELETE("/:id", productHandlers.DeleteHandler())
			}
		}

		contracts := v1.Group("/contracts", jwtAuth)
		{
			contracts.POST("", contractHandlers.PurchaseHandler())
			contracts.GET("/my", contractHandlers.ListMineHandler())
			contracts.GET("/:code", contractHandlers.GetHandler())
		}

		cartGroup := v1.Group("/cart", jwtAuth)
		{
			cartGroup.GET("", cartHandlers.GetHandler())
			cartGroup.POST("/items", cartHandlers.AddItemHandler())
			cartGroup.PATCH("/items/:id", cartHandlers.UpdateItemHandler())
			cartGroup.DELETE("/items/:id", cartHandlers.RemoveItemHandler())
			cartGroup.DELETE("", cartHandlers.ClearHandler())
		}

		auctions := v1.Group("/auctions")
		{
			auctions.GET("/public", auctionHandlers.ListPublicHandler())
			auctions.GET("/public/:id", auctionHandlers.GetHandler())

			protected := auctions.Group("", jwtAuth)
			{
				protected.POST("", auctionHandlers.CreateHandler())
				protected.GET("", middleware.RequireRole(user.RoleAdmin), auctionHandlers.ListAllHandler())
				protected.GET("/my", auctionHandlers.ListMineHandler())
				protected.GET("/my/bids", auctionHandlers.ListMyBidsHandler())
				protected.GET("/:id", auctionHandlers.GetHandler())
				protected.POST("/bid", auctionHandlers.PlaceBidHandler())
				protected.PATCH("/:id/activate", auctionHandlers.ActivateHandler())
				protected.PATCH("/:id/end", auctionHandlers.EndHandler())
				protected.PATCH("/:id/cancel", auctionHandlers.CancelHandler())
			}
		}
	}
}
