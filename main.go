package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uniformsource/backend/config"
	"github.com/uniformsource/backend/controllers"
	"github.com/uniformsource/backend/database"
	"github.com/uniformsource/backend/draft"
	"github.com/uniformsource/backend/logger"
	"github.com/uniformsource/backend/middleware"
	"github.com/uniformsource/backend/models"
	"github.com/uniformsource/backend/quotes"
	"github.com/uniformsource/backend/storage"
	"github.com/uniformsource/backend/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Init("uniformsource-api", cfg.App.LogLevel, cfg.App.LogFormat)

	ctx := context.Background()
	database.Connect(cfg.Mongo.URI, cfg.Mongo.Database)

	if err := utils.SeedAdminUser(ctx, database.OpenCollection("users")); err != nil {
		logger.L().Fatal().Err(err).Msg("seeding admin user failed")
	}

	kv, err := draft.NewRedisKV(ctx, cfg.Redis.URL)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("connecting to redis failed")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("initializing object storage failed")
	}

	quoteRepo := quotes.NewMongoRepository(database.OpenCollection("quote_requests"))
	quoteSvc := quotes.NewService(quoteRepo)
	submitter := quotes.NewSubmitter(quoteRepo, store)
	v := utils.NewPDFOrImageValidator()

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.App.AllowedOrigins {
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/login", controllers.Login())
	r.POST("/auth/refresh", controllers.Refresh())
	r.POST("/auth/logout", controllers.Logout())

	r.GET("/products", controllers.GetProducts())
	r.GET("/products/:id", controllers.GetProduct())

	r.GET("/quote-draft", controllers.GetDraft(kv))
	r.POST("/quote-draft/items", controllers.AddDraftItem(kv))
	r.PATCH("/quote-draft/items/:productId", controllers.UpdateDraftQuantity(kv))
	r.DELETE("/quote-draft/items/:productId", controllers.RemoveDraftItem(kv))
	r.DELETE("/quote-draft", controllers.ClearDraft(kv))

	r.POST("/quote-requests", controllers.CreateQuoteRequest(submitter, kv, v))

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/products/add", controllers.AddProduct(store, v))
		admin.PATCH("/products/update/:id", controllers.UpdateProduct(store, v))

		admin.GET("/quote-requests", controllers.AdminListQuoteRequests(quoteSvc))
		admin.GET("/quote-requests/:id", controllers.AdminGetQuoteRequest(quoteSvc))
		admin.PATCH("/quote-requests/:id/status", controllers.AdminUpdateQuoteStatus(quoteSvc))
		admin.PUT("/quote-requests/:id/notes", controllers.AdminSaveNotes(quoteSvc))
		admin.POST("/quote-requests/:id/assign", controllers.AdminAssignSupplier(quoteSvc))
		admin.GET("/quote-requests/:id/responses", controllers.AdminListQuoteResponses())

		admin.POST("/users", controllers.CreateUser())
		admin.POST("/users/me/password", controllers.ChangeMyPassword())
	}

	supplier := r.Group("/supplier")
	supplier.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleSupplier))
	{
		supplier.GET("/quote-requests", controllers.SupplierListAssigned(quoteSvc))
		supplier.POST("/quote-requests/:id/responses", controllers.SupplierCreateQuoteResponse(quoteSvc))
	}

	if err := r.Run(":" + cfg.App.Port); err != nil {
		logger.L().Fatal().Err(err).Msg("server stopped")
	}
}
