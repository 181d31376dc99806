package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"conduit-backend/internal/shared/middleware"
	"conduit-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", healthCheckHandler(c))
		api.GET("/db-test", databaseTestHandler(c))

		setupUserRoutes(api, c)
		setupProfileRoutes(api, c)
		setupArticleRoutes(api, c)
		setupTagRoutes(api, c)
	}

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(api *gin.RouterGroup, c *container.Container) {
	user := api.Group("/user")
	{
		// Public authentication endpoints
		user.POST("/register", c.UserHandler.Register)
		user.POST("/login", c.UserHandler.Login)
		user.POST("/refresh", c.UserHandler.RefreshToken)

		// Self-service endpoints (auth required)
		user.GET("", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.GetCurrentUser)
		user.PUT("", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.UpdateUser)
	}
}

// ========================================
// PROFILE ROUTES
// ========================================
func setupProfileRoutes(api *gin.RouterGroup, c *container.Container) {
	profile := api.Group("/profile")
	{
		// Public với optional personalization (following flag)
		profile.GET("/:username", middleware.OptionalAuthMiddleware(c.JWTManager), c.UserHandler.GetProfile)

		// Follow toggles (auth required)
		profile.POST("/:username/follow", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.FollowUser)
		profile.DELETE("/:username/follow", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.UnfollowUser)
	}
}

// ========================================
// ARTICLE + COMMENT ROUTES
// ========================================
func setupArticleRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	optionalAuth := middleware.OptionalAuthMiddleware(c.JWTManager)

	articles := api.Group("/articles")
	{
		// Public reads (personalized khi có token)
		articles.GET("", optionalAuth, c.ArticleHandler.ListArticles)
		articles.GET("/:id", optionalAuth, c.ArticleHandler.GetArticle)
		articles.GET("/:id/comments", optionalAuth, c.CommentHandler.ListComments)

		// Feed (auth required)
		articles.GET("/feed", auth, c.ArticleHandler.Feed)

		// Writes (auth required)
		articles.POST("", auth, c.ArticleHandler.CreateArticle)
		articles.PUT("/:id", auth, c.ArticleHandler.UpdateArticle)
		articles.DELETE("/:id", auth, c.ArticleHandler.DeleteArticle)

		// Favorites
		articles.POST("/:id/favorite", auth, c.ArticleHandler.FavoriteArticle)
		articles.DELETE("/:id/favorite", auth, c.ArticleHandler.UnfavoriteArticle)

		// History (author only)
		articles.GET("/:id/history", auth, c.ArticleHandler.GetArticleHistory)

		// Comments
		articles.POST("/:id/comments", auth, c.CommentHandler.CreateComment)
		articles.PUT("/:id/comments/:commentId", auth, c.CommentHandler.UpdateComment)
		articles.DELETE("/:id/comments/:commentId", auth, c.CommentHandler.DeleteComment)
	}
}

// ========================================
// TAG ROUTES
// ========================================
func setupTagRoutes(api *gin.RouterGroup, c *container.Container) {
	api.GET("/tags", c.TagHandler.ListTags)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis - degraded Redis không làm fail health check
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

// ========================================
// DATABASE TEST HANDLER
// ========================================
func databaseTestHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Database not connected",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var version string
		err := appCtx.DB.Pool.QueryRow(ctx, "SELECT version()").Scan(&version)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("Query failed: %v", err),
			})
			return
		}

		stats := appCtx.DB.Pool.Stat()

		redisTest := "not tested"
		if appCtx.Cache != nil {
			testKey := "test:connection"
			testValue := map[string]string{"test": "data", "timestamp": time.Now().Format(time.RFC3339)}

			if err := appCtx.Cache.Set(ctx, testKey, testValue, 10*time.Second); err == nil {
				var retrieved map[string]string
				found, _ := appCtx.Cache.Get(ctx, testKey, &retrieved)
				if found {
					redisTest = "ok - set/get working"
				} else {
					redisTest = "warning - set ok but get failed"
				}
				_ = appCtx.Cache.Delete(ctx, testKey)
			} else {
				redisTest = fmt.Sprintf("error: %v", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Database test successful",
			"database": gin.H{
				"postgres_version": version,
				"pool_stats": gin.H{
					"total_connections":    stats.TotalConns(),
					"idle_connections":     stats.IdleConns(),
					"acquired_connections": stats.AcquiredConns(),
					"max_connections":      stats.MaxConns(),
				},
			},
			"cache": gin.H{
				"status": redisTest,
			},
		})
	}
}
