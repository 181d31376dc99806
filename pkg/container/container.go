package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"conduit-backend/internal/config"
	infraCache "conduit-backend/internal/infrastructure/cache"
	"conduit-backend/internal/infrastructure/database"
	"conduit-backend/pkg/cache"
	"conduit-backend/pkg/jwt"

	"conduit-backend/internal/domains/article"
	articleHandler "conduit-backend/internal/domains/article/handler"
	articleRepo "conduit-backend/internal/domains/article/repository"
	articleService "conduit-backend/internal/domains/article/service"
	"conduit-backend/internal/domains/comment"
	commentHandler "conduit-backend/internal/domains/comment/handler"
	commentRepo "conduit-backend/internal/domains/comment/repository"
	commentService "conduit-backend/internal/domains/comment/service"
	"conduit-backend/internal/domains/tag"
	tagHandler "conduit-backend/internal/domains/tag/handler"
	tagRepo "conduit-backend/internal/domains/tag/repository"
	tagService "conduit-backend/internal/domains/tag/service"
	"conduit-backend/internal/domains/user"
	userHandler "conduit-backend/internal/domains/user/handler"
	userRepo "conduit-backend/internal/domains/user/repository"
	userService "conduit-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application.
// Struct này là "root" của dependency graph.
type Container struct {
	// Infrastructure - shared across all domains, singleton
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories (data access)
	UserRepo    user.Repository
	ArticleRepo article.Repository
	CommentRepo comment.Repository
	TagRepo     tag.Repository

	// Services (business logic)
	UserService    user.Service
	ArticleService article.Service
	CommentService comment.Service
	TagService     tag.Service

	// HTTP handlers
	UserHandler    *userHandler.UserHandler
	ArticleHandler *articleHandler.ArticleHandler
	CommentHandler *commentHandler.CommentHandler
	TagHandler     *tagHandler.TagHandler
}

// NewContainer tạo và initialize toàn bộ dependency graph.
//
// QUAN TRỌNG: Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, Cache, JWT) - phụ thuộc Config
// 3. Repositories - phụ thuộc Infrastructure
// 4. Services - phụ thuộc Repositories
// 5. Handlers - phụ thuộc Services
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	// Schema idempotent - CREATE TABLE IF NOT EXISTS
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Redis failure không critical - cache-aside vẫn chạy qua DB
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}

	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Hour,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	// ========================================
	// STEP 4-6: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()

	log.Println("⚙️  Initializing services...")
	c.initServices()

	log.Println("🎯 Initializing handlers...")
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.ArticleRepo = articleRepo.NewPostgresRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresRepository(pool)
	c.TagRepo = tagRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.TagService = tagService.NewTagService(c.TagRepo, c.Cache)

	// Article service giữ tag service để invalidate tag cache khi tags đổi
	c.ArticleService = articleService.NewArticleService(c.ArticleRepo, c.TagService)

	// Comment service giữ article repo để verify article tồn tại
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.ArticleRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ArticleHandler = articleHandler.NewArticleHandler(c.ArticleService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.TagHandler = tagHandler.NewTagHandler(c.TagService)
}

// Cleanup dọn dẹp resources khi shutdown.
// Gọi trong graceful shutdown của server.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
