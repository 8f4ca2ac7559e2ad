package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/controllers"
	"github.com/quillhq/quill/middleware"
	"github.com/quillhq/quill/services"
	"github.com/quillhq/quill/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, cache utils.PageCache) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	followService := services.NewFollowService(db)
	feedService := services.NewFeedService(db, followService)
	postService := services.NewPostService(db)

	authController := controllers.NewAuthController(db)
	feedController := controllers.NewFeedController(feedService, cache)
	postController := controllers.NewPostController(postService)
	followController := controllers.NewFollowController(db, followService)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Feeds. The global and profile feeds are public but personalize for a
	// signed-in viewer; the following feed requires one.
	api.GET("/feed", middleware.ViewerOptional(), feedController.GetGlobalFeed)
	api.GET("/feed/following", middleware.AuthRequired(), feedController.GetFollowingFeed)
	api.GET("/groups", feedController.ListGroups)
	api.GET("/groups/:slug/feed", feedController.GetGroupFeed)
	api.GET("/users/:username/feed", middleware.ViewerOptional(), feedController.GetProfileFeed)
	api.GET("/posts/:id", postController.GetPost)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.POST("/users/:username/follow", followController.Follow)
	protected.DELETE("/users/:username/follow", followController.Unfollow)
	protected.POST("/admin/cache/clear", feedController.ClearFeedCache)

	return r
}
