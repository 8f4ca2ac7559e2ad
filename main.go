package main

import (
	"time"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/models"
	"github.com/quillhq/quill/routes"
	"github.com/quillhq/quill/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{})
	config.SeedGroups(db)

	cache := utils.NewPageCache(time.Duration(cfg.FeedCacheTTLSeconds) * time.Second)

	r := routes.SetupRouter(db, cache)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
