package config

import (
	"log"

	"gorm.io/gorm"

	"github.com/quillhq/quill/models"
)

// SeedGroups creates the initial set of communities on an empty database.
// Groups are otherwise managed by admin tooling, not by this service.
func SeedGroups(db *gorm.DB) {
	var count int64
	db.Model(&models.Group{}).Count(&count)
	if count > 0 {
		return
	}

	groups := []models.Group{
		{Title: "General", Slug: "general", Description: "Anything that fits nowhere else"},
		{Title: "Tech", Slug: "tech", Description: "Engineering notes and write-ups"},
		{Title: "Life", Slug: "life", Description: "Everyday stories"},
	}

	for _, group := range groups {
		if err := db.Create(&group).Error; err != nil {
			log.Printf("failed to seed group %s: %v", group.Slug, err)
		}
	}
	log.Println("initial groups created")
}
