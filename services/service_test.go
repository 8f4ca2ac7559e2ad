package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quillhq/quill/models"
)

// newTestDB opens a throwaway SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "quill_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// SQLite only honors ON DELETE actions with this pragma on.
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createGroup(t *testing.T, db *gorm.DB, slug string) models.Group {
	t.Helper()
	group := models.Group{Title: slug, Slug: slug}
	require.NoError(t, db.Create(&group).Error)
	return group
}

func createPostAt(t *testing.T, db *gorm.DB, author models.User, group *models.Group, text string, at time.Time) models.Post {
	t.Helper()
	post := models.Post{UserID: author.ID, Text: text, CreatedAt: at}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
