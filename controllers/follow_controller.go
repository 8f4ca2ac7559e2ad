package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillhq/quill/models"
	"github.com/quillhq/quill/services"
	"github.com/quillhq/quill/utils"
)

// FollowController exposes the follow graph over usernames. The service
// itself works on ids; resolving the username happens here so a bad
// username is a 404 before any edge is touched.
type FollowController struct {
	db      *gorm.DB
	follows *services.FollowService
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(db *gorm.DB, follows *services.FollowService) *FollowController {
	return &FollowController{db: db, follows: follows}
}

func (f *FollowController) resolveAuthor(ctx *gin.Context) (uint, bool) {
	var author models.User
	err := f.db.Where("username = ?", ctx.Param("username")).First(&author).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "user not found")
			return 0, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load user")
		return 0, false
	}
	return author.ID, true
}

// Follow subscribes the viewer to an author's posts. Following someone
// twice, or yourself, is a silent no-op.
func (f *FollowController) Follow(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "unauthorized")
		return
	}
	authorID, ok := f.resolveAuthor(ctx)
	if !ok {
		return
	}

	if err := f.follows.Follow(viewerID, authorID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to follow user")
		return
	}
	utils.Success(ctx, gin.H{"following": true})
}

// Unfollow removes the subscription; it is an error if none exists.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40141, "unauthorized")
		return
	}
	authorID, ok := f.resolveAuthor(ctx)
	if !ok {
		return
	}

	if err := f.follows.Unfollow(viewerID, authorID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40441, "not following this user")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to unfollow user")
		return
	}
	utils.Success(ctx, gin.H{"following": false})
}
