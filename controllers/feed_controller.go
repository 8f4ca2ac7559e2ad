package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/services"
	"github.com/quillhq/quill/utils"
)

// FeedController serves the four timelines. Only the global feed goes
// through the page cache; group, profile and following feeds are always
// computed fresh.
type FeedController struct {
	feeds *services.FeedService
	cache utils.PageCache
}

// NewFeedController creates a new FeedController instance.
func NewFeedController(feeds *services.FeedService, cache utils.PageCache) *FeedController {
	return &FeedController{feeds: feeds, cache: cache}
}

// GetGlobalFeed returns the paginated home timeline. Responses are cached
// per requested page number for a short TTL; within that window the cached
// bytes are served verbatim, even if posts changed underneath.
func (f *FeedController) GetGlobalFeed(ctx *gin.Context) {
	page := parsePage(ctx.Query("page"))

	if body, ok := f.cache.Get(page); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	posts, err := f.feeds.Global()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load feed")
		return
	}

	payload := gin.H{"feed": utils.Paginate(posts, services.PostsPerPage, page)}
	body, err := json.Marshal(utils.JSONResponse{Code: 0, Message: "success", Data: payload})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to render feed")
		return
	}

	f.cache.Set(page, body)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetGroupFeed returns the paginated timeline of one community.
func (f *FeedController) GetGroupFeed(ctx *gin.Context) {
	slug := ctx.Param("slug")
	page := parsePage(ctx.Query("page"))

	group, posts, err := f.feeds.Group(slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load group feed")
		return
	}

	utils.Success(ctx, gin.H{
		"group": group,
		"feed":  utils.Paginate(posts, services.PostsPerPage, page),
	})
}

// GetProfileFeed returns one author's timeline plus whether the viewer
// follows them. Anonymous viewers get the feed with following=false.
func (f *FeedController) GetProfileFeed(ctx *gin.Context) {
	username := ctx.Param("username")
	page := parsePage(ctx.Query("page"))

	viewerID, _ := getUserID(ctx) // zero when anonymous

	author, posts, following, err := f.feeds.Profile(username, viewerID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40431, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load profile feed")
		return
	}

	utils.Success(ctx, gin.H{
		"author":    author,
		"following": following,
		"feed":      utils.Paginate(posts, services.PostsPerPage, page),
	})
}

// GetFollowingFeed returns posts from everyone the viewer follows. The
// route is behind AuthRequired, so a missing viewer here is a bug rather
// than an anonymous user; reject it the same way regardless.
func (f *FeedController) GetFollowingFeed(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "authentication required")
		return
	}
	page := parsePage(ctx.Query("page"))

	posts, err := f.feeds.Following(viewerID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load following feed")
		return
	}

	utils.Success(ctx, gin.H{"feed": utils.Paginate(posts, services.PostsPerPage, page)})
}

// ListGroups returns all communities.
func (f *FeedController) ListGroups(ctx *gin.Context) {
	groups, err := f.feeds.Groups()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// ClearFeedCache drops every cached global-feed page immediately. Admin and
// test tooling only; normal operation relies on TTL expiry alone.
func (f *FeedController) ClearFeedCache(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40330, "admin only")
		return
	}
	f.cache.ClearAll()
	utils.Success(ctx, gin.H{"message": "feed cache cleared"})
}
