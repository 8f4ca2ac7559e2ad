package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/middleware"
	"github.com/quillhq/quill/services"
	"github.com/quillhq/quill/utils"
)

// PostController manages the write path for posts and comments.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// CreatePost publishes a new post for the authenticated user.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Text     string `json:"text" binding:"required"`
		Group    string `json:"group"`
		ImageRef string `json:"image_ref"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	post, err := p.posts.CreatePost(userID, req.Text, req.Group, req.ImageRef)
	if err != nil {
		writePostError(ctx, err, "failed to create post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost edits a post; only its author may do so.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Text     string `json:"text" binding:"required"`
		Group    string `json:"group"`
		ImageRef string `json:"image_ref"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}

	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid post id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	post, err := p.posts.UpdatePost(postID, userID, req.Text, req.Group, req.ImageRef)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			utils.Error(ctx, http.StatusForbidden, 40320, "you can only edit your own posts")
			return
		}
		writePostError(ctx, err, "failed to update post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// GetPost returns a single post with comments and the author's post count.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid post id")
		return
	}

	post, authorPosts, err := p.posts.GetPost(postID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": post, "author_post_count": authorPosts})
}

// CreateComment allows authenticated users to comment on posts.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid request payload")
		return
	}

	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40027, "invalid post id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}

	comment, err := p.posts.AddComment(postID, userID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40421, "post not found")
			return
		}
		writePostError(ctx, err, "failed to create comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

func writePostError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrEmptyText):
		utils.Error(ctx, http.StatusBadRequest, 40021, "text cannot be empty")
	case errors.Is(err, services.ErrBadImageRef):
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid image reference")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40422, "group not found")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50041, fallback)
	}
}

func parsePage(pageStr string) int {
	page := 1
	if p, err := strconv.Atoi(pageStr); err == nil {
		// Out-of-range values are clamped by the paginator.
		page = p
	}
	return page
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func isAdmin(ctx *gin.Context) bool {
	unameVal, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return false
	}
	uname, _ := unameVal.(string)
	if uname == "" {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}
