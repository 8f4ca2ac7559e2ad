package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quillhq/quill/models"
	"github.com/quillhq/quill/utils"
)

// PostService owns the write path for posts and comments. All operations are
// single-record and atomic; failures surface synchronously as typed errors.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService backed by the given database.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// cleanText strips markup and surrounding whitespace from user input.
func cleanText(raw string) string {
	return strings.TrimSpace(utils.Sanitize(raw))
}

// resolveGroupID maps a slug to a group id. An empty slug means no group.
func (s *PostService) resolveGroupID(slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &group.ID, nil
}

// CreatePost publishes a new post for the author. The optional imageRef is
// an opaque media-store reference and must be a UUID when present.
func (s *PostService) CreatePost(authorID uint, text, groupSlug, imageRef string) (*models.Post, error) {
	text = cleanText(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if imageRef != "" {
		if _, err := uuid.Parse(imageRef); err != nil {
			return nil, ErrBadImageRef
		}
	}

	groupID, err := s.resolveGroupID(groupSlug)
	if err != nil {
		return nil, err
	}

	post := models.Post{
		UserID:   authorID,
		GroupID:  groupID,
		Text:     text,
		ImageRef: imageRef,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").Preload("Group").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost edits a post. Only its author may do so; the creation timestamp
// stays untouched.
func (s *PostService) UpdatePost(postID, editorID uint, text, groupSlug, imageRef string) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.UserID != editorID {
		return nil, ErrForbidden
	}

	text = cleanText(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if imageRef != "" {
		if _, err := uuid.Parse(imageRef); err != nil {
			return nil, ErrBadImageRef
		}
	}

	groupID, err := s.resolveGroupID(groupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	post.ImageRef = imageRef
	if err := s.db.Save(&post).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").Preload("Group").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPost loads one post with its author, group, comments and the author's
// total post count for the detail page.
func (s *PostService) GetPost(postID uint) (*models.Post, int64, error) {
	var post models.Post
	err := s.db.Preload("User").Preload("Group").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Comments.User").
		First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	var authorPosts int64
	if err := s.db.Model(&models.Post{}).Where("user_id = ?", post.UserID).Count(&authorPosts).Error; err != nil {
		return nil, 0, err
	}
	return &post, authorPosts, nil
}

// AddComment attaches a comment to a post for any authenticated user.
func (s *PostService) AddComment(postID, authorID uint, text string) (*models.Comment, error) {
	text = cleanText(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: authorID,
		Text:   text,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}
