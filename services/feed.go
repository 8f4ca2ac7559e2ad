package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/quillhq/quill/models"
)

// PostsPerPage is the fixed page size for every feed kind.
const PostsPerPage = 10

// FeedService composes the scoped, ordered post collections behind the four
// timelines: global, group, profile and following. Every scope uses the same
// ordering so pagination stays deterministic across requests:
// newest first, ties on the creation timestamp broken by id descending.
type FeedService struct {
	db      *gorm.DB
	follows *FollowService
}

// NewFeedService creates a FeedService backed by the given database.
func NewFeedService(db *gorm.DB, follows *FollowService) *FeedService {
	return &FeedService{db: db, follows: follows}
}

func (s *FeedService) ordered() *gorm.DB {
	return s.db.Preload("User").Preload("Group").
		Order("created_at DESC, id DESC")
}

// Global returns every post, newest first. The only feed eligible for the
// page cache; the caching itself happens at the handler layer.
func (s *FeedService) Global() ([]models.Post, error) {
	var posts []models.Post
	if err := s.ordered().Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Group returns the group identified by slug and its posts.
func (s *FeedService) Group(slug string) (*models.Group, []models.Post, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var posts []models.Post
	if err := s.ordered().Where("group_id = ?", group.ID).Find(&posts).Error; err != nil {
		return nil, nil, err
	}
	return &group, posts, nil
}

// Profile returns the author identified by username, their posts, and
// whether the viewer follows them. viewerID zero means anonymous, for which
// the follow flag is always false.
func (s *FeedService) Profile(username string, viewerID uint) (*models.User, []models.Post, bool, error) {
	var author models.User
	if err := s.db.Where("username = ?", username).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, ErrNotFound
		}
		return nil, nil, false, err
	}

	var posts []models.Post
	if err := s.ordered().Where("user_id = ?", author.ID).Find(&posts).Error; err != nil {
		return nil, nil, false, err
	}

	following := false
	if viewerID != 0 {
		var err error
		following, err = s.follows.IsFollowing(viewerID, author.ID)
		if err != nil {
			return nil, nil, false, err
		}
	}
	return &author, posts, following, nil
}

// Following returns posts authored by anyone the viewer follows. Callers
// must supply an authenticated viewer; the handler rejects anonymous
// requests before reaching here.
func (s *FeedService) Following(viewerID uint) ([]models.Post, error) {
	ids, err := s.follows.FollowingAuthorIDs(viewerID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Post{}, nil
	}

	var posts []models.Post
	if err := s.ordered().Where("user_id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Groups lists all communities, for the group index page.
func (s *FeedService) Groups() ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Order("title ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
