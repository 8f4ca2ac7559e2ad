package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/quillhq/quill/models"
)

// FollowService owns the directed follow graph between users.
//
// The create/delete contract is deliberately asymmetric: Follow is an
// idempotent no-op for duplicate edges and self-follows, while Unfollow
// fails with ErrNotFound when no edge exists. The same policy applies on
// every path that touches the edge table.
type FollowService struct {
	db *gorm.DB
}

// NewFollowService creates a FollowService backed by the given database.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow creates the follower->author edge unless it already exists or the
// two ids coincide. Repeated calls leave exactly one edge and return nil.
func (s *FollowService) Follow(followerID, authorID uint) error {
	if followerID == authorID {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	err := s.db.Create(&models.Follow{FollowerID: followerID, AuthorID: authorID}).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with an identical Follow call; the edge exists,
		// which is all the caller asked for.
		return nil
	}
	return err
}

// Unfollow removes the follower->author edge. Missing edges are an error,
// never a negative count.
func (s *FollowService) Unfollow(followerID, authorID uint) error {
	res := s.db.
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsFollowing reports whether the follower->author edge exists.
func (s *FollowService) IsFollowing(followerID, authorID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowingAuthorIDs returns the ids of every author the user follows.
// The unique edge index guarantees no duplicates.
func (s *FollowService) FollowingAuthorIDs(followerID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("author_id", &ids).Error
	return ids, err
}
