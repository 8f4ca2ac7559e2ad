package models

import "time"

// Follow is a directed edge meaning "follower receives the author's posts in
// their following feed". The composite unique index guarantees at most one
// edge per ordered (follower, author) pair.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_author" json:"follower_id"`
	AuthorID   uint      `gorm:"not null;uniqueIndex:idx_follower_author;index" json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
}
