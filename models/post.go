package models

import "time"

// Post is a text entry published by a user, optionally under a group.
// GroupID is nullable: deleting a group clears the reference on its posts
// instead of cascading. ImageRef is an opaque attachment reference resolved
// by the media store; this service never touches the bytes behind it.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	ImageRef  string    `gorm:"size:36" json:"image_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}
