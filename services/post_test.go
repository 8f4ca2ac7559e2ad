package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	alice := createUser(t, db, "alice")
	createGroup(t, db, "tech")

	_, err := svc.CreatePost(alice.ID, "   ", "", "")
	assert.ErrorIs(t, err, ErrEmptyText)

	// Markup-only text sanitizes down to nothing.
	_, err = svc.CreatePost(alice.ID, "<script>alert(1)</script>", "", "")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.CreatePost(alice.ID, "hello", "no-such-group", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreatePost(alice.ID, "hello", "", "not-a-uuid")
	assert.ErrorIs(t, err, ErrBadImageRef)

	post, err := svc.CreatePost(alice.ID, "hello <b>world</b>", "tech", uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, "hello world", post.Text)
	require.NotNil(t, post.Group)
	assert.Equal(t, "tech", post.Group.Slug)
	assert.Equal(t, alice.ID, post.User.ID)
}

func TestUpdatePostIsAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	alice := createUser(t, db, "alice")
	mallory := createUser(t, db, "mallory")

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	post := createPostAt(t, db, alice, nil, "original", created)

	_, err := svc.UpdatePost(post.ID, mallory.ID, "hijacked", "", "")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdatePost(post.ID, alice.ID, "edited", "", "")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	// The creation timestamp is immutable once set.
	assert.True(t, updated.CreatedAt.Equal(created))

	_, err = svc.UpdatePost(9999, alice.ID, "ghost", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPostAt(t, db, alice, nil, "discuss", time.Now())

	_, err := svc.AddComment(9999, bob.ID, "into the void")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddComment(post.ID, bob.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyText)

	comment, err := svc.AddComment(post.ID, bob.ID, "nice post")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "bob", comment.User.Username)
}

func TestGetPostDetail(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	base := time.Now()
	post := createPostAt(t, db, alice, nil, "first", base)
	createPostAt(t, db, alice, nil, "second", base.Add(time.Minute))

	_, err := svc.AddComment(post.ID, bob.ID, "one")
	require.NoError(t, err)
	_, err = svc.AddComment(post.ID, alice.ID, "two")
	require.NoError(t, err)

	loaded, authorPosts, err := svc.GetPost(post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, authorPosts)
	require.Len(t, loaded.Comments, 2)
	assert.Equal(t, "one", loaded.Comments[0].Text)
	assert.Equal(t, "bob", loaded.Comments[0].User.Username)

	_, _, err = svc.GetPost(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
