package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/models"
	"github.com/quillhq/quill/utils"
)

func TestGlobalFeedOrdersNewestFirstWithIDTieBreak(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db, NewFollowService(db))
	alice := createUser(t, db, "alice")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := createPostAt(t, db, alice, nil, "old", base.Add(-time.Hour))
	// Two posts sharing one timestamp: the higher id sorts first.
	tied1 := createPostAt(t, db, alice, nil, "tied one", base)
	tied2 := createPostAt(t, db, alice, nil, "tied two", base)

	posts, err := svc.Global()
	require.NoError(t, err)
	assert.Equal(t, []uint{tied2.ID, tied1.ID, old.ID}, postIDs(posts))

	// Repeated calls return the identical order.
	again, err := svc.Global()
	require.NoError(t, err)
	assert.Equal(t, postIDs(posts), postIDs(again))
}

func TestGroupFeedScopesBySlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db, NewFollowService(db))
	alice := createUser(t, db, "alice")
	tech := createGroup(t, db, "tech")
	life := createGroup(t, db, "life")

	now := time.Now()
	inTech := createPostAt(t, db, alice, &tech, "tech post", now)
	createPostAt(t, db, alice, &life, "life post", now)
	createPostAt(t, db, alice, nil, "no group", now)

	group, posts, err := svc.Group("tech")
	require.NoError(t, err)
	assert.Equal(t, tech.ID, group.ID)
	assert.Equal(t, []uint{inTech.ID}, postIDs(posts))
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db, NewFollowService(db))

	_, _, err := svc.Group("no-such-group")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileFeedReportsFollowState(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	svc := NewFeedService(db, follows)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	createPostAt(t, db, bob, nil, "hello", time.Now())

	author, posts, following, err := svc.Profile("bob", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, author.ID)
	assert.Len(t, posts, 1)
	assert.False(t, following)

	require.NoError(t, follows.Follow(alice.ID, bob.ID))

	_, _, following, err = svc.Profile("bob", alice.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Anonymous viewers never see a follow flag.
	_, _, following, err = svc.Profile("bob", 0)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestProfileFeedUnknownUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db, NewFollowService(db))

	_, _, _, err := svc.Profile("nobody", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileFeedSurvivesGroupDeletion(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db, NewFollowService(db))
	alice := createUser(t, db, "alice")
	group := createGroup(t, db, "doomed")
	post := createPostAt(t, db, alice, &group, "orphaned", time.Now())

	// Admin tooling drops the group; the store clears the reference on its
	// posts instead of cascading.
	require.NoError(t, db.Delete(&models.Group{}, group.ID).Error)

	_, posts, _, err := svc.Profile("alice", 0)
	require.NoError(t, err)
	require.Equal(t, []uint{post.ID}, postIDs(posts))
	assert.Nil(t, posts[0].GroupID)
	assert.Nil(t, posts[0].Group)
}

func TestFollowingFeedScopesToFollowedAuthors(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	svc := NewFeedService(db, follows)

	viewer := createUser(t, db, "viewer")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	dave := createUser(t, db, "dave")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fromBob := createPostAt(t, db, bob, nil, "from bob", base.Add(1*time.Minute))
	fromCarol := createPostAt(t, db, carol, nil, "from carol", base.Add(2*time.Minute))
	createPostAt(t, db, dave, nil, "from dave", base.Add(3*time.Minute))

	require.NoError(t, follows.Follow(viewer.ID, bob.ID))
	require.NoError(t, follows.Follow(viewer.ID, carol.ID))

	posts, err := svc.Following(viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{fromCarol.ID, fromBob.ID}, postIDs(posts))
}

func TestFollowingFeedEmptyWhenFollowingNobody(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db, NewFollowService(db))
	viewer := createUser(t, db, "viewer")
	other := createUser(t, db, "other")
	createPostAt(t, db, other, nil, "unseen", time.Now())

	posts, err := svc.Following(viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFollowingFeedPaginatesLikeEveryFeed(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	svc := NewFeedService(db, follows)

	viewer := createUser(t, db, "viewer")
	bob := createUser(t, db, "bob")
	require.NoError(t, follows.Follow(viewer.ID, bob.ID))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		createPostAt(t, db, bob, nil, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	posts, err := svc.Following(viewer.ID)
	require.NoError(t, err)

	first := utils.Paginate(posts, PostsPerPage, 1)
	assert.Len(t, first.Items, 10)
	second := utils.Paginate(posts, PostsPerPage, 2)
	assert.Len(t, second.Items, 3)
	assert.Equal(t, 2, second.TotalPages)
}
