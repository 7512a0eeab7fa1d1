package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"holyguitars/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentRepository_CreateMaintainsCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	seedUser(t, db, "author", models.RoleMember)
	seedUser(t, db, "alice", models.RoleMember)
	post := seedPost(t, db, "author")

	top := &models.Comment{PostID: post.ID, UserID: "alice", Content: "nice guitar"}
	require.NoError(t, repo.Create(ctx, top))
	assert.NotEmpty(t, top.ID)

	got := fetchPost(t, db, post.ID)
	assert.Equal(t, 1, got.CommentsCount)

	reply := &models.Comment{PostID: post.ID, UserID: "author", ParentID: &top.ID, Content: "thanks"}
	require.NoError(t, repo.Create(ctx, reply))

	got = fetchPost(t, db, post.ID)
	assert.Equal(t, 2, got.CommentsCount, "a reply still counts toward the post total")
	assert.Equal(t, 1, fetchComment(t, db, top.ID).RepliesCount)
}

func TestCommentRepository_DeleteReply(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	seedUser(t, db, "author", models.RoleMember)
	post := seedPost(t, db, "author")

	top := &models.Comment{PostID: post.ID, UserID: "author", Content: "top"}
	require.NoError(t, repo.Create(ctx, top))
	reply := &models.Comment{PostID: post.ID, UserID: "author", ParentID: &top.ID, Content: "reply"}
	require.NoError(t, repo.Create(ctx, reply))

	require.NoError(t, repo.Delete(ctx, reply))

	got := fetchPost(t, db, post.ID)
	assert.Equal(t, 1, got.CommentsCount)
	assert.Equal(t, 0, fetchComment(t, db, top.ID).RepliesCount)
	assert.EqualValues(t, 0, countRows(t, db, &models.Comment{}, "id = ?", reply.ID))
}

func TestCommentRepository_DeleteTopLevelCascadesReplies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	likeRepo := NewLikeRepository(db)
	ctx := context.Background()

	seedUser(t, db, "author", models.RoleMember)
	seedUser(t, db, "bob", models.RoleMember)
	post := seedPost(t, db, "author")

	top := &models.Comment{PostID: post.ID, UserID: "author", Content: "top"}
	require.NoError(t, repo.Create(ctx, top))
	for i := 0; i < 3; i++ {
		reply := &models.Comment{PostID: post.ID, UserID: "bob", ParentID: &top.ID, Content: fmt.Sprintf("reply %d", i)}
		require.NoError(t, repo.Create(ctx, reply))
	}
	// Like the top comment so the cascade has relation rows to clean up.
	_, err := likeRepo.ToggleCommentLike(ctx, top.ID, "bob")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, top))

	got := fetchPost(t, db, post.ID)
	assert.Equal(t, 0, got.CommentsCount, "post counter drops by replies plus one")
	assert.EqualValues(t, 0, countRows(t, db, &models.Comment{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.CommentLike{}, "comment_id = ?", top.ID))
}

// brokenPostCounters fails the post counter update so the delete transaction
// cannot reach commit.
type brokenPostCounters struct {
	gormCounters
}

func (brokenPostCounters) addPostComments(tx *gorm.DB, postID string, delta int) error {
	return errors.New("counter update failed")
}

func TestCommentRepository_DeleteRollsBackOnCounterFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	likeRepo := NewLikeRepository(db)
	ctx := context.Background()

	seedUser(t, db, "author", models.RoleMember)
	seedUser(t, db, "bob", models.RoleMember)
	post := seedPost(t, db, "author")

	top := &models.Comment{PostID: post.ID, UserID: "author", Content: "top"}
	require.NoError(t, repo.Create(ctx, top))
	for i := 0; i < 3; i++ {
		reply := &models.Comment{PostID: post.ID, UserID: "bob", ParentID: &top.ID, Content: fmt.Sprintf("reply %d", i)}
		require.NoError(t, repo.Create(ctx, reply))
	}
	_, err := likeRepo.ToggleCommentLike(ctx, top.ID, "bob")
	require.NoError(t, err)

	// Same database, but the counter step inside the transaction fails after
	// the comment and like rows were already deleted.
	broken := &commentRepository{db: db, counters: brokenPostCounters{}}
	err = broken.Delete(ctx, top)
	require.Error(t, err)

	// Nothing from the cascade sticks.
	assert.EqualValues(t, 4, countRows(t, db, &models.Comment{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 1, countRows(t, db, &models.CommentLike{}, "comment_id = ?", top.ID))
	assert.Equal(t, 4, fetchPost(t, db, post.ID).CommentsCount)
}

func TestCommentRepository_ListOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	seedUser(t, db, "author", models.RoleMember)
	post := seedPost(t, db, "author")

	first := &models.Comment{PostID: post.ID, UserID: "author", Content: "first"}
	require.NoError(t, repo.Create(ctx, first))
	second := &models.Comment{PostID: post.ID, UserID: "author", Content: "second"}
	// Force distinct timestamps; SQLite stores what the driver hands it.
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Create(ctx, second))

	replyA := &models.Comment{PostID: post.ID, UserID: "author", ParentID: &first.ID, Content: "reply a"}
	require.NoError(t, repo.Create(ctx, replyA))
	replyB := &models.Comment{PostID: post.ID, UserID: "author", ParentID: &first.ID, Content: "reply b"}
	replyB.CreatedAt = replyA.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Create(ctx, replyB))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2, "replies are excluded from the top-level listing")
	assert.Equal(t, "second", comments[0].Content, "newest first")

	replies, err := repo.ListReplies(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "reply a", replies[0].Content, "oldest first")
}
