package service

import (
	"context"
	"errors"
	"testing"

	"holyguitars/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type publisherStub struct {
	publishFn func(ctx context.Context, userID string, payload any) error
}

func (s *publisherStub) PublishUser(ctx context.Context, userID string, payload any) error {
	return s.publishFn(ctx, userID, payload)
}

func TestNotificationService_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("persists and publishes", func(t *testing.T) {
		t.Parallel()
		repo := noopNotificationRepo()
		var stored *models.Notification
		repo.createFn = func(_ context.Context, n *models.Notification) error {
			stored = n
			return nil
		}
		var publishedTo string
		pub := &publisherStub{publishFn: func(_ context.Context, userID string, _ any) error {
			publishedTo = userID
			return nil
		}}
		svc := NewNotificationService(repo, pub)

		err := svc.Create(ctx, CreateNotificationInput{
			UserID:     "bob",
			Type:       models.NotificationComment,
			Title:      "New comment",
			Message:    "alice commented on your post",
			Link:       "/post/p1",
			FromUserID: "alice",
		})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "bob", stored.UserID)
		assert.Equal(t, models.NotificationComment, stored.Type)
		assert.Equal(t, "bob", publishedTo)
	})

	t.Run("self notification dropped", func(t *testing.T) {
		t.Parallel()
		svc, created := capturingNotifications()
		err := svc.Create(ctx, CreateNotificationInput{UserID: "alice", FromUserID: "alice"})
		require.NoError(t, err)
		assert.Empty(t, *created)
	})

	t.Run("empty recipient dropped", func(t *testing.T) {
		t.Parallel()
		svc, created := capturingNotifications()
		err := svc.Create(ctx, CreateNotificationInput{UserID: "", FromUserID: "alice"})
		require.NoError(t, err)
		assert.Empty(t, *created)
	})

	t.Run("publish failure does not fail the create", func(t *testing.T) {
		t.Parallel()
		repo := noopNotificationRepo()
		pub := &publisherStub{publishFn: func(context.Context, string, any) error {
			return errors.New("connection reset")
		}}
		svc := NewNotificationService(repo, pub)
		err := svc.Create(ctx, CreateNotificationInput{UserID: "bob", FromUserID: "alice"})
		assert.NoError(t, err)
	})
}

func TestNotificationService_ListClampsPaging(t *testing.T) {
	t.Parallel()

	repo := noopNotificationRepo()
	var gotLimit, gotOffset int
	var gotUnread bool
	repo.listByUserFn = func(_ context.Context, _ string, limit, offset int, unreadOnly bool) ([]*models.Notification, error) {
		gotLimit, gotOffset, gotUnread = limit, offset, unreadOnly
		return nil, nil
	}
	svc := NewNotificationService(repo, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "bob", 0, -3, false)
	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)
	assert.Equal(t, 0, gotOffset)

	_, err = svc.List(ctx, "bob", 500, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)

	_, err = svc.List(ctx, "bob", 25, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 25, gotLimit)
	assert.Equal(t, 10, gotOffset)
	assert.True(t, gotUnread)
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("recipient only", func(t *testing.T) {
		t.Parallel()
		repo := noopNotificationRepo()
		repo.getByIDFn = func(_ context.Context, id string) (*models.Notification, error) {
			return &models.Notification{ID: id, UserID: "bob"}, nil
		}
		svc := NewNotificationService(repo, nil)

		err := svc.MarkRead(ctx, "mallory", "n1")
		assertForbiddenError(t, err)
		assert.NoError(t, svc.MarkRead(ctx, "bob", "n1"))
	})

	t.Run("missing notification", func(t *testing.T) {
		t.Parallel()
		repo := noopNotificationRepo()
		repo.getByIDFn = func(context.Context, string) (*models.Notification, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewNotificationService(repo, nil)
		assertNotFoundError(t, svc.MarkRead(ctx, "bob", "missing"))
	})
}

func TestNotificationService_Delete_RecipientOnly(t *testing.T) {
	t.Parallel()

	repo := noopNotificationRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.Notification, error) {
		return &models.Notification{ID: id, UserID: "bob"}, nil
	}
	deleted := false
	repo.deleteFn = func(context.Context, string) error {
		deleted = true
		return nil
	}
	svc := NewNotificationService(repo, nil)
	ctx := context.Background()

	assertForbiddenError(t, svc.Delete(ctx, "mallory", "n1"))
	assert.False(t, deleted)
	require.NoError(t, svc.Delete(ctx, "bob", "n1"))
	assert.True(t, deleted)
}
