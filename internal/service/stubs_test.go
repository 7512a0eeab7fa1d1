package service

import (
	"context"
	"testing"
	"time"

	"holyguitars/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Function-field stubs for the repository interfaces. Each noop constructor
// returns a stub whose calls succeed with zero values; tests override the
// fields they care about.

type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, string) (*models.Post, error)
	listFn         func(context.Context, string, string, int, int) ([]*models.Post, int64, error)
	listByAuthorFn func(context.Context, string, int, int) ([]*models.Post, error)
	listReportedFn func(context.Context, int, int) ([]*models.Post, int64, error)
	trendingFn     func(context.Context, int) ([]*models.Post, error)
	updateFn       func(context.Context, *models.Post) error
	deleteFn       func(context.Context, string) error
	countFn        func(context.Context) (int64, error)
	countSinceFn   func(context.Context, time.Time) (int64, error)
	incReportFn    func(context.Context, string) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, category, subcategory string, limit, offset int) ([]*models.Post, int64, error) {
	return s.listFn(ctx, category, subcategory, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) ListReported(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	return s.listReportedFn(ctx, limit, offset)
}
func (s *postRepoStub) Trending(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.trendingFn(ctx, limit)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error { return s.updateFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id string) error      { return s.deleteFn(ctx, id) }
func (s *postRepoStub) Count(ctx context.Context) (int64, error)         { return s.countFn(ctx) }
func (s *postRepoStub) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countSinceFn(ctx, since)
}
func (s *postRepoStub) IncrementReportCount(ctx context.Context, id string) error {
	return s.incReportFn(ctx, id)
}

func strPtr(s string) *string { return &s }

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn: func(context.Context, string, string, int, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByAuthorFn: func(context.Context, string, int, int) ([]*models.Post, error) { return nil, nil },
		listReportedFn: func(context.Context, int, int) ([]*models.Post, int64, error) { return nil, 0, nil },
		trendingFn:     func(context.Context, int) ([]*models.Post, error) { return nil, nil },
		updateFn:       func(context.Context, *models.Post) error { return nil },
		deleteFn:       func(context.Context, string) error { return nil },
		countFn:        func(context.Context) (int64, error) { return 0, nil },
		countSinceFn:   func(context.Context, time.Time) (int64, error) { return 0, nil },
		incReportFn:    func(context.Context, string) error { return nil },
	}
}

type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, string) (*models.Comment, error)
	listByPostFn  func(context.Context, string) ([]*models.Comment, error)
	listRepliesFn func(context.Context, string) ([]*models.Comment, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, *models.Comment) error
	countFn       func(context.Context) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID string) ([]*models.Comment, error) {
	return s.listRepliesFn(ctx, parentID)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, c *models.Comment) error {
	return s.deleteFn(ctx, c)
}
func (s *commentRepoStub) Count(ctx context.Context) (int64, error) { return s.countFn(ctx) }

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn:  func(context.Context, string) ([]*models.Comment, error) { return nil, nil },
		listRepliesFn: func(context.Context, string) ([]*models.Comment, error) { return nil, nil },
		updateFn:      func(context.Context, *models.Comment) error { return nil },
		deleteFn:      func(context.Context, *models.Comment) error { return nil },
		countFn:       func(context.Context) (int64, error) { return 0, nil },
	}
}

type likeRepoStub struct {
	togglePostFn      func(context.Context, string, string) (bool, error)
	toggleCommentFn   func(context.Context, string, string) (bool, error)
	isPostLikedFn     func(context.Context, string, string) (bool, error)
	likedPostIDsFn    func(context.Context, string, []string) ([]string, error)
	likedCommentIDsFn func(context.Context, string, []string) ([]string, error)
}

func (s *likeRepoStub) TogglePostLike(ctx context.Context, postID, userID string) (bool, error) {
	return s.togglePostFn(ctx, postID, userID)
}
func (s *likeRepoStub) ToggleCommentLike(ctx context.Context, commentID, userID string) (bool, error) {
	return s.toggleCommentFn(ctx, commentID, userID)
}
func (s *likeRepoStub) IsPostLiked(ctx context.Context, postID, userID string) (bool, error) {
	return s.isPostLikedFn(ctx, postID, userID)
}
func (s *likeRepoStub) LikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error) {
	return s.likedPostIDsFn(ctx, userID, postIDs)
}
func (s *likeRepoStub) LikedCommentIDs(ctx context.Context, userID string, commentIDs []string) ([]string, error) {
	return s.likedCommentIDsFn(ctx, userID, commentIDs)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		togglePostFn:      func(context.Context, string, string) (bool, error) { return true, nil },
		toggleCommentFn:   func(context.Context, string, string) (bool, error) { return true, nil },
		isPostLikedFn:     func(context.Context, string, string) (bool, error) { return false, nil },
		likedPostIDsFn:    func(context.Context, string, []string) ([]string, error) { return nil, nil },
		likedCommentIDsFn: func(context.Context, string, []string) ([]string, error) { return nil, nil },
	}
}

type userRepoStub struct {
	upsertFn     func(context.Context, *models.User) error
	getByUIDFn   func(context.Context, string) (*models.User, error)
	listFn       func(context.Context, int, int) ([]*models.User, int64, error)
	updateRoleFn func(context.Context, string, string) error
	setBannedFn  func(context.Context, string, bool, string) error
	deleteFn     func(context.Context, string) error
	countFn      func(context.Context) (int64, error)
	countSinceFn func(context.Context, time.Time) (int64, error)
}

func (s *userRepoStub) Upsert(ctx context.Context, u *models.User) error { return s.upsertFn(ctx, u) }
func (s *userRepoStub) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	return s.getByUIDFn(ctx, uid)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, uid, role string) error {
	return s.updateRoleFn(ctx, uid, role)
}
func (s *userRepoStub) SetBanned(ctx context.Context, uid string, banned bool, reason string) error {
	return s.setBannedFn(ctx, uid, banned, reason)
}
func (s *userRepoStub) Delete(ctx context.Context, uid string) error { return s.deleteFn(ctx, uid) }
func (s *userRepoStub) Count(ctx context.Context) (int64, error)     { return s.countFn(ctx) }
func (s *userRepoStub) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countSinceFn(ctx, since)
}

// usersWithRoles returns a user repo whose GetByUID resolves roles from the
// given map, defaulting to member.
func usersWithRoles(roles map[string]string) *userRepoStub {
	stub := noopUserRepo()
	stub.getByUIDFn = func(_ context.Context, uid string) (*models.User, error) {
		role, ok := roles[uid]
		if !ok {
			role = models.RoleMember
		}
		return &models.User{UID: uid, Role: role}, nil
	}
	return stub
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		upsertFn: func(context.Context, *models.User) error { return nil },
		getByUIDFn: func(_ context.Context, uid string) (*models.User, error) {
			return &models.User{UID: uid, Role: models.RoleMember}, nil
		},
		listFn:       func(context.Context, int, int) ([]*models.User, int64, error) { return nil, 0, nil },
		updateRoleFn: func(context.Context, string, string) error { return nil },
		setBannedFn:  func(context.Context, string, bool, string) error { return nil },
		deleteFn:     func(context.Context, string) error { return nil },
		countFn:      func(context.Context) (int64, error) { return 0, nil },
		countSinceFn: func(context.Context, time.Time) (int64, error) { return 0, nil },
	}
}

type reportRepoStub struct {
	createFn         func(context.Context, *models.Report) error
	getByIDFn        func(context.Context, string) (*models.Report, error)
	listFn           func(context.Context, string, int, int) ([]*models.Report, int64, error)
	updateStatusFn   func(context.Context, string, string, string, string) error
	countByStatusFn  func(context.Context, string) (int64, error)
	deleteByTargetFn func(context.Context, string, string) error
}

func (s *reportRepoStub) Create(ctx context.Context, r *models.Report) error {
	return s.createFn(ctx, r)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id string) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) List(ctx context.Context, status string, limit, offset int) ([]*models.Report, int64, error) {
	return s.listFn(ctx, status, limit, offset)
}
func (s *reportRepoStub) UpdateStatus(ctx context.Context, id, status, action, reviewerUID string) error {
	return s.updateStatusFn(ctx, id, status, action, reviewerUID)
}
func (s *reportRepoStub) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.countByStatusFn(ctx, status)
}
func (s *reportRepoStub) DeleteByTarget(ctx context.Context, targetType, targetID string) error {
	return s.deleteByTargetFn(ctx, targetType, targetID)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn: func(context.Context, *models.Report) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Report, error) {
			return &models.Report{ID: id, Status: models.ReportStatusPending}, nil
		},
		listFn:           func(context.Context, string, int, int) ([]*models.Report, int64, error) { return nil, 0, nil },
		updateStatusFn:   func(context.Context, string, string, string, string) error { return nil },
		countByStatusFn:  func(context.Context, string) (int64, error) { return 0, nil },
		deleteByTargetFn: func(context.Context, string, string) error { return nil },
	}
}

type notificationRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	getByIDFn     func(context.Context, string) (*models.Notification, error)
	listByUserFn  func(context.Context, string, int, int, bool) ([]*models.Notification, error)
	unreadCountFn func(context.Context, string) (int64, error)
	markReadFn    func(context.Context, string) error
	markAllReadFn func(context.Context, string) error
	deleteFn      func(context.Context, string) error
	deleteAllFn   func(context.Context, string) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) ListByUser(ctx context.Context, userID string, limit, offset int, unreadOnly bool) ([]*models.Notification, error) {
	return s.listByUserFn(ctx, userID, limit, offset, unreadOnly)
}
func (s *notificationRepoStub) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.unreadCountFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id string) error {
	return s.markReadFn(ctx, id)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID string) error {
	return s.markAllReadFn(ctx, userID)
}
func (s *notificationRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *notificationRepoStub) DeleteAllForUser(ctx context.Context, userID string) error {
	return s.deleteAllFn(ctx, userID)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn: func(context.Context, *models.Notification) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Notification, error) {
			return &models.Notification{ID: id}, nil
		},
		listByUserFn:  func(context.Context, string, int, int, bool) ([]*models.Notification, error) { return nil, nil },
		unreadCountFn: func(context.Context, string) (int64, error) { return 0, nil },
		markReadFn:    func(context.Context, string) error { return nil },
		markAllReadFn: func(context.Context, string) error { return nil },
		deleteFn:      func(context.Context, string) error { return nil },
		deleteAllFn:   func(context.Context, string) error { return nil },
	}
}

// capturingNotifications returns a NotificationService without realtime
// delivery that records every persisted notification in the returned slice.
func capturingNotifications() (*NotificationService, *[]*models.Notification) {
	var created []*models.Notification
	repo := noopNotificationRepo()
	repo.createFn = func(_ context.Context, n *models.Notification) error {
		created = append(created, n)
		return nil
	}
	return NewNotificationService(repo, nil), &created
}

type blockRepoStub struct {
	createFn     func(context.Context, *models.Block) error
	deleteFn     func(context.Context, string, string) error
	isBlockedFn  func(context.Context, string, string) (bool, error)
	blockedIDsFn func(context.Context, string) ([]string, error)
}

func (s *blockRepoStub) Create(ctx context.Context, b *models.Block) error {
	return s.createFn(ctx, b)
}
func (s *blockRepoStub) Delete(ctx context.Context, blockerID, blockedUserID string) error {
	return s.deleteFn(ctx, blockerID, blockedUserID)
}
func (s *blockRepoStub) IsBlocked(ctx context.Context, blockerID, blockedUserID string) (bool, error) {
	return s.isBlockedFn(ctx, blockerID, blockedUserID)
}
func (s *blockRepoStub) BlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	return s.blockedIDsFn(ctx, blockerID)
}

func noopBlockRepo() *blockRepoStub {
	return &blockRepoStub{
		createFn:     func(context.Context, *models.Block) error { return nil },
		deleteFn:     func(context.Context, string, string) error { return nil },
		isBlockedFn:  func(context.Context, string, string) (bool, error) { return false, nil },
		blockedIDsFn: func(context.Context, string) ([]string, error) { return nil, nil },
	}
}

type searchRepoStub struct {
	searchFn      func(context.Context, string, string, int, int) ([]*models.Post, int64, error)
	searchUsersFn func(context.Context, string, int) ([]*models.User, error)
}

func (s *searchRepoStub) SearchPosts(ctx context.Context, query, category string, limit, offset int) ([]*models.Post, int64, error) {
	return s.searchFn(ctx, query, category, limit, offset)
}

func (s *searchRepoStub) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	return s.searchUsersFn(ctx, query, limit)
}

func noopSearchRepo() *searchRepoStub {
	return &searchRepoStub{
		searchFn: func(context.Context, string, string, int, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		searchUsersFn: func(context.Context, string, int) ([]*models.User, error) {
			return nil, nil
		},
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeConflict)
}
