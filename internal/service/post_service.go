package service

import (
	"context"

	"holyguitars/internal/models"
	"holyguitars/internal/repository"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 10000
)

type PostService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	AuthorID    string
	AuthorName  string
	AuthorPhoto string

	Title        string
	Description  string
	Category     string
	Subcategory  string
	Brand        string
	Model        string
	ImageURL     string
	VideoURL     string
	VideoFileURL string
}

// UpdatePostInput carries a partial edit. Nil fields are left untouched on
// the stored post; only fields present in the request body are applied.
type UpdatePostInput struct {
	UserID string
	PostID string

	Title        *string
	Description  *string
	Subcategory  *string
	Brand        *string
	Model        *string
	ImageURL     *string
	VideoURL     *string
	VideoFileURL *string
}

type DeletePostInput struct {
	UserID string
	PostID string
}

// PostPage is a paginated listing plus the caller's like state.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
}

func NewPostService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		userRepo: userRepo,
	}
}

func validCategory(category string) bool {
	switch category {
	case models.CategoryGeneral, models.CategoryEquipment, models.CategoryVideo:
		return true
	}
	return false
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}
	if !validCategory(in.Category) {
		return nil, models.NewValidationError("Unknown category")
	}

	post := &models.Post{
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Subcategory:  in.Subcategory,
		Brand:        in.Brand,
		Model:        in.Model,
		ImageURL:     in.ImageURL,
		VideoURL:     in.VideoURL,
		VideoFileURL: in.VideoFileURL,
		AuthorID:     in.AuthorID,
		AuthorName:   in.AuthorName,
		AuthorPhoto:  in.AuthorPhoto,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Post", id)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, category, subcategory string, limit, offset int) (*PostPage, error) {
	if category != "" && !validCategory(category) {
		return nil, models.NewValidationError("Unknown category")
	}
	posts, total, err := s.postRepo.List(ctx, category, subcategory, limit, offset)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset)
}

// LikedPostIDs returns which of the given posts the user has liked, for
// client-side like state without per-post queries.
func (s *PostService) LikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error) {
	return s.likeRepo.LikedPostIDs(ctx, userID, postIDs)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, notFound(err, "Post", in.PostID)
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(*in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		post.Title = *in.Title
	}
	if in.Description != nil {
		if len(*in.Description) > maxDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 10000 characters)")
		}
		post.Description = *in.Description
	}
	if in.Subcategory != nil {
		post.Subcategory = *in.Subcategory
	}
	if in.Brand != nil {
		post.Brand = *in.Brand
	}
	if in.Model != nil {
		post.Model = *in.Model
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}
	if in.VideoURL != nil {
		post.VideoURL = *in.VideoURL
	}
	if in.VideoFileURL != nil {
		post.VideoFileURL = *in.VideoFileURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. The author always may; anyone else needs the
// delete-any capability.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return notFound(err, "Post", in.PostID)
	}

	if post.AuthorID != in.UserID {
		caps, _, err := capabilitiesOf(ctx, s.userRepo, in.UserID)
		if err != nil {
			return err
		}
		if !caps.CanDeleteAny {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}
