package service

import (
	"context"
	"strings"

	"holyguitars/internal/models"
	"holyguitars/internal/repository"
)

const (
	minQueryLen = 2
	maxQueryLen = 100
)

type SearchService struct {
	searchRepo repository.SearchRepository
	postRepo   repository.PostRepository
}

type SearchInput struct {
	Query    string
	Type     string
	Category string
	Limit    int
	Offset   int
}

// SearchResult carries the matches of a combined search. Slices stay
// non-nil so the JSON rendering always shows both collections.
type SearchResult struct {
	Posts []*models.Post `json:"posts"`
	Users []*models.User `json:"users"`
}

func NewSearchService(searchRepo repository.SearchRepository, postRepo repository.PostRepository) *SearchService {
	return &SearchService{searchRepo: searchRepo, postRepo: postRepo}
}

func validQuery(raw string) (string, error) {
	query := strings.TrimSpace(raw)
	if len(query) < minQueryLen {
		return "", models.NewValidationError("Search query too short (min 2 characters)")
	}
	if len(query) > maxQueryLen {
		return "", models.NewValidationError("Search query too long (max 100 characters)")
	}
	return query, nil
}

func (s *SearchService) SearchPosts(ctx context.Context, in SearchInput) (*PostPage, error) {
	query, err := validQuery(in.Query)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.searchRepo.SearchPosts(ctx, query, in.Category, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

// Search runs the combined lookup behind GET /api/search. Type selects
// which collections are scanned: posts, users, or all (the default).
func (s *SearchService) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	query, err := validQuery(in.Query)
	if err != nil {
		return nil, err
	}

	kind := in.Type
	if kind == "" {
		kind = "all"
	}
	result := &SearchResult{Posts: []*models.Post{}, Users: []*models.User{}}

	switch kind {
	case "all", "posts", "users":
	default:
		return nil, models.NewValidationError("Invalid search type: " + in.Type)
	}

	if kind == "all" || kind == "posts" {
		posts, _, err := s.searchRepo.SearchPosts(ctx, query, in.Category, in.Limit, in.Offset)
		if err != nil {
			return nil, err
		}
		result.Posts = append(result.Posts, posts...)
	}
	if kind == "all" || kind == "users" {
		users, err := s.searchRepo.SearchUsers(ctx, query, in.Limit)
		if err != nil {
			return nil, err
		}
		result.Users = append(result.Users, users...)
	}
	return result, nil
}

// Trending returns the most liked posts, ties broken by recency.
func (s *SearchService) Trending(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.postRepo.Trending(ctx, limit)
}
