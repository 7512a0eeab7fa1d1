// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"holyguitars/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options control how much demo data is generated.
type Options struct {
	Users    int
	Posts    int
	Comments int
	MaxDays  int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var categories = []string{models.CategoryGeneral, models.CategoryEquipment, models.CategoryVideo}

var guitarBrands = []string{"Fender", "Gibson", "Taylor", "Martin", "Ibanez", "PRS", "Yamaha", "Epiphone"}

// pastTime spreads timestamps over the configured window so listings look lived-in.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	return time.Now().
		Add(-time.Duration(f.rng.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rng.Intn(24)) * time.Hour).
		Add(-time.Duration(f.rng.Intn(60)) * time.Minute)
}

// CreateUser constructs and persists a sample user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		UID:         gofakeit.UUID(),
		DisplayName: gofakeit.Name(),
		Email:       gofakeit.Email(),
		PhotoURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Bio:         gofakeit.Sentence(10),
		Role:        models.RoleMember,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post by the given author.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	category := categories[f.rng.Intn(len(categories))]
	post := &models.Post{
		Title:       gofakeit.Sentence(5),
		Description: gofakeit.Paragraph(1, 3, 5, "\n"),
		Category:    category,
		AuthorID:    author.UID,
		AuthorName:  author.DisplayName,
		AuthorPhoto: author.PhotoURL,
		CreatedAt:   f.pastTime(),
	}
	switch category {
	case models.CategoryEquipment:
		post.Brand = guitarBrands[f.rng.Intn(len(guitarBrands))]
		post.Model = gofakeit.Word()
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	case models.CategoryVideo:
		post.VideoURL = gofakeit.URL()
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a comment by the given user. Passing
// a parent produces a reply. Counters are maintained the same way the
// runtime path maintains them.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		Content:   gofakeit.Sentence(12),
		UserID:    user.UID,
		UserName:  user.DisplayName,
		UserPhoto: user.PhotoURL,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error; err != nil {
			return err
		}
		if parent != nil {
			return tx.Model(&models.Comment{}).Where("id = ?", parent.ID).
				UpdateColumn("replies_count", gorm.Expr("replies_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Run populates the database with a demo community.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, u)
	}
	if len(users) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[f.rng.Intn(len(users))]
		p, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		posts = append(posts, p)
	}

	var topLevel []*models.Comment
	for i := 0; i < opts.Comments; i++ {
		user := users[f.rng.Intn(len(users))]
		post := posts[f.rng.Intn(len(posts))]

		// Roughly a third of comments become replies once parents exist.
		var parent *models.Comment
		if len(topLevel) > 0 && f.rng.Intn(3) == 0 {
			parent = topLevel[f.rng.Intn(len(topLevel))]
			post = &models.Post{ID: parent.PostID}
		}

		c, err := f.CreateComment(user, post, parent)
		if err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
		if parent == nil {
			topLevel = append(topLevel, c)
		}
	}

	log.Printf("seeded %d users, %d posts, %d comments", opts.Users, opts.Posts, opts.Comments)
	return nil
}
