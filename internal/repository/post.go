package repository

import (
	"context"
	"errors"
	"time"

	"github.com/riku-yanagihashi/PULOG/internal/models"

	"gorm.io/gorm"
)

// postTimezone is the fixed timezone for post timestamps.
var postTimezone = loadPostTimezone()

func loadPostTimezone() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// Hosts without tzdata still get the right offset; JST has no DST.
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// PostRepository defines persistence operations for blog posts.
type PostRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// List returns all posts ordered newest first.
	List(ctx context.Context) ([]models.Post, error)
	// Search returns posts whose title or body contains the query as a
	// substring, ordered newest first. Case sensitivity follows the
	// driver's LIKE collation: ASCII case-insensitive on SQLite,
	// case-sensitive on PostgreSQL.
	Search(ctx context.Context, query string) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	var posts []models.Post
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("title LIKE ? OR body LIKE ?", like, like).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Create inserts the post. CreatedAt is assigned here, per insertion, in the
// fixed post timezone.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().In(postTimezone)
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
