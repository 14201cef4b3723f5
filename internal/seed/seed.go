// Package seed creates demo data for local development. Not used in
// production.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/riku-yanagihashi/PULOG/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control what the seeder creates.
type Options struct {
	Users int
	Posts int
	Clean bool
	// MaxDays spreads post timestamps over the past N days.
	MaxDays int
}

// Run populates the database with fake users and posts.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.Clean {
		if err := db.Exec("DELETE FROM posts").Error; err != nil {
			return fmt.Errorf("clean posts: %w", err)
		}
		if err := db.Exec("DELETE FROM users").Error; err != nil {
			return fmt.Errorf("clean users: %w", err)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}

	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}

	for i := 0; i < opts.Posts; i++ {
		post := buildPost(maxDays)
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
	}

	log.Printf("Seeded %d users and %d posts", opts.Users, opts.Posts)
	return nil
}

func buildPost(maxDays int) *models.Post {
	post := &models.Post{
		Title: truncateRunes(gofakeit.Sentence(3), models.MaxTitleLen),
		Body:  truncateRunes(gofakeit.Paragraph(1, 2, 8, " "), models.MaxBodyLen),
	}

	// Realistic created_at spread.
	daysBack := rand.Intn(maxDays)
	hoursBack := rand.Intn(24)
	minsBack := rand.Intn(60)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)

	return post
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
