// Package validation provides input validation for form submissions.
package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/riku-yanagihashi/PULOG/internal/models"
)

// ValidateTitle checks the post title at creation time. Length is counted
// in runes so multibyte titles are not over-rejected. Note the body length
// is deliberately not validated; see DESIGN.md.
func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		return fmt.Errorf("title must be %d characters or fewer", models.MaxTitleLen)
	}
	return nil
}

// ValidateSignup checks that all signup fields are present.
func ValidateSignup(email, username, password string) error {
	if email == "" || username == "" || password == "" {
		return fmt.Errorf("email, username, and password are required")
	}
	return nil
}
