// Package models contains the application's domain models.
package models

// User represents a registered PULOG account.
//
// Email and Username each carry a unique index; the database enforces
// uniqueness so concurrent signups cannot race past an application-level
// check. Password holds a bcrypt hash, never plaintext, and is excluded
// from serialization.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"unique;not null" json:"email"`
	Username string `gorm:"unique;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
}
