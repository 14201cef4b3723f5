// Package session manages the signed-cookie session that associates a
// request with an authenticated user.
package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName is the name of the session cookie issued on login.
	CookieName = "pulog_session"
	// TokenLifetime is how long a session stays valid. Expired cookies are
	// treated as anonymous; there is no refresh flow.
	TokenLifetime = 7 * 24 * time.Hour
)

// Manager issues, validates, and clears session credentials. The credential
// is an HS256-signed JWT carried in a cookie, so no server-side session
// state is kept; the signing secret must stay stable across restarts.
type Manager struct {
	secret string
}

// NewManager returns a Manager signing tokens with the given secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: secret}
}

// Issue creates a session for the user and sets the session cookie.
func (m *Manager) Issue(c *fiber.Ctx, userID uint, username string) error {
	token, err := m.generateToken(userID, username)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenLifetime),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// Clear destroys the session by expiring the cookie.
func (m *Manager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// UserID returns the authenticated user's ID from the session cookie, or
// false when the request is anonymous (no cookie, bad signature, expired).
func (m *Manager) UserID(c *fiber.Ctx) (uint, bool) {
	cookie := c.Cookies(CookieName)
	if cookie == "" {
		return 0, false
	}
	return m.parseToken(cookie)
}

// LoadUser exposes the session state to downstream handlers and templates.
// Anonymous requests pass through untouched.
func (m *Manager) LoadUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := m.UserID(c); ok {
			c.Locals("userID", userID)
		}
		return c.Next()
	}
}

// RequireLogin guards protected routes. An anonymous request is redirected
// to the signup page rather than answered with an authorization error; new
// visitors land on onboarding instead of a dead end.
func (m *Manager) RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := m.UserID(c)
		if !ok {
			return c.Redirect("/signup", fiber.StatusFound)
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// generateToken creates a JWT token for the given user ID and username.
func (m *Manager) generateToken(userID uint, username string) (string, error) {
	if m.secret == "" {
		return "", fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "pulog",
		"aud":      "pulog-web",
		"exp":      now.Add(TokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

func (m *Manager) parseToken(tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}

	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil || userID == 0 {
		return 0, false
	}

	return uint(userID), true
}

// generateJTI creates a unique JWT ID so two logins in the same second
// still produce distinct credentials.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
