package server

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookieName = "pulog_flash"

// Flash is a one-shot message surviving exactly one redirect. It rides a
// short-lived cookie: set before redirecting, consumed by the next render.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// setFlash stores a flash message for the next request.
func setFlash(c *fiber.Ctx, category, message string) {
	payload, err := json.Marshal(Flash{Category: category, Message: message})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Expires:  time.Now().Add(5 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func popFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookieName)
	if raw == "" {
		return nil
	}

	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	payload, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flash Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil
	}
	return &flash
}
