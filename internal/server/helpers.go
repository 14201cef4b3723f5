package server

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it renders the not-found page and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = s.renderNotFound(c)
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// renderNotFound renders the dedicated not-found page with a 404 status.
func (s *Server) renderNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{})
}

// loggedIn reports whether the current request carries a valid session.
func (s *Server) loggedIn(c *fiber.Ctx) bool {
	return c.Locals("userID") != nil
}

// formFile returns the uploaded file for the given field, or nil when the
// field is missing or carries no file. Browsers submit an empty-filename
// part when no file was chosen; that counts as absent.
func formFile(c *fiber.Ctx, name string) *multipart.FileHeader {
	file, err := c.FormFile(name)
	if err != nil || file == nil || file.Filename == "" {
		return nil
	}
	return file
}
