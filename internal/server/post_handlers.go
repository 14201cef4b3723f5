package server

import (
	"github.com/riku-yanagihashi/PULOG/internal/models"
	"github.com/riku-yanagihashi/PULOG/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /: all posts, newest first.
func (s *Server) Index(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.UserContext())
	if err != nil {
		return err
	}

	return c.Render("index", fiber.Map{
		"Posts":    posts,
		"LoggedIn": s.loggedIn(c),
	})
}

// Detail handles GET /:id. An unknown or malformed id renders the
// not-found page, never a crash.
func (s *Server) Detail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return s.renderNotFound(c)
		}
		return err
	}

	return c.Render("detail", fiber.Map{
		"Post":     post,
		"LoggedIn": s.loggedIn(c),
	})
}

// CreatePage handles GET /create.
func (s *Server) CreatePage(c *fiber.Ctx) error {
	return c.Render("create", fiber.Map{
		"Flash":    popFlash(c),
		"LoggedIn": true,
	})
}

// Create handles POST /create. An over-long title flashes a message and
// redirects back to the form. A thumbnail is optional; a failed file write
// surfaces as an error rather than silently dropping the post.
func (s *Server) Create(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if err := validation.ValidateTitle(title); err != nil {
		setFlash(c, "error", err.Error())
		return c.Redirect("/create", fiber.StatusFound)
	}
	body := c.FormValue("body")

	thumbnail, err := s.thumbnails.Store(formFile(c, "thumbnail"))
	if err != nil {
		return models.NewInternalError(err)
	}

	post := &models.Post{
		Title:     title,
		Body:      body,
		Thumbnail: thumbnail,
	}
	if err := s.postRepo.Create(c.UserContext(), post); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

// UpdatePage handles GET /:id/update.
func (s *Server) UpdatePage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return s.renderNotFound(c)
		}
		return err
	}

	return c.Render("update", fiber.Map{
		"Post":     post,
		"LoggedIn": true,
	})
}

// Update handles POST /:id/update. Title and body are set unconditionally
// (no length re-check; creation is the only validated path). The thumbnail
// is replaced only when the form carries a file; otherwise the stored
// filename is left untouched.
func (s *Server) Update(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return s.renderNotFound(c)
		}
		return err
	}

	post.Title = c.FormValue("title")
	post.Body = c.FormValue("body")

	if file := formFile(c, "thumbnail"); file != nil {
		filename, storeErr := s.thumbnails.Store(file)
		if storeErr != nil {
			return models.NewInternalError(storeErr)
		}
		post.Thumbnail = filename
	}

	if err := s.postRepo.Update(c.UserContext(), post); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

// Delete handles GET /:id/delete. Deleting a post that does not exist
// renders the not-found page.
func (s *Server) Delete(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.postRepo.GetByID(c.UserContext(), id); err != nil {
		if models.IsNotFound(err) {
			return s.renderNotFound(c)
		}
		return err
	}

	if err := s.postRepo.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

// Search handles POST /search: substring match on title OR body. No
// matches is an empty results page, not an error.
func (s *Server) Search(c *fiber.Ctx) error {
	query := c.FormValue("query")

	results, err := s.postRepo.Search(c.UserContext(), query)
	if err != nil {
		return err
	}

	return c.Render("search_results", fiber.Map{
		"Query":    query,
		"Results":  results,
		"LoggedIn": s.loggedIn(c),
	})
}
