package server

import (
	"log/slog"

	"github.com/riku-yanagihashi/PULOG/internal/middleware"
	"github.com/riku-yanagihashi/PULOG/internal/models"
	"github.com/riku-yanagihashi/PULOG/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// SignupPage handles GET /signup.
func (s *Server) SignupPage(c *fiber.Ctx) error {
	return c.Render("signup", fiber.Map{
		"Flash":    popFlash(c),
		"LoggedIn": s.loggedIn(c),
	})
}

// Signup handles POST /signup. A duplicate email flashes a message and
// redirects back to the form without creating a row; success redirects to
// the login page.
func (s *Server) Signup(c *fiber.Ctx) error {
	email := c.FormValue("email")
	username := c.FormValue("username")
	password := c.FormValue("password")

	if err := validation.ValidateSignup(email, username, password); err != nil {
		setFlash(c, "error", err.Error())
		return c.Redirect("/signup", fiber.StatusFound)
	}

	// Friendlier message for the common case. The unique constraint below
	// remains the real guard against concurrent signups.
	existing, err := s.userRepo.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	if existing != nil {
		setFlash(c, "error", "This email address is already registered")
		return c.Redirect("/signup", fiber.StatusFound)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
	}

	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		if models.IsDuplicate(err) {
			setFlash(c, "error", "This email address is already registered")
			return c.Redirect("/signup", fiber.StatusFound)
		}
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "user signed up",
		slog.Uint64("user_id", uint64(user.ID)))

	return c.Redirect("/login", fiber.StatusFound)
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"LoggedIn": s.loggedIn(c),
	})
}

// Login handles POST /login. The identifier may be a username or an email.
// On failure the login page is re-rendered with an inline error; which
// field was wrong is never disclosed.
func (s *Server) Login(c *fiber.Ctx) error {
	identifier := c.FormValue("username_or_email")
	password := c.FormValue("password")

	user, err := s.userRepo.GetByUsernameOrEmail(c.UserContext(), identifier)
	if err != nil {
		return err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return c.Render("login", fiber.Map{
			"Error":    "Invalid credentials",
			"LoggedIn": s.loggedIn(c),
		})
	}

	if err := s.sessions.Issue(c, user.ID, user.Username); err != nil {
		return models.NewInternalError(err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user logged in",
		slog.Uint64("user_id", uint64(user.ID)))

	return c.Redirect("/", fiber.StatusFound)
}

// Logout handles GET /logout: the session ends unconditionally.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.sessions.Clear(c)
	return c.Redirect("/login", fiber.StatusFound)
}
