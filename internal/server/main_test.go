package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/riku-yanagihashi/PULOG/internal/config"
	"github.com/riku-yanagihashi/PULOG/internal/database"
	"github.com/riku-yanagihashi/PULOG/internal/models"
	"github.com/riku-yanagihashi/PULOG/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server over a throwaway SQLite database and a
// temporary upload directory, with the Fiber app fully wired.
func newTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:          "3000",
		Env:           "test",
		SessionSecret: "test-secret-that-is-long-enough-xx",
		DBDriver:      "sqlite",
		UploadDir:     filepath.Join(t.TempDir(), "thumbnails"),
	}

	srv, err := NewServerWithDeps(cfg, db)
	require.NoError(t, err)

	return srv.BuildApp(), srv, db
}

// createUser inserts a user with a bcrypt-hashed password directly.
func createUser(t *testing.T, db *gorm.DB, email, username, password string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{Email: email, Username: username, Password: string(hashed)}
	require.NoError(t, db.Create(user).Error)
	return user
}

// postForm submits an urlencoded form, optionally with a session cookie.
func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", session.CookieName+"="+cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// get performs a GET request, optionally with a session cookie.
func get(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", session.CookieName+"="+cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// uploadedFile describes a file part for multipart form submissions.
type uploadedFile struct {
	Field    string
	Filename string
	Content  []byte
}

// postMultipart submits a multipart form; file may be nil for a form with
// only text fields.
func postMultipart(t *testing.T, app *fiber.App, path string, fields map[string]string, file *uploadedFile, cookie string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		require.NoError(t, err)
		_, err = part.Write(file.Content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if cookie != "" {
		req.Header.Set("Cookie", session.CookieName+"="+cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login authenticates through the login handler and returns the session
// cookie value.
func login(t *testing.T, app *fiber.App, identifier, password string) string {
	t.Helper()

	resp := postForm(t, app, "/login", url.Values{
		"username_or_email": {identifier},
		"password":          {password},
	}, "")
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotEmpty(t, cookie)
	return cookie
}

// sessionCookie extracts the session cookie value from a response.
func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	return ""
}

// newRequestWithCookie builds a GET request carrying a raw Cookie header.
func newRequestWithCookie(t *testing.T, path, cookie string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Cookie", cookie)
	return req
}

// readBody drains and returns the response body.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
