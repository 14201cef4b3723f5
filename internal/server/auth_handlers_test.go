package server

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/riku-yanagihashi/PULOG/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSignupCreatesUserAndRedirectsToLogin(t *testing.T) {
	app, _, db := newTestServer(t)

	resp := postForm(t, app, "/signup", url.Values{
		"email":    {"alice@example.com"},
		"username": {"alice"},
		"password": {"pw1"},
	}, "")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.Equal(t, "alice", user.Username)

	// Stored as a bcrypt hash, never plaintext.
	assert.NotEqual(t, "pw1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("pw1")))
}

func TestSignupDuplicateEmailCreatesNoRow(t *testing.T) {
	app, _, db := newTestServer(t)
	createUser(t, db, "alice@example.com", "alice", "pw1")

	resp := postForm(t, app, "/signup", url.Values{
		"email":    {"alice@example.com"},
		"username": {"alice2"},
		"password": {"pw2"},
	}, "")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/signup", resp.Header.Get("Location"))
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}))

	// The flash message survives the redirect and shows on the form.
	var flashCookie string
	for _, c := range resp.Cookies() {
		if c.Name == flashCookieName {
			flashCookie = c.Value
		}
	}
	require.NotEmpty(t, flashCookie)

	followUp, err := app.Test(newRequestWithCookie(t, "/signup", flashCookieName+"="+flashCookie), -1)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, followUp), "already registered")
}

func TestSignupMissingFieldsRedirectsBack(t *testing.T) {
	app, _, db := newTestServer(t)

	resp := postForm(t, app, "/signup", url.Values{
		"email":    {"alice@example.com"},
		"username": {""},
		"password": {"pw1"},
	}, "")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/signup", resp.Header.Get("Location"))
	assert.EqualValues(t, 0, countRows(t, db, &models.User{}))
}

func TestLoginWithUsername(t *testing.T) {
	app, _, db := newTestServer(t)
	createUser(t, db, "alice@example.com", "alice", "pw1")

	cookie := login(t, app, "alice", "pw1")
	assert.NotEmpty(t, cookie)
}

func TestLoginWithEmail(t *testing.T) {
	app, _, db := newTestServer(t)
	createUser(t, db, "alice@example.com", "alice", "pw1")

	cookie := login(t, app, "alice@example.com", "pw1")
	assert.NotEmpty(t, cookie)
}

func TestLoginFailureRendersInlineError(t *testing.T) {
	app, _, db := newTestServer(t)
	createUser(t, db, "alice@example.com", "alice", "pw1")

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{"wrong password", "alice", "nope"},
		{"unknown user", "bob", "pw1"},
		{"empty credentials", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postForm(t, app, "/login", url.Values{
				"username_or_email": {tt.identifier},
				"password":          {tt.password},
			}, "")

			// Re-rendered inline, not a redirect, and no session issued.
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Empty(t, sessionCookie(resp))
			assert.Contains(t, readBody(t, resp), "Invalid credentials")
		})
	}
}

func TestLogoutRestoresAnonymousState(t *testing.T) {
	app, _, db := newTestServer(t)
	createUser(t, db, "alice@example.com", "alice", "pw1")

	cookie := login(t, app, "alice", "pw1")

	// Logged in: the create form is reachable.
	resp := get(t, app, "/create", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = get(t, app, "/logout", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_ = resp.Body.Close()

	// Anonymous again: the guard redirects to signup.
	resp = get(t, app, "/create", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/signup", resp.Header.Get("Location"))
	_ = resp.Body.Close()
}

func TestLoginPageRenders(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp := get(t, app, "/login", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "username_or_email")
	assert.False(t, strings.Contains(body, "Invalid credentials"))
}
