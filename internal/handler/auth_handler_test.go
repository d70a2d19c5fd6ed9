package handler

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/middleware"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

func newAuthRouter(t *testing.T, auth *fakeAuthService) *gin.Engine {
	t.Helper()
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	NewAuthHandler(auth, false).RegisterRoutes(router, passThrough, passThrough)
	return router
}

func validSession() *service.Session {
	return &service.Session{
		User:      &domain.User{ID: "u1", Email: "user@nextmail.com"},
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestLoginSetsCookieAndRedirects(t *testing.T) {
	auth := &fakeAuthService{session: validSession()}
	router := newAuthRouter(t, auth)

	rec := postForm(router, "/login", url.Values{
		"email":      {"user@nextmail.com"},
		"password":   {"123456"},
		"redirectTo": {"/dashboard/invoices"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/invoices", rec.Header().Get("Location"))
	assert.Equal(t, "123456", auth.last.Password)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginRejectsForeignRedirect(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{session: validSession()})

	rec := postForm(router, "/login", url.Values{
		"email":      {"user@nextmail.com"},
		"password":   {"123456"},
		"redirectTo": {"//evil.example.com"},
	})

	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLoginShowsMappedMessage(t *testing.T) {
	for _, message := range []string{service.MessageInvalidCredentials, service.MessageSomethingWentWrong} {
		t.Run(message, func(t *testing.T) {
			router := newAuthRouter(t, &fakeAuthService{message: message})

			rec := postForm(router, "/login", url.Values{"email": {"user@nextmail.com"}, "password": {"bad"}})

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), message)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLoginPropagatesUnknownErrors(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{err: errors.New("provider crashed")})

	rec := postForm(router, "/login", url.Values{"email": {"user@nextmail.com"}, "password": {"123456"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{})

	rec := postForm(router, "/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestLoginPageKeepsCallback(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{})

	rec := get(router, "/login?callbackUrl=%2Fdashboard%2Finvoices")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="redirectTo" value="/dashboard/invoices"`)
}

func TestAPILogin(t *testing.T) {
	router := newAuthRouter(t, &fakeAuthService{session: validSession()})
	rec := sendJSON(router, http.MethodPost, "/v1/auth/login", `{"email":"user@nextmail.com","password":"123456"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"signed-token"`)

	router = newAuthRouter(t, &fakeAuthService{message: service.MessageInvalidCredentials})
	rec = sendJSON(router, http.MethodPost, "/v1/auth/login", `{"email":"user@nextmail.com","password":"nope12"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")

	rec = sendJSON(router, http.MethodPost, "/v1/auth/login", `{"email":"user@nextmail.com"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPILoginMissingFieldsAreInvalidCredentials(t *testing.T) {
	auth := &fakeAuthService{message: service.MessageInvalidCredentials}
	router := newAuthRouter(t, auth)

	rec := sendJSON(router, http.MethodPost, "/v1/auth/login", `{}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")
	assert.Equal(t, service.Credentials{}, auth.last)
}
