package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/middleware"
	"github.com/ridwanfathin/invoice-dashboard/internal/model"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse contains the issued session
type LoginResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// LoginPage renders the sign-in form; signed-in users go straight to the dashboard
func (h *AuthHandler) LoginPage(c *gin.Context) {
	callbackURL := safeRedirect(c.Query("callbackUrl"))
	if middleware.IsAuthenticated(c) {
		c.Redirect(StatusSeeOther, callbackURL)
		return
	}

	renderHTML(c, StatusOK, tmplLogin, model.LoginPage{
		Title:       "Login",
		CallbackURL: callbackURL,
	})
}

// Login handles the sign-in form submission
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials service.Credentials
	if err := c.ShouldBind(&credentials); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}
	redirectTo := safeRedirect(credentials.RedirectTo)

	session, message, err := h.authService.Authenticate(c.Request.Context(), credentials)
	if err != nil {
		logError(c, "sign_in_failed", err, map[string]interface{}{
			"email": credentials.Email,
		})
		_ = c.AbortWithError(StatusInternalServerError, err)
		return
	}

	if message != "" {
		renderHTML(c, StatusUnauthorized, tmplLogin, model.LoginPage{
			Title:        "Login",
			Email:        credentials.Email,
			CallbackURL:  redirectTo,
			ErrorMessage: message,
		})
		return
	}

	h.setSessionCookie(c, session)
	c.Redirect(StatusSeeOther, redirectTo)
}

// Logout clears the session cookie and returns to the sign-in page
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookies, true)
	c.Redirect(StatusSeeOther, model.LoginPath)
}

// APILogin handles user login with email and password for API clients
// @Summary Login with email and password
// @Description Authenticate with the credentials provider and receive a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Invalid credentials"
// @Failure 429 {object} model.ErrorResponse "Too many attempts"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/auth/login [post]
func (h *AuthHandler) APILogin(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	session, message, err := h.authService.Authenticate(c.Request.Context(), service.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		logError(c, "login_failed", err, map[string]interface{}{
			"email": req.Email,
		})
		respondInternalServerError(c, "Failed to login")
		return
	}

	if message != "" {
		respondUnauthorized(c, message)
		return
	}

	respondOK(c, LoginResponse{
		User:      session.User,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session *service.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, session.Token, maxAge, "/", "", h.secureCookies, true)
}

// safeRedirect only allows local paths as post-login targets
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return model.DashboardPath
	}
	return target
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, sessionMiddleware, rateLimit gin.HandlerFunc) {
	router.GET(model.LoginPath, sessionMiddleware, h.LoginPage)
	router.POST(model.LoginPath, rateLimit, h.Login)
	router.POST("/logout", h.Logout)

	auth := router.Group("/v1/auth")
	{
		auth.POST("/login", rateLimit, h.APILogin)
	}
}
