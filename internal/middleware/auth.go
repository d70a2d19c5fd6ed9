package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-dashboard/internal/model"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

// SessionCookieName is the cookie holding the signed session token for browser requests
const SessionCookieName = "session"

// Context keys set for authenticated requests
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserName  = "userName"
)

// SessionValidator parses session tokens
type SessionValidator interface {
	ValidateSessionToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens for API routes
func AuthMiddleware(auth SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		token := ""
		if authHeader != "" {
			// Check if it's a Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
					Status:  "Unauthorized",
					Message: "Invalid authorization header format. Expected 'Bearer <token>'",
				})
				return
			}
			token = parts[1]
		} else if cookie, err := c.Cookie(SessionCookieName); err == nil {
			token = cookie
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Status:  "Unauthorized",
				Message: "Authorization header is required",
			})
			return
		}

		// Validate token
		claims, err := auth.ValidateSessionToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Status:  "Unauthorized",
				Message: "Invalid or expired token",
			})
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// RequireSession protects dashboard pages; anonymous visitors are sent to the login page
func RequireSession(auth SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c, auth)
		if !ok {
			target := model.LoginPath + "?" + url.Values{"callbackUrl": {c.Request.URL.RequestURI()}}.Encode()
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalSession sets the user on the context when a valid session cookie is present
func OptionalSession(auth SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := sessionClaims(c, auth); ok {
			setUser(c, claims)
		}
		c.Next()
	}
}

// IsAuthenticated reports whether a session was accepted for this request
func IsAuthenticated(c *gin.Context) bool {
	return c.GetString(ContextUserID) != ""
}

func sessionClaims(c *gin.Context, auth SessionValidator) (*service.Claims, bool) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := auth.ValidateSessionToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setUser(c *gin.Context, claims *service.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserEmail, claims.Email)
	c.Set(ContextUserName, claims.Name)
}
