package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ridwanfathin/invoice-dashboard/internal/domain"
	"github.com/ridwanfathin/invoice-dashboard/internal/metrics"
	"github.com/ridwanfathin/invoice-dashboard/internal/repository"
)

// ProviderCredentials is the name of the email and password sign-in provider
const ProviderCredentials = "credentials"

// User-facing sign-in failure messages
const (
	MessageInvalidCredentials = "Invalid credentials."
	MessageSomethingWentWrong = "Something went wrong."
)

// Common errors
var (
	ErrUserAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidToken      = errors.New("invalid token")
)

// AuthErrorType classifies a sign-in failure
type AuthErrorType string

const (
	// CredentialsSignin means the submitted credentials were rejected
	CredentialsSignin AuthErrorType = "CredentialsSignin"
	// CallbackRouteError means the provider failed while checking the credentials
	CallbackRouteError AuthErrorType = "CallbackRouteError"
	// Configuration means the requested provider is not set up
	Configuration AuthErrorType = "Configuration"
)

// AuthError is a sign-in failure raised by the auth layer
type AuthError struct {
	Type AuthErrorType
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return string(e.Type)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Credentials is the raw sign-in form
type Credentials struct {
	Email      string `form:"email" json:"email" validate:"required,email"`
	Password   string `form:"password" json:"password" validate:"required,min=6"`
	RedirectTo string `form:"redirectTo" json:"redirectTo"`
}

// Session is an authenticated user and the signed token that proves it
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Provider verifies credentials and returns the matching user
type Provider interface {
	Authorize(ctx context.Context, credentials Credentials) (*domain.User, error)
}

// AuthService handles authentication operations
type AuthService interface {
	// SignIn verifies credentials with the named provider and issues a session
	SignIn(ctx context.Context, provider string, credentials Credentials) (*Session, error)
	// Authenticate signs in with the credentials provider and maps known failures to a message
	Authenticate(ctx context.Context, credentials Credentials) (*Session, string, error)
	// ValidateSessionToken parses a session token issued by SignIn
	ValidateSessionToken(tokenString string) (*Claims, error)
	// Register creates a user with a hashed password
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo   repository.UserRepository
	providers  map[string]Provider
	jwtSecret  []byte
	sessionTTL time.Duration
}

// AuthServiceConfig holds configuration for auth service
type AuthServiceConfig struct {
	UserRepo   repository.UserRepository
	JWTSecret  string
	SessionTTL time.Duration
}

// NewAuthService creates a new auth service with the credentials provider registered
func NewAuthService(config AuthServiceConfig) AuthService {
	ttl := config.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &authService{
		userRepo: config.UserRepo,
		providers: map[string]Provider{
			ProviderCredentials: NewCredentialsProvider(config.UserRepo),
		},
		jwtSecret:  []byte(config.JWTSecret),
		sessionTTL: ttl,
	}
}

// SignIn verifies credentials with the named provider and issues a session
func (s *authService) SignIn(ctx context.Context, providerName string, credentials Credentials) (*Session, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return nil, &AuthError{
			Type: Configuration,
			Err:  fmt.Errorf("unknown provider %q", providerName),
		}
	}

	user, err := provider.Authorize(ctx, credentials)
	if err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

// Authenticate signs in with the credentials provider.
// Auth failures come back as a message; any other error is returned unhandled.
func (s *authService) Authenticate(ctx context.Context, credentials Credentials) (*Session, string, error) {
	session, err := s.SignIn(ctx, ProviderCredentials, credentials)
	if err == nil {
		metrics.RecordSignIn("success")
		return session, "", nil
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		metrics.RecordSignIn("error")
		return nil, "", err
	}

	metrics.RecordSignIn(string(authErr.Type))
	switch authErr.Type {
	case CredentialsSignin:
		return nil, MessageInvalidCredentials, nil
	default:
		return nil, MessageSomethingWentWrong, nil
	}
}

func (s *authService) issueSession(user *domain.User) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.sessionTTL)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &Session{
		User:      user,
		Token:     tokenString,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateSessionToken validates and parses a session token
func (s *authService) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Register creates a new user with email and password
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// CredentialsProvider checks an email and password against the stored bcrypt hash
type CredentialsProvider struct {
	userRepo repository.UserRepository
	validate *validator.Validate
}

// NewCredentialsProvider creates the email and password provider
func NewCredentialsProvider(userRepo repository.UserRepository) *CredentialsProvider {
	return &CredentialsProvider{
		userRepo: userRepo,
		validate: newValidator(),
	}
}

// Authorize returns the user owning the credentials.
// Rejected credentials are CredentialsSignin errors, lookup failures CallbackRouteError.
func (p *CredentialsProvider) Authorize(ctx context.Context, credentials Credentials) (*domain.User, error) {
	if err := p.validate.Struct(credentials); err != nil {
		return nil, &AuthError{Type: CredentialsSignin, Err: err}
	}

	user, err := p.userRepo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(credentials.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, &AuthError{Type: CredentialsSignin, Err: err}
		}
		return nil, &AuthError{Type: CallbackRouteError, Err: err}
	}

	if user.PasswordHash == "" {
		return nil, &AuthError{Type: CredentialsSignin, Err: errors.New("user has no password")}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		return nil, &AuthError{Type: CredentialsSignin, Err: err}
	}

	return user, nil
}
