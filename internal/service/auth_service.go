package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"codeshare/internal/cache"
	"codeshare/internal/model"
	"codeshare/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// tokenTTL bounds both the JWT expiry and the allowlist entry.
const tokenTTL = 24 * time.Hour

// Authenticator resolves a bearer token to an actor. The production
// implementation is AuthService; DevAuthenticator is the explicit
// development-only variant.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Actor, error)
}

// AuthService handles interviewer login, logout and token validation.
// Issued token ids are allowlisted in Redis so logout revokes the
// token server-side.
type AuthService struct {
	users     repository.UserRepo
	tokens    cache.TokenCache
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepo, tokens cache.TokenCache, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		jwtSecret: []byte(jwtSecret),
	}
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Printf("login FAILED for <%s>", username)
		return nil, ErrInvalidCredentials
	}

	tokenID := uuid.New().String()
	now := time.Now()
	claims := &model.InterviewerClaims{
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Add(ctx, tokenID, tokenTTL); err != nil {
		return nil, err
	}

	log.Printf("login OK for [%s]", user.Username)
	return &model.LoginResponse{
		Token:    tokenString,
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.Admin,
	}, nil
}

// Authenticate validates a token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*model.Actor, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	active, err := s.tokens.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrInvalidToken
	}

	return &model.Actor{
		UserID:   claims.UserID,
		Username: claims.Username,
		Admin:    claims.Admin,
	}, nil
}

// Logout revokes the token. Revoking an already-revoked token is a
// no-op.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return ErrInvalidToken
	}
	return s.tokens.Revoke(ctx, claims.ID)
}

func (s *AuthService) parse(tokenString string) (*model.InterviewerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.InterviewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.InterviewerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DevAuthenticator maps an absent token to a fixed actor so the
// interviewer UI works without logging in. Wire it only under
// ENV=development; it is never a silent fallback inside AuthService.
type DevAuthenticator struct {
	Real  Authenticator
	Actor model.Actor
}

func (d *DevAuthenticator) Authenticate(ctx context.Context, token string) (*model.Actor, error) {
	if token == "" {
		actor := d.Actor
		return &actor, nil
	}
	return d.Real.Authenticate(ctx, token)
}
