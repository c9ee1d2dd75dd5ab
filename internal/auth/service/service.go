// Package service implements authentication: credential checks, JWT
// issuance, and refresh token rotation.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crm_backend/internal/auth/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgInvalidToken       = "invalid refresh token"
)

// TokenPair holds a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service implements authentication operations.
type Service struct {
	repo repository.UserStore
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

// New creates an auth service.
func New(repo repository.UserStore, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, repository.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, repository.User{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, repository.User{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return TokenPair{}, repository.User{}, err
	}
	return pair, user, nil
}

// Refresh validates a refresh token and issues a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parseToken(refreshToken, s.cfg.GetJWTRefreshSecret())
	if err != nil {
		return TokenPair{}, apperr.Unauthorized(msgInvalidToken)
	}
	if tokenType, _ := claims["type"].(string); tokenType != refreshTokenType {
		return TokenPair{}, apperr.Unauthorized(msgInvalidToken)
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized(msgInvalidToken)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized(msgInvalidToken)
	}

	return s.issueTokens(user)
}

// Me retrieves the account for the authenticated user.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// EnsureDefaultAdmin creates the configured admin account if no user
// with that email exists yet. A missing admin password skips seeding.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	email := s.cfg.GetAdminEmail()
	password := s.cfg.GetAdminPassword()
	if email == "" || password == "" {
		s.log.Warn("admin credentials not configured, skipping admin seed")
		return nil
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if apperr.GetKind(err) != apperr.KindNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user, err := s.repo.Create(ctx, email, "Administrator", string(hash), []string{"admin"})
	if err != nil {
		return err
	}
	s.log.Info("default admin created", "userId", user.ID, "email", user.Email)
	return nil
}

func (s *Service) issueTokens(user repository.User) (TokenPair, error) {
	accessToken, err := s.signJWT(user, accessTokenType, s.cfg.GetAccessTokenTTL(), s.cfg.GetJWTAccessSecret())
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.signJWT(user, refreshTokenType, s.cfg.GetRefreshTokenTTL(), s.cfg.GetJWTRefreshSecret())
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signJWT(user repository.User, tokenType string, ttl time.Duration, secret string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  tokenType,
		"roles": user.Roles,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}

func (s *Service) parseToken(raw, secret string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	return claims, nil
}
