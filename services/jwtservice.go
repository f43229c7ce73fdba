package services

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmhodges/clock"
	"golang.org/x/crypto/bcrypt"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
	"github.com/Senorsean/crm-employ-2025-sub001/model"
)

const issuer = "anthea-crm"

var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies the HS256 access and refresh tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clk           clock.Clock
}

func NewTokenService(cfg config.Config, clk clock.Clock) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.Auth.JWTSecret),
		refreshSecret: []byte(cfg.Auth.JWTRefreshSecret),
		accessTTL:     cfg.Auth.AccessTTL,
		refreshTTL:    cfg.Auth.RefreshTTL,
		clk:           clk,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) CreateAccessToken(u model.User) (string, error) {
	now := s.clk.Now()
	claims := &model.AccessClaims{
		UserID: u.UserID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

func (s *TokenService) CreateRefreshToken(userID string) (string, error) {
	now := s.clk.Now()
	claims := &model.RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

func (s *TokenService) ParseAccessToken(token string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	if err := s.parse(token, claims, s.accessSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: userId missing", ErrInvalidToken)
	}
	return claims, nil
}

func (s *TokenService) ParseRefreshToken(token string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	if err := s.parse(token, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: userId missing", ErrInvalidToken)
	}
	return claims, nil
}

func (s *TokenService) parse(token string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.clk.Now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

// HashRefreshToken reduces the token with SHA-256 before bcrypt, which only
// reads the first 72 bytes of its input.
func HashRefreshToken(token string) (string, error) {
	hash := sha256.Sum256([]byte(token))
	hashed, err := bcrypt.GenerateFromPassword(hash[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CompareRefreshToken(hashed, token string) error {
	hash := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hashed), hash[:])
}
