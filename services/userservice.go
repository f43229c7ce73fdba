package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"
	"golang.org/x/crypto/bcrypt"

	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user account is not active")
	ErrPasswordManaged    = errors.New("password is managed by the identity provider")
)

type UserService struct {
	users  repository.UserRepository
	tokens *TokenService
	clk    clock.Clock
}

func NewUserService(users repository.UserRepository, tokens *TokenService, clk clock.Clock) *UserService {
	return &UserService{users: users, tokens: tokens, clk: clk}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Signup(ctx context.Context, name, email, password string) (model.User, error) {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, fmt.Errorf("check existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.clk.Now()
	u := model.User{
		UserID:    uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  string(hashed),
		Role:      model.RoleUser,
		Active:    "1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UserService) Signin(ctx context.Context, email, password string) (model.User, dto.TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, dto.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, dto.TokenPair{}, err
	}
	if u.Password == model.FirebasePassword {
		return model.User{}, dto.TokenPair{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return model.User{}, dto.TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return model.User{}, dto.TokenPair{}, ErrInactiveUser
	}

	pair, err := s.issue(ctx, u)
	if err != nil {
		return model.User{}, dto.TokenPair{}, err
	}
	return u, pair, nil
}

// issue creates a token pair and stores the hashed refresh token, replacing the previous one.
func (s *UserService) issue(ctx context.Context, u model.User) (dto.TokenPair, error) {
	access, err := s.tokens.CreateAccessToken(u)
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("create access token: %w", err)
	}
	refresh, err := s.tokens.CreateRefreshToken(u.UserID)
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("create refresh token: %w", err)
	}
	hashed, err := HashRefreshToken(refresh)
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("hash refresh token: %w", err)
	}

	rec := model.RefreshTokenRecord{
		UserID:       u.UserID,
		RefreshToken: hashed,
		CreatedAt:    s.clk.Now().Unix(),
		ExpiresIn:    int64(s.tokens.RefreshTTL().Seconds()),
	}
	if err := s.users.SaveRefreshToken(ctx, rec); err != nil {
		return dto.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Refresh exchanges a valid, current refresh token for a new pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (dto.TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return dto.TokenPair{}, err
	}
	rec, err := s.users.RefreshToken(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return dto.TokenPair{}, ErrInvalidToken
	}
	if err != nil {
		return dto.TokenPair{}, err
	}
	if rec.Revoked || CompareRefreshToken(rec.RefreshToken, refreshToken) != nil {
		return dto.TokenPair{}, ErrInvalidToken
	}

	u, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return dto.TokenPair{}, err
	}
	if !u.IsActive() {
		return dto.TokenPair{}, ErrInactiveUser
	}
	return s.issue(ctx, u)
}

func (s *UserService) Profile(ctx context.Context) (model.User, error) {
	p, err := session.Require(ctx)
	if err != nil {
		return model.User{}, err
	}
	return s.users.Get(ctx, p.UserID)
}

// UpdateProfile changes the name and, when given, the password of the current user.
func (s *UserService) UpdateProfile(ctx context.Context, name, password string) (model.User, error) {
	u, err := s.Profile(ctx)
	if err != nil {
		return model.User{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}
	if password != "" {
		if u.Password == model.FirebasePassword {
			return model.User{}, ErrPasswordManaged
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.Password = string(hashed)
	}
	u.UpdatedAt = s.clk.Now()
	if err := s.users.Update(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Upsert records the profile of a user authenticated by the identity
// provider. It reports whether the user was created.
func (s *UserService) Upsert(ctx context.Context) (model.User, bool, error) {
	p, err := session.Require(ctx)
	if err != nil {
		return model.User{}, false, err
	}

	u, err := s.users.Get(ctx, p.UserID)
	switch {
	case err == nil:
		if !u.IsActive() {
			return model.User{}, false, ErrInactiveUser
		}
		changed := false
		if p.Email != "" && u.Email != normalizeEmail(p.Email) {
			u.Email = normalizeEmail(p.Email)
			changed = true
		}
		if p.Name != "" && u.Name != p.Name {
			u.Name = p.Name
			changed = true
		}
		if changed {
			u.UpdatedAt = s.clk.Now()
			if err := s.users.Update(ctx, u); err != nil {
				return model.User{}, false, err
			}
		}
		return u, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return model.User{}, false, err
	}

	now := s.clk.Now()
	u = model.User{
		UserID:    p.UserID,
		Name:      p.Name,
		Email:     normalizeEmail(p.Email),
		Password:  model.FirebasePassword,
		Role:      model.RoleUser,
		Active:    "1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	return s.users.Get(ctx, id)
}
