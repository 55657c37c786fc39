package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfline/bookmarket/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("role must be buyer or seller")
)

type Service interface {
	Register(ctx context.Context, name, email, password string, role user.Role) (*user.User, string, error)
	Login(ctx context.Context, email, password string) (*user.User, string, error)
	Identify(ctx context.Context, token string) (Identity, error)
	Logout(ctx context.Context, token string) error
}

type service struct {
	users    user.Repository
	tokens   TokenStore
	tokenTTL time.Duration
}

func NewService(users user.Repository, tokens TokenStore, tokenTTL time.Duration) Service {
	return &service{users: users, tokens: tokens, tokenTTL: tokenTTL}
}

func (s *service) Register(ctx context.Context, name, email, password string, role user.Role) (*user.User, string, error) {
	if !role.Valid() {
		return nil, "", ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, "", fmt.Errorf("service: failed to hash password: %w", err)
	}

	u := &user.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return nil, "", user.ErrEmailExists
		}
		log.Error().Err(err).Str("email", email).Msg("service: failed to create user")
		return nil, "", fmt.Errorf("service: failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}

	log.Info().Stringer("user_id", u.ID).Str("role", u.Role.String()).Msg("service: user registered")
	return u, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("service: failed to fetch user for login")
		return nil, "", fmt.Errorf("service: failed to fetch user for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}

	log.Info().Stringer("user_id", u.ID).Msg("service: user logged in")
	return u, token, nil
}

func (s *service) Identify(ctx context.Context, token string) (Identity, error) {
	id, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Identity{}, ErrTokenNotFound
		}
		log.Error().Err(err).Msg("service: failed to resolve token")
		return Identity{}, fmt.Errorf("service: failed to resolve token: %w", err)
	}
	return id, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Delete(ctx, token); err != nil {
		log.Error().Err(err).Msg("service: failed to revoke token")
		return fmt.Errorf("service: failed to revoke token: %w", err)
	}
	return nil
}

func (s *service) issueToken(ctx context.Context, u *user.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}

	id := Identity{UserID: u.ID, Name: u.Name, Role: u.Role}
	if err := s.tokens.Save(ctx, token, id, s.tokenTTL); err != nil {
		log.Error().Err(err).Stringer("user_id", u.ID).Msg("service: failed to store token")
		return "", fmt.Errorf("service: failed to store token: %w", err)
	}
	return token, nil
}
