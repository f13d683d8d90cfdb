package auth

import (
	"context"
	"fmt"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/core/tx"
)

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Service provides authentication business logic.
type Service struct {
	repo      Repository
	tokens    *TokenManager
	txManager tx.Manager
}

// NewService creates an auth service.
func NewService(repo Repository, tokens *TokenManager, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		txManager: txManager,
	}
}

// Login verifies credentials and issues an access token. Failures are
// reported uniformly to avoid leaking which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, email, password, name string, role Role) (*User, error) {
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("user", "email", email)
	} else if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}

	user, err := NewUser(email, password, name, role)
	if err != nil {
		return nil, err
	}
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves an account by ID.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// Verify validates a bearer token and returns its claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	return s.tokens.Verify(tokenString)
}
