package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wrenhall/mailsift/internal/auth/oauth"
	"github.com/wrenhall/mailsift/internal/domain/entities"
	"github.com/wrenhall/mailsift/internal/domain/repositories"
	"github.com/wrenhall/mailsift/internal/pkg/metrics"
)

// OAuthExchanger redeems an authorization code for a provider profile.
// Satisfied by *oauth.Client; faked in tests.
type OAuthExchanger interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth.Profile, error)
}

// AuthService drives the OAuth exchange: code in, resolved user out.
// It is independent of the HTTP transport so the exchange state machine
// can be tested on its own.
type AuthService struct {
	userRepo repositories.UserRepository
	provider OAuthExchanger
	log      *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, provider OAuthExchanger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		provider: provider,
		log:      slog.Default().With(slog.String("service", "auth")),
	}
}

// AuthorizationURL builds the provider redirect URL for a login attempt
func (s *AuthService) AuthorizationURL(state string) string {
	return s.provider.AuthorizationURL(state)
}

// CompleteExchange redeems the authorization code and resolves the identity
// to a user record, creating one with the seeded default emails on first
// login. A lost race on create is recovered by re-reading the record the
// winner committed.
func (s *AuthService) CompleteExchange(ctx context.Context, code string) (*entities.User, error) {
	profile, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		metrics.RecordAuthExchange("failure")
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	user, err := s.resolveUser(ctx, profile)
	if err != nil {
		metrics.RecordAuthExchange("failure")
		return nil, err
	}

	metrics.RecordAuthExchange("success")
	return user, nil
}

func (s *AuthService) resolveUser(ctx context.Context, profile *oauth.Profile) (*entities.User, error) {
	user, err := s.userRepo.GetByExternalID(ctx, profile.Subject)
	if err == nil {
		s.log.Info("existing user logged in",
			slog.String("user_id", user.ID),
			slog.String("external_id", user.ExternalID))
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	name := profile.Name
	if name == "" {
		name = entities.DefaultDisplayName
	}

	user = &entities.User{
		ExternalID:  profile.Subject,
		DisplayName: name,
		Emails:      entities.SeedEmails(),
	}

	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicateIdentity) {
		// A near-simultaneous login won the create; use its record.
		s.log.Info("concurrent first login detected, re-reading user",
			slog.String("external_id", profile.Subject))
		return s.userRepo.GetByExternalID(ctx, profile.Subject)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("new user created",
		slog.String("user_id", user.ID),
		slog.String("external_id", user.ExternalID),
		slog.String("display_name", user.DisplayName))

	return user, nil
}
