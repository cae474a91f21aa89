package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wrenhall/mailsift/internal/domain/entities"
	"github.com/wrenhall/mailsift/internal/domain/repositories"
	"github.com/wrenhall/mailsift/internal/pkg/textutil"
)

// EmailService provides business logic for the per-user email collection
type EmailService struct {
	userRepo repositories.UserRepository
	log      *slog.Logger
}

// NewEmailService creates a new email service
func NewEmailService(userRepo repositories.UserRepository) *EmailService {
	return &EmailService{
		userRepo: userRepo,
		log:      slog.Default().With(slog.String("service", "email")),
	}
}

// List returns the user's full email sequence in stored order
func (s *EmailService) List(ctx context.Context, userID string) ([]entities.Email, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Emails, nil
}

// Classify applies the keyword rule to the first min(n, len) emails in
// stored order, persists the updated record, and returns the full sequence.
// Concurrent calls for the same user are not serialized; the last save
// wins.
func (s *EmailService) Classify(ctx context.Context, userID string, n int) ([]entities.Email, error) {
	if n <= 0 {
		return nil, ErrInvalidEmailCount
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := n
	if count > len(user.Emails) {
		count = len(user.Emails)
	}
	if count == 0 {
		return nil, ErrNoEmailsToClassify
	}

	for i := 0; i < count; i++ {
		user.Emails[i].Tag = textutil.ClassifyBody(user.Emails[i].Body)
	}

	if err := s.userRepo.UpdateEmailTags(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save classification: %w", err)
	}

	s.log.Info("emails classified",
		slog.String("user_id", userID),
		slog.Int("requested", n),
		slog.Int("classified", count))

	return user.Emails, nil
}
