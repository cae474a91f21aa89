package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenhall/mailsift/internal/domain/entities"
	"github.com/wrenhall/mailsift/internal/domain/repositories"
)

func seedUser(t *testing.T, repo *fakeUserRepo) *entities.User {
	t.Helper()
	user := &entities.User{ExternalID: "g-123", DisplayName: "Ada", Emails: entities.SeedEmails()}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestList(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	svc := NewEmailService(repo)

	emails, err := svc.List(context.Background(), user.ID)
	require.NoError(t, err)

	require.Len(t, emails, 3)
	assert.Equal(t, "Welcome Email", emails[0].Subject)
	assert.Equal(t, "Sale Alert", emails[1].Subject)
	assert.Equal(t, "Urgent Update", emails[2].Subject)
	for _, e := range emails {
		assert.Equal(t, entities.TagUncategorized, e.Tag)
	}
}

func TestList_UserNotFound(t *testing.T) {
	svc := NewEmailService(newFakeUserRepo())

	_, err := svc.List(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestClassify(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	svc := NewEmailService(repo)

	emails, err := svc.Classify(context.Background(), user.ID, 2)
	require.NoError(t, err)

	// First two classified in stored order, third untouched.
	require.Len(t, emails, 3)
	assert.Equal(t, entities.TagOther, emails[0].Tag) // "Hello, this is a test."
	assert.Equal(t, entities.TagMarketing, emails[1].Tag)
	assert.Equal(t, entities.TagUncategorized, emails[2].Tag)

	// Mutation persisted.
	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TagMarketing, stored.Emails[1].Tag)
}

func TestClassify_FirstTwoScenario(t *testing.T) {
	repo := newFakeUserRepo()
	user := &entities.User{
		ExternalID:  "g-123",
		DisplayName: "Ada",
		Emails: []entities.Email{
			{Subject: "Sale Alert", Body: "Big sale on products!", Tag: entities.TagUncategorized},
			{Subject: "Urgent Update", Body: "Action required urgently.", Tag: entities.TagUncategorized},
		},
	}
	require.NoError(t, repo.Create(context.Background(), user))
	svc := NewEmailService(repo)

	emails, err := svc.Classify(context.Background(), user.ID, 2)
	require.NoError(t, err)

	require.Len(t, emails, 2)
	assert.Equal(t, entities.TagMarketing, emails[0].Tag)
	assert.Equal(t, entities.TagImportant, emails[1].Tag)
}

func TestClassify_CountLargerThanCollection(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	svc := NewEmailService(repo)

	emails, err := svc.Classify(context.Background(), user.ID, 100)
	require.NoError(t, err)

	for _, e := range emails {
		assert.NotEqual(t, entities.TagUncategorized, e.Tag)
	}
}

func TestClassify_InvalidCount(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	svc := NewEmailService(repo)

	for _, n := range []int{0, -1} {
		_, err := svc.Classify(context.Background(), user.ID, n)
		assert.ErrorIs(t, err, ErrInvalidEmailCount)
	}

	// No mutation happened.
	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	for _, e := range stored.Emails {
		assert.Equal(t, entities.TagUncategorized, e.Tag)
	}
}

func TestClassify_EmptyCollection(t *testing.T) {
	repo := newFakeUserRepo()
	user := &entities.User{ExternalID: "g-123", DisplayName: "Ada"}
	require.NoError(t, repo.Create(context.Background(), user))
	svc := NewEmailService(repo)

	_, err := svc.Classify(context.Background(), user.ID, 5)
	assert.ErrorIs(t, err, ErrNoEmailsToClassify)
}

func TestClassify_Idempotent(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	svc := NewEmailService(repo)

	first, err := svc.Classify(context.Background(), user.ID, 3)
	require.NoError(t, err)

	second, err := svc.Classify(context.Background(), user.ID, 3)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Tag, second[i].Tag)
	}
}

func TestClassify_UserNotFound(t *testing.T) {
	svc := NewEmailService(newFakeUserRepo())

	_, err := svc.Classify(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestClassify_StorageFailure(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	repo.err = errors.New("connection refused")
	svc := NewEmailService(repo)

	_, err := svc.Classify(context.Background(), user.ID, 1)
	require.Error(t, err)
}
