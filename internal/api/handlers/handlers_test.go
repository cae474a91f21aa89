package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/wrenhall/mailsift/internal/auth"
	"github.com/wrenhall/mailsift/internal/auth/oauth"
	"github.com/wrenhall/mailsift/internal/domain/entities"
	"github.com/wrenhall/mailsift/internal/domain/repositories"
	"github.com/wrenhall/mailsift/internal/domain/services"
	"github.com/wrenhall/mailsift/internal/session"
)

const testFrontend = "http://localhost:3000"

// fakeUserRepo is a minimal in-memory UserRepository for handler tests.
type fakeUserRepo struct {
	users  map[string]*entities.User
	nextID int
	err    error // when set, every call fails with this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entities.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.ExternalID == user.ExternalID {
			return repositories.ErrDuplicateIdentity
		}
	}
	f.nextID++
	user.ID = "u-" + strconv.Itoa(f.nextID)
	for i := range user.Emails {
		user.Emails[i].ID = user.ID + "-e-" + strconv.Itoa(i)
	}
	clone := *user
	clone.Emails = append([]entities.Email(nil), user.Emails...)
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	clone.Emails = append([]entities.Email(nil), u.Emails...)
	return &clone, nil
}

func (f *fakeUserRepo) GetByExternalID(ctx context.Context, externalID string) (*entities.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ExternalID == externalID {
			clone := *u
			clone.Emails = append([]entities.Email(nil), u.Emails...)
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateEmailTags(ctx context.Context, user *entities.User) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for i := range user.Emails {
		u.Emails[i].Tag = user.Emails[i].Tag
	}
	return nil
}

// fakeProvider satisfies services.OAuthExchanger without network access.
type fakeProvider struct {
	profile *oauth.Profile
	err     error
}

func (f *fakeProvider) AuthorizationURL(state string) string {
	return "https://accounts.example/authorize?state=" + state
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, code string) (*oauth.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// failingSessionStore delegates to a real store but refuses deletes.
type failingSessionStore struct {
	session.Store
	deleteErr error
}

func (f *failingSessionStore) Delete(sessionID string) error {
	return f.deleteErr
}

// testEnv bundles everything a handler test needs.
type testEnv struct {
	handler    *Handler
	repo       *fakeUserRepo
	provider   *fakeProvider
	jwtManager *auth.JWTManager
	sessions   session.Store
	cookies    *session.CookieManager
}

func newTestEnv() *testEnv {
	return newTestEnvWithSessions(session.NewMemoryStore())
}

func newTestEnvWithSessions(sessions session.Store) *testEnv {
	repo := newFakeUserRepo()
	provider := &fakeProvider{profile: &oauth.Profile{Subject: "g-123", Name: "Ada"}}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	cookies := session.NewCookieManager([]byte("0123456789abcdef0123456789abcdef"))

	h := New(
		services.NewAuthService(repo, provider),
		services.NewEmailService(repo),
		jwtManager,
		sessions,
		cookies,
		testFrontend,
	)

	return &testEnv{
		handler:    h,
		repo:       repo,
		provider:   provider,
		jwtManager: jwtManager,
		sessions:   sessions,
		cookies:    cookies,
	}
}
