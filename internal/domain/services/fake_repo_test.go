package services

import (
	"context"
	"strconv"
	"sync"

	"github.com/wrenhall/mailsift/internal/domain/entities"
	"github.com/wrenhall/mailsift/internal/domain/repositories"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*entities.User // keyed by internal id
	nextID  int
	created int

	// raceWinner, when set, is committed under the covers at the start of
	// the next Create, simulating a near-simultaneous login winning the
	// insert. The Create then reports a duplicate.
	raceWinner *entities.User

	err error // when set, every call fails with this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entities.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.raceWinner != nil {
		winner := f.raceWinner
		f.raceWinner = nil
		f.insertLocked(winner)
	}
	for _, u := range f.users {
		if u.ExternalID == user.ExternalID {
			return repositories.ErrDuplicateIdentity
		}
	}
	f.insertLocked(user)
	return nil
}

func (f *fakeUserRepo) insertLocked(user *entities.User) {
	f.nextID++
	f.created++
	user.ID = "u-" + strconv.Itoa(f.nextID)
	for i := range user.Emails {
		user.Emails[i].ID = user.ID + "-e-" + strconv.Itoa(i)
	}
	stored := *user
	stored.Emails = append([]entities.Email(nil), user.Emails...)
	f.users[user.ID] = &stored
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (f *fakeUserRepo) GetByExternalID(ctx context.Context, externalID string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ExternalID == externalID {
			return copyUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateEmailTags(ctx context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func copyUser(u *entities.User) *entities.User {
	c := *u
	c.Emails = append([]entities.Email(nil), u.Emails...)
	return &c
}
