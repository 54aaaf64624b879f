package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-session-service/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory users.Repo for tests and local development.
type FakeUserRepo struct {
	records map[string]*users.User
	lock    sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		records: make(map[string]*users.User),
	}
}

func (ur *FakeUserRepo) Upsert(_ context.Context, email string, name *string, refreshToken *string) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	record, ok := ur.records[email]
	if !ok {
		record = &users.User{
			Email:     email,
			CreatedAt: time.Now(),
		}
		ur.records[email] = record
	}
	if name != nil {
		record.Name = name
	}
	if refreshToken != nil {
		record.RefreshToken = refreshToken
	}
	return copyUser(record), nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	record, ok := ur.records[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	return copyUser(record), nil
}

func (ur *FakeUserRepo) Rotate(_ context.Context, email, oldToken, newToken string) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	record, ok := ur.records[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	if !record.RefreshTokenMatches(oldToken) {
		return nil, users.ErrTokenMismatch
	}
	record.RefreshToken = &newToken
	record.TokenVersion++
	return copyUser(record), nil
}

func (ur *FakeUserRepo) ClearRefreshToken(_ context.Context, email string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	record, ok := ur.records[email]
	if !ok {
		return users.ErrNotFound
	}
	record.RefreshToken = nil
	return nil
}

func (ur *FakeUserRepo) Delete(_ context.Context, email string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.records[email]; !ok {
		return users.ErrNotFound
	}
	delete(ur.records, email)
	return nil
}

func copyUser(u *users.User) *users.User {
	clone := *u
	return &clone
}
