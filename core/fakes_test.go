package core

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// fakeKV is a test-only KeyValue with an advanceable clock and error
// injection fields.
type fakeKV struct {
	mu      sync.Mutex
	entries map[string]*fakeEntry
	now     time.Time

	getErr    error
	setErr    error
	incrErr   error
	expireErr error
	delErr    error

	expireCalls int
}

type fakeEntry struct {
	value     string
	expiresAt time.Time
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		entries: make(map[string]*fakeEntry),
		now:     time.Now(),
	}
}

func (f *fakeKV) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fakeKV) live(key string) (*fakeEntry, bool) {
	e, ok := f.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !f.now.Before(e.expiresAt) {
		delete(f.entries, key)
		return nil, false
	}
	return e, true
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	e, ok := f.live(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return e.value, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	e := &fakeEntry{value: value}
	if ttl > 0 {
		e.expiresAt = f.now.Add(ttl)
	}
	f.entries[key] = e
	return nil
}

func (f *fakeKV) Incr(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	e, ok := f.live(key)
	if !ok {
		f.entries[key] = &fakeEntry{value: "1"}
		return 1, nil
	}
	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeKV) Expire(ctx context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireCalls++
	if f.expireErr != nil {
		return f.expireErr
	}
	if e, ok := f.live(key); ok {
		e.expiresAt = f.now.Add(ttl)
	}
	return nil
}

func (f *fakeKV) Del(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.entries, key)
	return nil
}

func (f *fakeKV) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.live(key)
	return ok
}

func (f *fakeKV) put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = &fakeEntry{value: value}
}

// fakeStorage is a test-only Storage keeping users and accounts in
// maps, enforcing email uniqueness the way the relational backend does.
type fakeStorage struct {
	mu       sync.Mutex
	users    map[string]*User // by ID
	accounts []*Account
	nextID   int

	createUserErr    error
	createAccountErr error
	lookupErr        error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{users: make(map[string]*User)}
}

func (f *fakeStorage) CreateUser(ctx context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	f.nextID++
	u.ID = "user-" + strconv.Itoa(f.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeStorage) GetUserByID(ctx context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeStorage) UpdateUser(ctx context.Context, userID string, patch UserPatch) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Image != nil {
		u.Image = patch.Image
	}
	if patch.EmailVerified != nil {
		u.EmailVerified = patch.EmailVerified
	}
	if patch.Age != nil {
		u.Age = patch.Age
	}
	if patch.Country != nil {
		u.Country = patch.Country
	}
	if patch.Bio != nil {
		u.Bio = patch.Bio
	}
	u.UpdatedAt = time.Now()
	clone := *u
	return &clone, nil
}

func (f *fakeStorage) CreateAccount(ctx context.Context, a *Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAccountErr != nil {
		return f.createAccountErr
	}
	f.nextID++
	a.ID = "account-" + strconv.Itoa(f.nextID)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	clone := *a
	f.accounts = append(f.accounts, &clone)
	return nil
}

func (f *fakeStorage) GetAccountsByUser(ctx context.Context, userID string) ([]*Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeStorage) userCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *fakeStorage) accountCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accounts)
}

// countingHasher wraps a real PasswordHandler and records invocations,
// so tests can assert the limiter short-circuits before any hashing.
type countingHasher struct {
	inner interface {
		Hash(password, salt string) (string, error)
		Verify(password, salt, storedHash string) (bool, error)
	}
	hashCalls   int
	verifyCalls int
}

func (c *countingHasher) Hash(password, salt string) (string, error) {
	c.hashCalls++
	return c.inner.Hash(password, salt)
}

func (c *countingHasher) Verify(password, salt, storedHash string) (bool, error) {
	c.verifyCalls++
	return c.inner.Verify(password, salt, storedHash)
}
