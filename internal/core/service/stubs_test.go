package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int

	setCodeErr error
	findErr    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.OneTimeCode != nil {
		code := *u.OneTimeCode
		clone.OneTimeCode = &code
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[created.ID] = created
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateCredentials(_ context.Context, userID, passwordHash string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.SessionVersion++
	return u.SessionVersion, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, userID, name, email, telephone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for id, other := range r.byID {
		if id != userID && other.Email == email {
			return domain.ErrUserExists
		}
	}
	u.Name, u.Email, u.Telephone = name, email, telephone
	return nil
}

func (r *stubUserRepo) SetOneTimeCode(_ context.Context, userID string, code domain.OneTimeCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setCodeErr != nil {
		return r.setCodeErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.OneTimeCode = &code
	return nil
}

func (r *stubUserRepo) ClearOneTimeCode(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.OneTimeCode = nil
	}
	return nil
}

func (r *stubUserRepo) ConsumeOneTimeCode(_ context.Context, userID, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok || u.OneTimeCode == nil || u.OneTimeCode.Hash != hash {
		return false, nil
	}
	u.OneTimeCode = nil
	return true, nil
}

// ---------------------------------------------------------------------------
// Mail and attempt counter
// ---------------------------------------------------------------------------

type sentMail struct {
	to, subject, body string
}

type stubMailer struct {
	err  error
	sent []sentMail
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// lastCode extracts the code from the most recent "Code: NNNNNN" mail.
func (m *stubMailer) lastCode() string {
	if len(m.sent) == 0 {
		return ""
	}
	var code string
	_, _ = fmt.Sscanf(m.sent[len(m.sent)-1].body, "Code: %s", &code)
	return code
}

type stubAttempts struct {
	counts map[string]int64
	err    error
}

func newStubAttempts() *stubAttempts {
	return &stubAttempts{counts: make(map[string]int64)}
}

func (a *stubAttempts) Increment(_ context.Context, key string, _ time.Duration) (int64, error) {
	if a.err != nil {
		return 0, a.err
	}
	a.counts[key]++
	return a.counts[key], nil
}

func (a *stubAttempts) Reset(_ context.Context, key string) error {
	if a.err != nil {
		return a.err
	}
	delete(a.counts, key)
	return nil
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

type stubItemRepo struct {
	items  map[string]*domain.Item
	nextID int
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[string]*domain.Item)}
}

func (r *stubItemRepo) ListByUser(_ context.Context, userID string) ([]*domain.Item, error) {
	var out []*domain.Item
	for _, it := range r.items {
		if it.UserID == userID {
			clone := *it
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubItemRepo) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	r.nextID++
	clone := *item
	clone.ID = fmt.Sprintf("item-%03d", r.nextID)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubItemRepo) Update(_ context.Context, userID, itemID string, patch domain.ItemPatch) (*domain.Item, error) {
	it, ok := r.items[itemID]
	if !ok || it.UserID != userID {
		return nil, domain.ErrItemNotFound
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Completed != nil {
		it.Completed = *patch.Completed
	}
	if patch.Initials != nil {
		it.Initials = *patch.Initials
	}
	out := *it
	return &out, nil
}

func (r *stubItemRepo) Delete(_ context.Context, userID, itemID string) error {
	it, ok := r.items[itemID]
	if !ok || it.UserID != userID {
		return domain.ErrItemNotFound
	}
	delete(r.items, itemID)
	return nil
}

// ---------------------------------------------------------------------------
// Fixture: a fully wired AuthService over the stubs above.
// ---------------------------------------------------------------------------

type authFixture struct {
	users    *stubUserRepo
	mailer   *stubMailer
	attempts *stubAttempts
	codes    *OneTimeCodeIssuer
	tokens   *SessionTokens
	svc      *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newStubUserRepo(),
		mailer:   &stubMailer{},
		attempts: newStubAttempts(),
	}
	f.codes = NewOneTimeCodeIssuer(f.users, f.mailer, f.attempts, OneTimeCodeConfig{}, zerolog.Nop())
	f.tokens = NewSessionTokens("test-secret", time.Hour)
	f.svc = NewAuthService(f.users, NewBcryptHasher(bcrypt.MinCost), f.codes, f.tokens, zerolog.Nop())
	return f
}

var errBoom = errors.New("boom")
