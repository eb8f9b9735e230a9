package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

func seedUser(t *testing.T, repo *stubUserRepo, email string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{Email: email, Role: domain.RoleLifeguard})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func reload(t *testing.T, repo *stubUserRepo, id string) *domain.User {
	t.Helper()
	u, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return u
}

func TestGenerateCode_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode: %v", err)
		}
		n, err := strconv.Atoi(code)
		if err != nil || len(code) != 6 || n < 100000 || n > 999999 {
			t.Fatalf("code %q out of range", code)
		}
	}
}

func TestOneTimeCodeIssuer_Issue_PersistenceFailure(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "a@x.com")
	repo.setCodeErr = errBoom
	mailer := &stubMailer{}

	issuer := NewOneTimeCodeIssuer(repo, mailer, nil, OneTimeCodeConfig{}, zerolog.Nop())
	if _, err := issuer.Issue(context.Background(), user); !errors.Is(err, errBoom) {
		t.Fatalf("expected persistence error to propagate, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("nothing should be mailed when the code was not stored")
	}
}

func TestOneTimeCodeIssuer_Issue_ReplacesPendingCode(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "a@x.com")
	mailer := &stubMailer{}
	issuer := NewOneTimeCodeIssuer(repo, mailer, nil, OneTimeCodeConfig{}, zerolog.Nop())

	first, _ := issuer.Issue(context.Background(), user)
	second, _ := issuer.Issue(context.Background(), user)
	if first == second {
		t.Skip("codes collided; nothing to assert")
	}

	if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), first); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("superseded code must be rejected, got %v", err)
	}
	if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), second); err != nil {
		t.Fatalf("latest code rejected: %v", err)
	}
}

func TestOneTimeCodeIssuer_Verify_Expired(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "a@x.com")
	issuer := NewOneTimeCodeIssuer(repo, &stubMailer{}, nil, OneTimeCodeConfig{TTL: 5 * time.Minute}, zerolog.Nop())

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }
	code, err := issuer.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	issuer.now = func() time.Time { return now.Add(5*time.Minute + time.Second) }
	if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), code); !errors.Is(err, domain.ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
	if reload(t, repo, user.ID).OneTimeCode != nil {
		t.Fatalf("expired code should be cleared")
	}
}

func TestOneTimeCodeIssuer_Verify_ExpiredKeepsNewerCode(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "a@x.com")
	issuer := NewOneTimeCodeIssuer(repo, &stubMailer{}, nil, OneTimeCodeConfig{TTL: time.Minute}, zerolog.Nop())

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }
	stale, err := issuer.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	staleUser := reload(t, repo, user.ID)

	// A second login lands after the first code expired but before the stale
	// verification finishes.
	issuer.now = func() time.Time { return now.Add(2 * time.Minute) }
	fresh, err := issuer.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := issuer.Verify(context.Background(), staleUser, stale); !errors.Is(err, domain.ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
	if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), fresh); err != nil {
		t.Fatalf("newer code must survive the stale expiry, got %v", err)
	}
}

func TestOneTimeCodeIssuer_Verify_TooManyAttemptsKeepsNewerCode(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "a@x.com")
	attempts := newStubAttempts()
	issuer := NewOneTimeCodeIssuer(repo, &stubMailer{}, attempts, OneTimeCodeConfig{MaxAttempts: 1}, zerolog.Nop())

	if _, err := issuer.Issue(context.Background(), user); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	staleUser := reload(t, repo, user.ID)
	key := attemptKey(user.ID)

	fresh, err := issuer.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	attempts.counts[key] = 1

	if err := issuer.Verify(context.Background(), staleUser, "111111"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if reload(t, repo, user.ID).OneTimeCode == nil {
		t.Fatalf("newer code must not be discarded by a stale request")
	}

	delete(attempts.counts, key)
	if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), fresh); err != nil {
		t.Fatalf("newer code rejected: %v", err)
	}
}

func TestOneTimeCodeIssuer_Verify_TooManyAttempts(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "a@x.com")
	attempts := newStubAttempts()
	issuer := NewOneTimeCodeIssuer(repo, &stubMailer{}, attempts, OneTimeCodeConfig{MaxAttempts: 3}, zerolog.Nop())

	code, _ := issuer.Issue(context.Background(), user)
	for i := 0; i < 3; i++ {
		if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), "111111"); !errors.Is(err, domain.ErrInvalidCode) {
			t.Fatalf("attempt %d: expected ErrInvalidCode, got %v", i, err)
		}
	}

	if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), code); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if reload(t, repo, user.ID).OneTimeCode != nil {
		t.Fatalf("code should be discarded after too many attempts")
	}
}

func TestOneTimeCodeIssuer_Verify_CounterUnavailable(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "a@x.com")
	attempts := newStubAttempts()
	issuer := NewOneTimeCodeIssuer(repo, &stubMailer{}, attempts, OneTimeCodeConfig{}, zerolog.Nop())

	code, _ := issuer.Issue(context.Background(), user)
	attempts.err = errBoom

	if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), code); err != nil {
		t.Fatalf("verification should proceed without the counter, got %v", err)
	}
}

func TestOneTimeCodeIssuer_Verify_BoundToEmail(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "a@x.com")
	issuer := NewOneTimeCodeIssuer(repo, &stubMailer{}, nil, OneTimeCodeConfig{}, zerolog.Nop())

	code, _ := issuer.Issue(context.Background(), user)
	_ = repo.UpdateProfile(context.Background(), user.ID, "", "new@x.com", "")

	if err := issuer.Verify(context.Background(), reload(t, repo, user.ID), code); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("code must only validate for the address it was sent to, got %v", err)
	}
}
