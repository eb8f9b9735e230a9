package ports

import (
	"context"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

// UserRepository is the credential store. Emails passed in are already
// normalized.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// UpdateCredentials replaces the password hash and bumps the session
	// version, revoking every session token issued before the call. It
	// returns the new session version.
	UpdateCredentials(ctx context.Context, userID, passwordHash string) (int, error)
	UpdateProfile(ctx context.Context, userID, name, email, telephone string) error

	SetOneTimeCode(ctx context.Context, userID string, code domain.OneTimeCode) error
	ClearOneTimeCode(ctx context.Context, userID string) error
	// ConsumeOneTimeCode atomically removes the pending code when its hash
	// equals hash. It reports whether this call removed it.
	ConsumeOneTimeCode(ctx context.Context, userID, hash string) (bool, error)
}
