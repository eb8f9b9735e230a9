package ports

import (
	"context"
	"time"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

// SignupInput carries the fields submitted on account creation.
type SignupInput struct {
	Name              string
	Email             string
	Password          string
	Telephone         string
	SecurityQuestion1 string
	SecurityAnswer1   string
	SecurityQuestion2 string
	SecurityAnswer2   string
	Role              string
}

// Session is a freshly issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SecurityQuestions are returned by the first step of password recovery.
type SecurityQuestions struct {
	Question1 string
	Question2 string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	// Login checks the password and, on success, emails a one-time code.
	Login(ctx context.Context, email, password string) error
	VerifyCode(ctx context.Context, email, code string) (*Session, error)
	// Authenticate resolves a session token to the id of its user.
	Authenticate(ctx context.Context, token string) (string, error)

	ForgotPassword(ctx context.Context, email string) (*SecurityQuestions, error)
	ResetPassword(ctx context.Context, email, answer1, answer2, newPassword string) error

	UpdateAccount(ctx context.Context, userID, name, email, telephone string) error
	// ChangePassword returns a replacement session for the caller, since the
	// change revokes every earlier token.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (*Session, error)
}
