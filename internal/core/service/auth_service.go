package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/pkg/metrics"
)

// AuthService implements signup, two-step login, session resolution, account
// maintenance and answer-based password recovery.
type AuthService struct {
	users  ports.UserRepository
	hasher PasswordHasher
	codes  *OneTimeCodeIssuer
	tokens *SessionTokens
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	hasher PasswordHasher,
	codes *OneTimeCodeIssuer,
	tokens *SessionTokens,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, codes: codes, tokens: tokens, log: log}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.SecurityQuestion1) == "" || strings.TrimSpace(in.SecurityQuestion2) == "" ||
		in.SecurityAnswer1 == "" || in.SecurityAnswer2 == "" {
		return nil, fmt.Errorf("%w: two security questions and answers are required", domain.ErrInvalidInput)
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	answer1, err := s.hasher.Hash(in.SecurityAnswer1)
	if err != nil {
		return nil, err
	}
	answer2, err := s.hasher.Hash(in.SecurityAnswer2)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:                strings.TrimSpace(in.Name),
		Email:               email,
		Telephone:           strings.TrimSpace(in.Telephone),
		PasswordHash:        passwordHash,
		SecurityQuestion1:   strings.TrimSpace(in.SecurityQuestion1),
		SecurityQuestion2:   strings.TrimSpace(in.SecurityQuestion2),
		SecurityAnswerHash1: answer1,
		SecurityAnswerHash2: answer2,
		Role:                role,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login verifies the password and emails a one-time code. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Spend the same bcrypt work as a real check.
			s.hasher.Verify(password, s.dummy())
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return domain.ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		s.log.Info().Str("user_id", user.ID).Msg("login rejected: bad password")
		return domain.ErrInvalidCredentials
	}

	if _, err := s.codes.Issue(ctx, user); err != nil {
		if errors.Is(err, domain.ErrMailDelivery) {
			metrics.LoginAttemptsTotal.WithLabelValues("delivery_failed").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("code_sent").Inc()
	return nil
}

// VerifyCode redeems the emailed code and opens a session.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (*ports.Session, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, fmt.Errorf("verify code: %w", err)
	}

	if err := s.codes.Verify(ctx, user, strings.TrimSpace(code)); err != nil {
		return nil, err
	}

	return s.openSession(user.ID, user.SessionVersion)
}

// Authenticate resolves token to a user id. Tokens that predate the user's
// last credential change, or whose user no longer exists, are invalid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if user.SessionVersion != claims.Version {
		return "", domain.ErrInvalidToken
	}

	return user.ID, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ports.SecurityQuestions, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return &ports.SecurityQuestions{
		Question1: user.SecurityQuestion1,
		Question2: user.SecurityQuestion2,
	}, nil
}

// ResetPassword replaces the password when both security answers match.
// Existing sessions are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, email, answer1, answer2, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PasswordResetsTotal.WithLabelValues("answer_mismatch").Inc()
			return domain.ErrAnswerMismatch
		}
		return fmt.Errorf("reset password: %w", err)
	}

	// Both answers are always checked so timing does not reveal which failed.
	ok1 := s.hasher.Verify(answer1, user.SecurityAnswerHash1)
	ok2 := s.hasher.Verify(answer2, user.SecurityAnswerHash2)
	if !ok1 || !ok2 {
		metrics.PasswordResetsTotal.WithLabelValues("answer_mismatch").Inc()
		s.log.Info().Str("user_id", user.ID).Msg("password reset rejected: answer mismatch")
		return domain.ErrAnswerMismatch
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.UpdateCredentials(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if user.OneTimeCode != nil {
		if err := s.users.ClearOneTimeCode(ctx, user.ID); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to clear one-time code after reset")
		}
	}

	metrics.PasswordResetsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *AuthService) UpdateAccount(ctx context.Context, userID, name, email, telephone string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	if err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(name), email, strings.TrimSpace(telephone)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("account updated")
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (*ports.Session, error) {
	if newPassword == "" {
		return nil, fmt.Errorf("%w: new password is required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	version, err := s.users.UpdateCredentials(ctx, user.ID, hash)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	return s.openSession(user.ID, version)
}

func (s *AuthService) openSession(userID string, version int) (*ports.Session, error) {
	token, exp, err := s.tokens.Issue(userID, version)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Time("expires_at", exp).Msg("session issued")
	return &ports.Session{Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("patrolpeak-timing-equaliser")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
