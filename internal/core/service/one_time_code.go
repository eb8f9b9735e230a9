package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/ports"
	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/pkg/metrics"
)

const (
	DefaultCodeTTL         = 10 * time.Minute
	DefaultMaxCodeAttempts = 5

	codeSubject = "Your 2FA Code"
	codeMin     = 100000
	codeSpan    = 900000 // codes are drawn from [codeMin, codeMin+codeSpan)
)

// AttemptCounter abstracts the verification attempt store (Redis).
type AttemptCounter interface {
	// Increment bumps the counter under key and returns the new value. The
	// counter disappears after window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// OneTimeCodeConfig tunes the issuer. Zero values select the defaults.
type OneTimeCodeConfig struct {
	TTL         time.Duration
	MaxAttempts int
}

// OneTimeCodeIssuer generates, stores, delivers and redeems the emailed
// second-factor codes.
type OneTimeCodeIssuer struct {
	users       ports.UserRepository
	mailer      ports.Mailer
	attempts    AttemptCounter
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
	log         zerolog.Logger
}

func NewOneTimeCodeIssuer(
	users ports.UserRepository,
	mailer ports.Mailer,
	attempts AttemptCounter,
	cfg OneTimeCodeConfig,
	log zerolog.Logger,
) *OneTimeCodeIssuer {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCodeTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxCodeAttempts
	}
	return &OneTimeCodeIssuer{
		users:       users,
		mailer:      mailer,
		attempts:    attempts,
		ttl:         cfg.TTL,
		maxAttempts: cfg.MaxAttempts,
		now:         time.Now,
		log:         log,
	}
}

// Issue stores a new code for user and mails it. The stored code replaces any
// pending one. A persistence failure is returned as is; a delivery failure is
// returned wrapped in domain.ErrMailDelivery, with the code left in place so a
// delayed message can still be redeemed.
func (o *OneTimeCodeIssuer) Issue(ctx context.Context, user *domain.User) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("issue code: %w", err)
	}

	now := o.now().UTC()
	pending := domain.OneTimeCode{
		Hash:      hashCode(user.ID, user.Email, code),
		IssuedAt:  now,
		ExpiresAt: now.Add(o.ttl),
	}
	if err := o.users.SetOneTimeCode(ctx, user.ID, pending); err != nil {
		return "", fmt.Errorf("issue code: %w", err)
	}
	metrics.OneTimeCodesIssuedTotal.Inc()

	// A new code gets a fresh attempt budget.
	o.resetAttempts(ctx, user.ID)

	start := time.Now()
	if err := o.mailer.Send(ctx, user.Email, codeSubject, "Code: "+code); err != nil {
		metrics.MailSendDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		o.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to deliver one-time code")
		return "", fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}
	metrics.MailSendDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	o.log.Info().Str("user_id", user.ID).Time("expires_at", pending.ExpiresAt).Msg("one-time code sent")
	return code, nil
}

// Verify redeems code for user. On success the code is consumed and cannot be
// used again.
func (o *OneTimeCodeIssuer) Verify(ctx context.Context, user *domain.User, code string) error {
	pending := user.OneTimeCode

	if o.attempts != nil {
		n, err := o.attempts.Increment(ctx, attemptKey(user.ID), o.ttl)
		if err != nil {
			o.log.Warn().Err(err).Str("user_id", user.ID).Msg("attempt counter unavailable, verifying anyway")
		} else if n > int64(o.maxAttempts) {
			if pending != nil {
				o.discard(ctx, user.ID, pending.Hash)
			}
			metrics.OneTimeCodeVerificationsTotal.WithLabelValues("too_many_attempts").Inc()
			return domain.ErrTooManyAttempts
		}
	}

	if pending == nil || pending.Hash == "" {
		metrics.OneTimeCodeVerificationsTotal.WithLabelValues("invalid").Inc()
		return domain.ErrInvalidCode
	}

	if pending.Expired(o.now()) {
		o.discard(ctx, user.ID, pending.Hash)
		metrics.OneTimeCodeVerificationsTotal.WithLabelValues("expired").Inc()
		return domain.ErrCodeExpired
	}

	hash := hashCode(user.ID, user.Email, code)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(pending.Hash)) != 1 {
		metrics.OneTimeCodeVerificationsTotal.WithLabelValues("invalid").Inc()
		return domain.ErrInvalidCode
	}

	consumed, err := o.users.ConsumeOneTimeCode(ctx, user.ID, hash)
	if err != nil {
		return fmt.Errorf("verify code: %w", err)
	}
	if !consumed {
		// Redeemed by a concurrent request.
		metrics.OneTimeCodeVerificationsTotal.WithLabelValues("invalid").Inc()
		return domain.ErrInvalidCode
	}

	o.resetAttempts(ctx, user.ID)
	metrics.OneTimeCodeVerificationsTotal.WithLabelValues("success").Inc()
	return nil
}

// discard drops the pending code only while it is still the one identified by
// hash. A code issued by a concurrent login stays in place.
func (o *OneTimeCodeIssuer) discard(ctx context.Context, userID, hash string) {
	if _, err := o.users.ConsumeOneTimeCode(ctx, userID, hash); err != nil {
		o.log.Warn().Err(err).Str("user_id", userID).Msg("failed to clear one-time code")
	}
}

func (o *OneTimeCodeIssuer) resetAttempts(ctx context.Context, userID string) {
	if o.attempts == nil {
		return
	}
	if err := o.attempts.Reset(ctx, attemptKey(userID)); err != nil {
		o.log.Warn().Err(err).Str("user_id", userID).Msg("failed to reset attempt counter")
	}
}

// generateCode returns a uniformly random 6-digit code without a leading zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", codeMin+n.Int64()), nil
}

// hashCode binds a code to the user and the address it was sent to.
func hashCode(userID, email, code string) string {
	sum := sha256.Sum256([]byte(userID + ":" + email + ":" + code))
	return hex.EncodeToString(sum[:])
}

func attemptKey(userID string) string {
	return "otp:attempts:" + userID
}
