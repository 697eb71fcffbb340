package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const codeDigits = 6

// ErrCodeMismatch indicates the supplied verification code is wrong or has
// already expired.
var ErrCodeMismatch = errors.New("verification code mismatch or expired")

// CodeStore issues and verifies short-lived email verification codes. It is
// an explicit store with an injected lifecycle rather than process-global
// state, so multiple instances can share one backend.
type CodeStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

type redisCodeStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCodeStore builds a redis-backed code store. Codes expire after ttl.
func NewRedisCodeStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) CodeStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &redisCodeStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "code_store").Logger(),
	}
}

func (s *redisCodeStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}

	if err := s.client.Set(ctx, codeKey(email), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store verification code: %w", err)
	}

	s.logger.Debug().Str("email", email).Msg("verification code issued")
	return code, nil
}

func (s *redisCodeStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}
	if err != nil {
		return fmt.Errorf("load verification code: %w", err)
	}

	if stored != code {
		return ErrCodeMismatch
	}

	// One-shot: a verified code cannot be replayed.
	if err := s.client.Del(ctx, codeKey(email)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("failed to delete used verification code")
	}

	return nil
}

func codeKey(email string) string {
	return "acadmate:verification:" + email
}

func randomCode() (string, error) {
	upper := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		upper.Mul(upper, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
