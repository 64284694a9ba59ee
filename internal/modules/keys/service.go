package keys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	ctxlogger "github.com/Guizzs26/gymkey/internal/modules/pkg/logger/context"
	"github.com/google/uuid"
)

// Service encapsulates the key lifecycle: credential check, issuance and
// single-use redemption
type Service struct {
	verifier *CredentialVerifier
	keyRepo  KeyRepository
	metrics  *Metrics
	newValue func() (uuid.UUID, error)
}

// NewKeyService creates a new instance of the key Service
func NewKeyService(verifier *CredentialVerifier, keyRepo KeyRepository, metrics *Metrics) *Service {
	return &Service{
		verifier: verifier,
		keyRepo:  keyRepo,
		metrics:  metrics,
		newValue: uuid.NewRandom,
	}
}

// Issue is the use case for requesting a key. ok is false when the credentials
// do not match; that is a normal outcome and nothing is written. err is only
// ever an ErrStoreUnavailable-class failure
func (s *Service) Issue(ctx context.Context, creds Credentials) (value uuid.UUID, ok bool, err error) {
	log := ctxlogger.GetLogger(ctx)

	if !s.verifier.Verify(creds.Username, creds.Password) {
		s.metrics.denied.Inc()
		log.InfoContext(ctx, "key request denied: invalid credentials")
		return uuid.Nil, false, nil
	}

	v, err := s.newValue()
	if err != nil {
		s.metrics.storeErrors.WithLabelValues("issue").Inc()
		log.ErrorContext(ctx, "failed to generate key value", slog.String("error", err.Error()))
		return uuid.Nil, false, fmt.Errorf("failed to generate key value: %w: %w", ErrStoreUnavailable, err)
	}

	key, err := s.keyRepo.Create(ctx, v)
	if err != nil {
		s.metrics.storeErrors.WithLabelValues("issue").Inc()
		log.ErrorContext(ctx, "failed to persist key", slog.String("error", err.Error()))
		return uuid.Nil, false, storeError("failed to issue key", err)
	}

	s.metrics.issued.Inc()
	log.InfoContext(ctx, "key issued", slog.Int64("id", key.ID))
	return key.Value, true, nil
}

// Validate is the use case for redeeming a key. It returns true exactly once
// per issued key. Unknown, already redeemed and malformed values all yield
// false without distinction
func (s *Service) Validate(ctx context.Context, raw string) (bool, error) {
	log := ctxlogger.GetLogger(ctx)

	value, err := uuid.Parse(raw)
	if err != nil {
		s.metrics.misses.Inc()
		return false, nil
	}

	redeemed, err := s.keyRepo.DeleteByValue(ctx, value)
	if err != nil {
		s.metrics.storeErrors.WithLabelValues("validate").Inc()
		log.ErrorContext(ctx, "failed to redeem key", slog.String("error", err.Error()))
		return false, storeError("failed to validate key", err)
	}

	if !redeemed {
		s.metrics.misses.Inc()
		return false, nil
	}

	s.metrics.redeemed.Inc()
	log.InfoContext(ctx, "key redeemed")
	return true, nil
}

// Ping reports whether the key store is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.keyRepo.Ping(ctx)
}

// storeError keeps every repository failure in the ErrStoreUnavailable class
func storeError(msg string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrStoreUnavailable, err)
}
