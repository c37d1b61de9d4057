package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/domain"
)

// enforcementServiceImpl implements the EnforcementService interface. It is
// stateless: each access check re-reads the policy flag and the account's
// enrollment flag, so administrative toggles take effect on the next check
// with no invalidation protocol.
type enforcementServiceImpl struct {
	policy      domain.PolicyRepository
	credentials domain.CredentialRepository
	timeout     time.Duration
	logger      *zap.Logger
}

// NewEnforcementService creates a new enforcement service
func NewEnforcementService(policy domain.PolicyRepository, credentials domain.CredentialRepository, timeout time.Duration, logger *zap.Logger) domain.EnforcementService {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &enforcementServiceImpl{
		policy:      policy,
		credentials: credentials,
		timeout:     timeout,
		logger:      logger,
	}
}

// IsPolicyRequired reads the global flag. It intentionally requires no
// account context so the login flow can call it before a session exists.
func (s *enforcementServiceImpl) IsPolicyRequired(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	required, err := s.policy.IsTwoFactorRequired(ctx)
	if err != nil {
		s.logger.Error("failed to read enforcement policy", zap.Error(err))
		return false, domain.ErrPolicyUnavailable
	}
	return required, nil
}

// SetPolicyRequired toggles the global flag.
func (s *enforcementServiceImpl) SetPolicyRequired(ctx context.Context, required bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.policy.SetTwoFactorRequired(ctx, required); err != nil {
		s.logger.Error("failed to write enforcement policy",
			zap.Bool("required", required),
			zap.Error(err))
		return domain.ErrPolicyUnavailable
	}
	return nil
}

// Evaluate derives the enforcement state for an account from freshly read
// flags. A failed or timed-out read fails safe: the returned state is
// StateRequiredNotEnrolled alongside the error, so callers that only look
// at the state still block rather than bypass enforcement.
func (s *enforcementServiceImpl) Evaluate(ctx context.Context, accountID string) (domain.EnforcementState, error) {
	policyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	required, err := s.policy.IsTwoFactorRequired(policyCtx)
	if err != nil {
		s.logger.Error("enforcement check failed reading policy",
			zap.String("account_id", accountID),
			zap.Error(err))
		return domain.StateRequiredNotEnrolled, domain.ErrPolicyUnavailable
	}

	if !required {
		return domain.StateNotRequired, nil
	}

	credCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	enabled := false
	cred, err := s.credentials.GetCredential(credCtx, accountID)
	switch {
	case err == nil:
		enabled = cred.Enabled
	case errors.Is(err, domain.ErrNotProvisioned):
		// No record means not enrolled.
	default:
		s.logger.Error("enforcement check failed reading credential",
			zap.String("account_id", accountID),
			zap.Error(err))
		return domain.StateRequiredNotEnrolled, domain.ErrStoreUnavailable
	}

	return domain.EvaluateEnforcement(required, enabled), nil
}
