package domain

import "context"

// PolicyRequire2FAKey is the settings key holding the global enforcement flag.
const PolicyRequire2FAKey = "security.require_2fa"

// EnforcementState is the result of an access check against the 2FA policy.
type EnforcementState int

const (
	// StateNotRequired means the global policy does not mandate 2FA.
	StateNotRequired EnforcementState = iota
	// StateRequiredNotEnrolled means the account must complete 2FA setup
	// before accessing protected functionality.
	StateRequiredNotEnrolled
	// StateRequiredEnrolled means the account satisfies the mandatory policy.
	StateRequiredEnrolled
)

// String returns the state name.
func (s EnforcementState) String() string {
	switch s {
	case StateNotRequired:
		return "NOT_REQUIRED"
	case StateRequiredNotEnrolled:
		return "REQUIRED_NOT_ENROLLED"
	case StateRequiredEnrolled:
		return "REQUIRED_ENROLLED"
	default:
		return "UNKNOWN"
	}
}

// EvaluateEnforcement derives the enforcement state from the two current
// flag values. It is a pure decision function: callers re-evaluate it on
// every access check from freshly read flags, never from cached ones.
func EvaluateEnforcement(required, enabled bool) EnforcementState {
	switch {
	case !required:
		return StateNotRequired
	case enabled:
		return StateRequiredEnrolled
	default:
		return StateRequiredNotEnrolled
	}
}

// PolicyRepository defines the interface for the global policy flag.
type PolicyRepository interface {
	// IsTwoFactorRequired reads the flag. A missing setting reads as false.
	IsTwoFactorRequired(ctx context.Context) (bool, error)
	// SetTwoFactorRequired toggles the flag.
	SetTwoFactorRequired(ctx context.Context, required bool) error
}

// PolicyWatcher surfaces out-of-band policy changes pushed by an external
// notification channel. The transport behind it is not this engine's
// concern; consumers that hold no sessions open can ignore it entirely and
// rely on per-request re-evaluation.
type PolicyWatcher interface {
	// Watch delivers the new flag value after each administrative toggle
	// until ctx is done.
	Watch(ctx context.Context) (<-chan bool, error)
}

// EnforcementService re-evaluates the 2FA policy on each access check.
type EnforcementService interface {
	IsPolicyRequired(ctx context.Context) (bool, error)
	SetPolicyRequired(ctx context.Context, required bool) error
	// Evaluate reads both flags fresh and derives the enforcement state.
	// When either read fails it returns StateRequiredNotEnrolled together
	// with the error, so callers block rather than bypass enforcement.
	Evaluate(ctx context.Context, accountID string) (EnforcementState, error)
}
