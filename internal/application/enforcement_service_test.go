package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/domain"
)

// MockPolicyRepository is a mock implementation of PolicyRepository
type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) IsTwoFactorRequired(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockPolicyRepository) SetTwoFactorRequired(ctx context.Context, required bool) error {
	args := m.Called(ctx, required)
	return args.Error(0)
}

func newEnforcementUnderTest() (domain.EnforcementService, *MockPolicyRepository, *MockCredentialRepository) {
	policy := new(MockPolicyRepository)
	creds := new(MockCredentialRepository)
	service := NewEnforcementService(policy, creds, 0, zap.NewNop())
	return service, policy, creds
}

func TestEnforcementService_Evaluate(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(policy *MockPolicyRepository, creds *MockCredentialRepository)
		expected   domain.EnforcementState
		wantErr    error
	}{
		{
			name: "policy off",
			setupMocks: func(policy *MockPolicyRepository, creds *MockCredentialRepository) {
				policy.On("IsTwoFactorRequired", mock.Anything).Return(false, nil)
			},
			expected: domain.StateNotRequired,
		},
		{
			name: "required and enrolled",
			setupMocks: func(policy *MockPolicyRepository, creds *MockCredentialRepository) {
				policy.On("IsTwoFactorRequired", mock.Anything).Return(true, nil)
				creds.On("GetCredential", mock.Anything, "acct-1").
					Return(enabledCredential("acct-1", "SECRET"), nil)
			},
			expected: domain.StateRequiredEnrolled,
		},
		{
			name: "required with pending credential",
			setupMocks: func(policy *MockPolicyRepository, creds *MockCredentialRepository) {
				policy.On("IsTwoFactorRequired", mock.Anything).Return(true, nil)
				creds.On("GetCredential", mock.Anything, "acct-1").
					Return(pendingCredential("acct-1", "SECRET"), nil)
			},
			expected: domain.StateRequiredNotEnrolled,
		},
		{
			name: "required and never provisioned",
			setupMocks: func(policy *MockPolicyRepository, creds *MockCredentialRepository) {
				policy.On("IsTwoFactorRequired", mock.Anything).Return(true, nil)
				creds.On("GetCredential", mock.Anything, "acct-1").
					Return(nil, domain.ErrNotProvisioned)
			},
			expected: domain.StateRequiredNotEnrolled,
		},
		{
			name: "policy read failure fails closed",
			setupMocks: func(policy *MockPolicyRepository, creds *MockCredentialRepository) {
				policy.On("IsTwoFactorRequired", mock.Anything).Return(false, domain.ErrDatabaseQuery)
			},
			expected: domain.StateRequiredNotEnrolled,
			wantErr:  domain.ErrPolicyUnavailable,
		},
		{
			name: "credential read failure fails closed",
			setupMocks: func(policy *MockPolicyRepository, creds *MockCredentialRepository) {
				policy.On("IsTwoFactorRequired", mock.Anything).Return(true, nil)
				creds.On("GetCredential", mock.Anything, "acct-1").
					Return(nil, domain.ErrDatabaseQuery)
			},
			expected: domain.StateRequiredNotEnrolled,
			wantErr:  domain.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, policy, creds := newEnforcementUnderTest()
			tt.setupMocks(policy, creds)

			state, err := service.Evaluate(context.Background(), "acct-1")

			assert.Equal(t, tt.expected, state)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnforcementService_PolicyOffSkipsCredentialRead(t *testing.T) {
	service, policy, creds := newEnforcementUnderTest()
	policy.On("IsTwoFactorRequired", mock.Anything).Return(false, nil)

	state, err := service.Evaluate(context.Background(), "acct-1")

	require.NoError(t, err)
	assert.Equal(t, domain.StateNotRequired, state)
	creds.AssertNotCalled(t, "GetCredential", mock.Anything, mock.Anything)
}

func TestEnforcementService_EvaluateIsFreshPerCall(t *testing.T) {
	// An administrative toggle between two checks must be visible on the
	// second check; the service holds no cached state.
	service, policy, creds := newEnforcementUnderTest()
	policy.On("IsTwoFactorRequired", mock.Anything).Return(false, nil).Once()
	policy.On("IsTwoFactorRequired", mock.Anything).Return(true, nil).Once()
	creds.On("GetCredential", mock.Anything, "acct-1").
		Return(nil, domain.ErrNotProvisioned)

	state, err := service.Evaluate(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNotRequired, state)

	state, err = service.Evaluate(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateRequiredNotEnrolled, state)

	policy.AssertNumberOfCalls(t, "IsTwoFactorRequired", 2)
}

func TestEnforcementService_IsPolicyRequired(t *testing.T) {
	t.Run("Reads Flag", func(t *testing.T) {
		service, policy, _ := newEnforcementUnderTest()
		policy.On("IsTwoFactorRequired", mock.Anything).Return(true, nil)

		required, err := service.IsPolicyRequired(context.Background())

		require.NoError(t, err)
		assert.True(t, required)
	})

	t.Run("Unavailable", func(t *testing.T) {
		service, policy, _ := newEnforcementUnderTest()
		policy.On("IsTwoFactorRequired", mock.Anything).Return(false, domain.ErrDatabaseQuery)

		_, err := service.IsPolicyRequired(context.Background())

		assert.ErrorIs(t, err, domain.ErrPolicyUnavailable)
	})
}

func TestEnforcementService_SetPolicyRequired(t *testing.T) {
	service, policy, _ := newEnforcementUnderTest()
	policy.On("SetTwoFactorRequired", mock.Anything, true).Return(nil)

	err := service.SetPolicyRequired(context.Background(), true)

	require.NoError(t, err)
	policy.AssertExpectations(t)
}
