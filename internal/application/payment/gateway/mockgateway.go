package gateway

import (
	"context"
	"fmt"
	"sync"

	"storepay/internal/shared/biztime"
)

// MockGateway is an in-memory PaymentGateway for tests and local development.
// Verification results are seeded per reference; call counts are tracked so
// tests can assert that precondition failures make no gateway calls.
type MockGateway struct {
	mu sync.Mutex

	verifyResults map[string]*VerifiedTransaction
	initErr       error
	verifyErr     error

	InitializeCalls int
	VerifyCalls     int
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		verifyResults: make(map[string]*VerifiedTransaction),
	}
}

// Ensure MockGateway implements PaymentGateway
var _ PaymentGateway = (*MockGateway)(nil)

// SeedVerification sets the result returned for a reference.
func (m *MockGateway) SeedVerification(reference string, tx *VerifiedTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyResults[reference] = tx
}

// FailWith forces both operations to return the given errors.
func (m *MockGateway) FailWith(initErr, verifyErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initErr = initErr
	m.verifyErr = verifyErr
}

func (m *MockGateway) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitializeCalls++

	if m.initErr != nil {
		return nil, m.initErr
	}

	return &InitializeResult{
		AuthorizationURL: fmt.Sprintf("https://checkout.mock-gateway.example.com/%s", req.Reference),
		AccessCode:       fmt.Sprintf("ACCESS_%s", req.Reference),
		Reference:        req.Reference,
	}, nil
}

func (m *MockGateway) VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyCalls++

	if m.verifyErr != nil {
		return nil, m.verifyErr
	}

	if tx, ok := m.verifyResults[reference]; ok {
		return tx, nil
	}

	now := biztime.NowUTC()
	return &VerifiedTransaction{
		Status:        StatusSuccess,
		RawStatus:     "success",
		Amount:        0,
		Reference:     reference,
		TransactionID: fmt.Sprintf("TXN_%s", reference),
		Channel:       "card",
		PaidAt:        &now,
		Metadata:      map[string]interface{}{},
	}, nil
}
