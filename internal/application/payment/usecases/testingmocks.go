package usecases

import (
	"context"

	"storepay/internal/domain/channel"
	"storepay/internal/domain/order"
	"storepay/internal/shared/logger"

	"github.com/stretchr/testify/mock"
	"github.com/zoobzio/hookz"
)

type mockLogger struct {
	mock.Mock
}

// newMockLogger returns a logger mock that accepts any log call. Tests that
// care about a specific message pin it with an explicit expectation.
func newMockLogger() *mockLogger {
	m := &mockLogger{}
	m.On("Debugw", mock.Anything, mock.Anything).Return().Maybe()
	m.On("Infow", mock.Anything, mock.Anything).Return().Maybe()
	m.On("Warnw", mock.Anything, mock.Anything).Return().Maybe()
	m.On("Errorw", mock.Anything, mock.Anything).Return().Maybe()
	return m
}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Warn(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Fatal(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) With(keysAndValues ...interface{}) logger.Interface {
	args := m.Called(keysAndValues)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Interface)
}

func (m *mockLogger) Named(name string) logger.Interface {
	args := m.Called(name)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Interface)
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByCodeForUpdate(ctx context.Context, code string) (*order.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindActiveBySession(ctx context.Context, sessionToken string) (*order.Order, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) SaveState(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) AddSettlementRecord(ctx context.Context, o *order.Order, rec order.SettlementRecord) error {
	args := m.Called(ctx, o, rec)
	return args.Error(0)
}

type mockChannelRepository struct {
	mock.Mock
}

func (m *mockChannelRepository) GetByToken(ctx context.Context, token string) (*channel.Channel, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.Channel), args.Error(1)
}

func (m *mockChannelRepository) GetByID(ctx context.Context, id uint) (*channel.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.Channel), args.Error(1)
}

type mockPaymentMethodRepository struct {
	mock.Mock
}

func (m *mockPaymentMethodRepository) GetByChannelAndHandler(ctx context.Context, channelID uint, handlerCode string) (*channel.PaymentMethod, error) {
	args := m.Called(ctx, channelID, handlerCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.PaymentMethod), args.Error(1)
}

// fakeTxRunner runs the function directly, with no real transaction.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingEmitter captures emitted settled events for assertions.
type recordingEmitter struct {
	mock.Mock
}

func (m *recordingEmitter) Emit(ctx context.Context, key hookz.Key, data SettledEvent) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}
