package usecases

import (
	"context"
	"testing"

	"storepay/internal/domain/channel"
	apperrors "storepay/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testMethod(args map[string]string, enabled bool) *channel.PaymentMethod {
	return channel.ReconstructPaymentMethod(1, 1, "paystack-ng", PaystackHandlerCode, args, enabled)
}

func TestResolveMethod_Success(t *testing.T) {
	methodRepo := &mockPaymentMethodRepository{}
	methodRepo.On("GetByChannelAndHandler", mock.Anything, uint(1), PaystackHandlerCode).
		Return(testMethod(map[string]string{
			"apiKey":      "sk_test_abc",
			"redirectUrl": "https://shop.example.com/checkout/confirmation",
		}, true), nil)

	uc := NewResolveMethodUseCase(methodRepo, newMockLogger())

	cfg, err := uc.Execute(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "sk_test_abc", cfg.APIKey)
	assert.Equal(t, "paystack-ng", cfg.MethodCode)
	assert.Equal(t, "https://shop.example.com/checkout/confirmation", cfg.RedirectBaseURL)
}

func TestResolveMethod_StripsTrailingSlashFromRedirectURL(t *testing.T) {
	methodRepo := &mockPaymentMethodRepository{}
	methodRepo.On("GetByChannelAndHandler", mock.Anything, uint(1), PaystackHandlerCode).
		Return(testMethod(map[string]string{
			"apiKey":      "sk_test_abc",
			"redirectUrl": "https://shop.example.com/checkout/confirmation/",
		}, true), nil)

	uc := NewResolveMethodUseCase(methodRepo, newMockLogger())

	cfg, err := uc.Execute(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/checkout/confirmation", cfg.RedirectBaseURL)
}

func TestResolveMethod_NotConfigured(t *testing.T) {
	methodRepo := &mockPaymentMethodRepository{}
	methodRepo.On("GetByChannelAndHandler", mock.Anything, uint(1), PaystackHandlerCode).
		Return(nil, apperrors.NewNotFoundError("payment method not found"))

	uc := NewResolveMethodUseCase(methodRepo, newMockLogger())

	cfg, err := uc.Execute(context.Background(), 1)

	assert.Nil(t, cfg)
	assert.True(t, apperrors.IsPaymentErrorType(err, apperrors.ErrorTypeMethodNotConfigured))
}

func TestResolveMethod_Disabled(t *testing.T) {
	methodRepo := &mockPaymentMethodRepository{}
	methodRepo.On("GetByChannelAndHandler", mock.Anything, uint(1), PaystackHandlerCode).
		Return(testMethod(map[string]string{
			"apiKey":      "sk_test_abc",
			"redirectUrl": "https://shop.example.com/confirm",
		}, false), nil)

	uc := NewResolveMethodUseCase(methodRepo, newMockLogger())

	_, err := uc.Execute(context.Background(), 1)

	assert.True(t, apperrors.IsPaymentErrorType(err, apperrors.ErrorTypeMethodNotConfigured))
}

func TestResolveMethod_MissingArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]string
	}{
		{"missing api key", map[string]string{"redirectUrl": "https://shop.example.com/confirm"}},
		{"missing redirect url", map[string]string{"apiKey": "sk_test_abc"}},
		{"empty api key", map[string]string{"apiKey": "", "redirectUrl": "https://shop.example.com/confirm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			methodRepo := &mockPaymentMethodRepository{}
			methodRepo.On("GetByChannelAndHandler", mock.Anything, uint(1), PaystackHandlerCode).
				Return(testMethod(tt.args, true), nil)

			uc := NewResolveMethodUseCase(methodRepo, newMockLogger())

			_, err := uc.Execute(context.Background(), 1)

			assert.True(t, apperrors.IsPaymentErrorType(err, apperrors.ErrorTypeMethodNotConfigured))
		})
	}
}
