package usecases

import (
	"context"
	"fmt"
	"strings"

	"storepay/internal/domain/channel"
	apperrors "storepay/internal/shared/errors"
	"storepay/internal/shared/logger"
)

// PaystackHandlerCode identifies the Paystack handler among a channel's
// configured payment methods.
const PaystackHandlerCode = "paystack"

// Handler argument names as stored in the payment method configuration.
const (
	argAPIKey      = "apiKey"
	argRedirectURL = "redirectUrl"
)

// MethodConfig is the resolved per-channel gateway configuration.
type MethodConfig struct {
	MethodCode      string
	APIKey          string
	RedirectBaseURL string
}

// ResolveMethodUseCase looks up the enabled Paystack payment method for a
// channel and extracts its handler arguments. Both the intent and settlement
// paths go through it, so credentials are resolved the same way everywhere.
type ResolveMethodUseCase struct {
	methodRepo channel.PaymentMethodRepository
	logger     logger.Interface
}

func NewResolveMethodUseCase(methodRepo channel.PaymentMethodRepository, logger logger.Interface) *ResolveMethodUseCase {
	return &ResolveMethodUseCase{
		methodRepo: methodRepo,
		logger:     logger,
	}
}

// Execute returns the channel's Paystack configuration or a method-not-configured
// error when the method is absent, disabled or missing required arguments.
func (uc *ResolveMethodUseCase) Execute(ctx context.Context, channelID uint) (*MethodConfig, error) {
	method, err := uc.methodRepo.GetByChannelAndHandler(ctx, channelID, PaystackHandlerCode)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			uc.logger.Errorw("no paystack payment method configured for channel", "channel_id", channelID)
			return nil, apperrors.NewMethodNotConfiguredError(
				fmt.Sprintf("no enabled %s method on channel %d", PaystackHandlerCode, channelID))
		}
		return nil, apperrors.NewInternalError("failed to load payment method", err.Error())
	}
	if method == nil || !method.Enabled() {
		uc.logger.Errorw("paystack payment method disabled for channel", "channel_id", channelID)
		return nil, apperrors.NewMethodNotConfiguredError(
			fmt.Sprintf("no enabled %s method on channel %d", PaystackHandlerCode, channelID))
	}

	apiKey, ok := method.Arg(argAPIKey)
	if !ok {
		uc.logger.Errorw("paystack method missing api key", "channel_id", channelID, "method_code", method.Code())
		return nil, apperrors.NewMethodNotConfiguredError(
			fmt.Sprintf("method %s is missing the %s argument", method.Code(), argAPIKey))
	}

	redirectURL, ok := method.Arg(argRedirectURL)
	if !ok {
		uc.logger.Errorw("paystack method missing redirect url", "channel_id", channelID, "method_code", method.Code())
		return nil, apperrors.NewMethodNotConfiguredError(
			fmt.Sprintf("method %s is missing the %s argument", method.Code(), argRedirectURL))
	}

	return &MethodConfig{
		MethodCode:      method.Code(),
		APIKey:          apiKey,
		RedirectBaseURL: strings.TrimSuffix(redirectURL, "/"),
	}, nil
}
