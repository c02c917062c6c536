package usecases

import (
	"context"

	"storepay/internal/application/payment/gateway"
	"storepay/internal/domain/channel"
	"storepay/internal/domain/order"
	apperrors "storepay/internal/shared/errors"
	"storepay/internal/shared/logger"
)

// Metadata keys attached to the gateway transaction at initialization. The
// webhook path reads them back to route the notification without any session.
const (
	metaOrderCode    = "orderCode"
	metaChannelToken = "channelToken"
	metaCustomerID   = "customerId"
	metaFirstName    = "firstName"
	metaLastName     = "lastName"
)

type CreateIntentCommand struct {
	SessionToken string
	ChannelToken string
}

type CreateIntentResult struct {
	RedirectURL string
	Reference   string
}

// CreateIntentUseCase opens a gateway transaction for the session's active
// order. All checkout preconditions are checked before the gateway is touched.
type CreateIntentUseCase struct {
	orderRepo      order.Repository
	channelRepo    channel.ChannelRepository
	resolveMethod  *ResolveMethodUseCase
	gatewayFactory gateway.Factory
	logger         logger.Interface
}

func NewCreateIntentUseCase(
	orderRepo order.Repository,
	channelRepo channel.ChannelRepository,
	resolveMethod *ResolveMethodUseCase,
	gatewayFactory gateway.Factory,
	logger logger.Interface,
) *CreateIntentUseCase {
	return &CreateIntentUseCase{
		orderRepo:      orderRepo,
		channelRepo:    channelRepo,
		resolveMethod:  resolveMethod,
		gatewayFactory: gatewayFactory,
		logger:         logger,
	}
}

// Execute validates the active order and initializes a gateway transaction
// whose reference is the order code. Precondition failures never reach the
// gateway.
func (uc *CreateIntentUseCase) Execute(ctx context.Context, cmd CreateIntentCommand) (*CreateIntentResult, error) {
	ch, err := uc.channelRepo.GetByToken(ctx, cmd.ChannelToken)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.NewChannelNotFoundError(cmd.ChannelToken)
		}
		return nil, apperrors.NewInternalError("failed to load channel", err.Error())
	}

	o, err := uc.orderRepo.FindActiveBySession(ctx, cmd.SessionToken)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.NewPreconditionFailedError("no active order found for session")
		}
		return nil, apperrors.NewInternalError("failed to load active order", err.Error())
	}

	if !o.HasLines() {
		return nil, apperrors.NewPreconditionFailedError("order has no lines")
	}
	if !o.HasCustomer() {
		return nil, apperrors.NewPreconditionFailedError("order has no customer")
	}
	if !o.HasShippingMethod() {
		return nil, apperrors.NewPreconditionFailedError("order has no shipping method")
	}

	cfg, err := uc.resolveMethod.Execute(ctx, ch.ID())
	if err != nil {
		return nil, err
	}

	customer := o.Customer()
	req := gateway.InitializeRequest{
		Email:       customer.Email,
		Amount:      o.Total().AmountMinor(),
		Currency:    o.Total().Currency(),
		Reference:   o.Code(),
		CallbackURL: cfg.RedirectBaseURL + "/" + o.Code(),
		Metadata: map[string]interface{}{
			metaOrderCode:    o.Code(),
			metaChannelToken: ch.Token(),
			metaCustomerID:   customer.ID,
			metaFirstName:    customer.FirstName,
			metaLastName:     customer.LastName,
		},
	}

	result, err := uc.gatewayFactory(cfg.APIKey).InitializeTransaction(ctx, req)
	if err != nil {
		uc.logger.Errorw("failed to initialize gateway transaction",
			"order_code", o.Code(),
			"channel", ch.Code(),
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("payment intent created",
		"order_code", o.Code(),
		"channel", ch.Code(),
		"amount_minor", o.Total().AmountMinor(),
	)

	return &CreateIntentResult{
		RedirectURL: result.AuthorizationURL,
		Reference:   result.Reference,
	}, nil
}
