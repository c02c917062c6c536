package usecases

import (
	"context"
	"fmt"

	"storepay/internal/application/payment/gateway"
	"storepay/internal/domain/channel"
	"storepay/internal/domain/order"
	vo "storepay/internal/domain/order/valueobjects"
	"storepay/internal/shared/biztime"
	apperrors "storepay/internal/shared/errors"
	"storepay/internal/shared/keylock"
	"storepay/internal/shared/logger"
)

// TransactionRunner executes a function inside a database transaction.
// db.TransactionManager satisfies it.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type SettlePaymentCommand struct {
	Reference    string
	ChannelToken string
}

// SettlePaymentUseCase drives an order to the settled state after a gateway
// transaction has been re-verified. It is idempotent: redeliveries of the
// same reference, concurrent or not, settle the order exactly once.
//
// Verification happens before any lock is taken; only the ledger mutation is
// serialized, per order code via the key lock and a row lock inside the
// transaction.
type SettlePaymentUseCase struct {
	channelRepo    channel.ChannelRepository
	resolveMethod  *ResolveMethodUseCase
	gatewayFactory gateway.Factory
	orderRepo      order.Repository
	txRunner       TransactionRunner
	locks          *keylock.KeyLock
	hooks          SettledEmitter
	logger         logger.Interface
}

func NewSettlePaymentUseCase(
	channelRepo channel.ChannelRepository,
	resolveMethod *ResolveMethodUseCase,
	gatewayFactory gateway.Factory,
	orderRepo order.Repository,
	txRunner TransactionRunner,
	locks *keylock.KeyLock,
	hooks SettledEmitter,
	logger logger.Interface,
) *SettlePaymentUseCase {
	return &SettlePaymentUseCase{
		channelRepo:    channelRepo,
		resolveMethod:  resolveMethod,
		gatewayFactory: gatewayFactory,
		orderRepo:      orderRepo,
		txRunner:       txRunner,
		locks:          locks,
		hooks:          hooks,
		logger:         logger,
	}
}

// Execute verifies the transaction with the gateway and settles the matching
// order. A verification that does not report success is logged and dropped
// without error, since the notification itself is never trusted.
func (uc *SettlePaymentUseCase) Execute(ctx context.Context, cmd SettlePaymentCommand) error {
	ch, err := uc.channelRepo.GetByToken(ctx, cmd.ChannelToken)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return apperrors.NewChannelNotFoundError(cmd.ChannelToken)
		}
		return apperrors.NewInternalError("failed to load channel", err.Error())
	}

	cfg, err := uc.resolveMethod.Execute(ctx, ch.ID())
	if err != nil {
		return err
	}

	tx, err := uc.gatewayFactory(cfg.APIKey).VerifyTransaction(ctx, cmd.Reference)
	if err != nil {
		uc.logger.Errorw("transaction verification failed",
			"reference", cmd.Reference,
			"error", err,
		)
		return err
	}

	if !tx.Status.IsSuccess() {
		uc.logger.Infow("verified transaction not successful, skipping settlement",
			"reference", cmd.Reference,
			"status", tx.RawStatus,
		)
		return nil
	}

	currency := tx.Currency
	if currency == "" {
		currency = ch.Currency()
	}
	verified := vo.NewMoney(tx.Amount, currency)

	paidAt := biztime.NowUTC()
	if tx.PaidAt != nil {
		paidAt = tx.PaidAt.UTC()
	}

	unlock := uc.locks.Lock(cmd.Reference)
	defer unlock()

	var settled *SettledEvent
	err = uc.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := uc.orderRepo.FindByCodeForUpdate(ctx, cmd.Reference)
		if err != nil {
			if apperrors.IsNotFoundError(err) {
				return apperrors.NewOrderNotFoundError(cmd.Reference)
			}
			return apperrors.NewInternalError("failed to load order", err.Error())
		}

		if o.State().IsSettled() {
			uc.logger.Infow("order already settled, ignoring redelivery",
				"order_code", o.Code(),
				"reference", cmd.Reference,
			)
			return nil
		}

		if !o.Total().Equals(verified) {
			return apperrors.NewSettlementError(o.Code(),
				fmt.Sprintf("verified amount %s does not match order total %s", verified, o.Total()))
		}

		if o.State() != vo.StateArrangingPayment {
			from := o.State()
			if err := o.TransitionTo(vo.StateArrangingPayment); err != nil {
				return apperrors.NewStateTransitionError(o.Code(), from.String(), vo.StateArrangingPayment.String(), err.Error())
			}
			if err := uc.orderRepo.SaveState(ctx, o); err != nil {
				return apperrors.NewInternalError("failed to persist order state", err.Error())
			}
		}

		rec := order.NewSettlementRecord(
			tx.TransactionID,
			tx.Reference,
			cfg.MethodCode,
			tx.Channel,
			verified,
			paidAt,
			tx.Metadata,
		)

		attached, err := o.AttachSettlement(rec)
		if err != nil {
			return apperrors.NewSettlementError(o.Code(), err.Error())
		}
		if attached {
			if err := uc.orderRepo.AddSettlementRecord(ctx, o, rec); err != nil {
				if apperrors.IsDuplicateError(err) {
					uc.logger.Infow("settlement record already exists, continuing",
						"order_code", o.Code(),
						"reference", rec.Reference(),
					)
				} else {
					return apperrors.NewSettlementError(o.Code(), err.Error())
				}
			}
		}

		from := o.State()
		if err := o.TransitionTo(vo.StatePaymentSettled); err != nil {
			return apperrors.NewStateTransitionError(o.Code(), from.String(), vo.StatePaymentSettled.String(), err.Error())
		}
		if err := uc.orderRepo.SaveState(ctx, o); err != nil {
			return apperrors.NewInternalError("failed to persist order state", err.Error())
		}

		settled = &SettledEvent{
			OrderCode:     o.Code(),
			Reference:     rec.Reference(),
			TransactionID: rec.TransactionID(),
			AmountMinor:   rec.Amount().AmountMinor(),
			Currency:      rec.Amount().Currency(),
			Channel:       rec.Channel(),
			SettledAt:     paidAt,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if settled != nil {
		uc.logger.Infow("payment settled",
			"order_code", settled.OrderCode,
			"transaction_id", settled.TransactionID,
			"amount_minor", settled.AmountMinor,
		)
		if uc.hooks != nil {
			if err := uc.hooks.Emit(ctx, EventOrderSettled, *settled); err != nil {
				uc.logger.Warnw("failed to emit settled event",
					"order_code", settled.OrderCode,
					"error", err,
				)
			}
		}
	}

	return nil
}
