package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"storepay/internal/domain/channel"
	"storepay/internal/infrastructure/persistence/mappers"
	"storepay/internal/infrastructure/persistence/models"
	"storepay/internal/shared/db"
	apperrors "storepay/internal/shared/errors"
)

type PaymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// Ensure PaymentMethodRepository implements channel.PaymentMethodRepository
var _ channel.PaymentMethodRepository = (*PaymentMethodRepository)(nil)

func (r *PaymentMethodRepository) GetByChannelAndHandler(ctx context.Context, channelID uint, handlerCode string) (*channel.PaymentMethod, error) {
	var model models.PaymentMethodModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("channel_id = ? AND handler_code = ?", channelID, handlerCode).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("payment method not found",
				fmt.Sprintf("channel %d handler %q", channelID, handlerCode))
		}
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}

	return mappers.PaymentMethodToDomain(&model), nil
}
