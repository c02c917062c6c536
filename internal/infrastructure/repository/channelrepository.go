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

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// Ensure ChannelRepository implements channel.ChannelRepository
var _ channel.ChannelRepository = (*ChannelRepository)(nil)

func (r *ChannelRepository) GetByToken(ctx context.Context, token string) (*channel.Channel, error) {
	var model models.ChannelModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("token = ?", token).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("channel not found", fmt.Sprintf("token %q", token))
		}
		return nil, fmt.Errorf("failed to get channel by token: %w", err)
	}

	return mappers.ChannelToDomain(&model), nil
}

func (r *ChannelRepository) GetByID(ctx context.Context, id uint) (*channel.Channel, error) {
	var model models.ChannelModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("channel not found")
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return mappers.ChannelToDomain(&model), nil
}
