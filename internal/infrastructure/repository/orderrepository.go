package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storepay/internal/domain/order"
	vo "storepay/internal/domain/order/valueobjects"
	"storepay/internal/infrastructure/persistence/mappers"
	"storepay/internal/infrastructure/persistence/models"
	"storepay/internal/shared/db"
	apperrors "storepay/internal/shared/errors"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Ensure OrderRepository implements order.Repository
var _ order.Repository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := mappers.OrderToModel(o)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Write back the auto-generated ID to the domain object
	o.SetID(model.ID)

	return nil
}

func (r *OrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	return r.findByCode(ctx, code, false)
}

// FindByCodeForUpdate loads the order with a row lock. Must run inside a
// transaction started by the transaction manager.
func (r *OrderRepository) FindByCodeForUpdate(ctx context.Context, code string) (*order.Order, error) {
	return r.findByCode(ctx, code, true)
}

func (r *OrderRepository) findByCode(ctx context.Context, code string, forUpdate bool) (*order.Order, error) {
	var model models.OrderModel

	query := db.GetTxFromContext(ctx, r.db).Preload("Settlements")
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := query.Where("code = ?", code).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("order not found", fmt.Sprintf("code %q", code))
		}
		return nil, fmt.Errorf("failed to get order by code: %w", err)
	}

	return mappers.OrderToDomain(&model), nil
}

// FindActiveBySession returns the session's most recent order still open for
// checkout.
func (r *OrderRepository) FindActiveBySession(ctx context.Context, sessionToken string) (*order.Order, error) {
	var model models.OrderModel

	activeStates := []string{
		vo.StateAddingItems.String(),
		vo.StateArrangingPayment.String(),
	}

	if err := db.GetTxFromContext(ctx, r.db).
		Preload("Settlements").
		Where("session_token = ? AND state IN ?", sessionToken, activeStates).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("no active order for session")
		}
		return nil, fmt.Errorf("failed to get active order: %w", err)
	}

	return mappers.OrderToDomain(&model), nil
}

func (r *OrderRepository) SaveState(ctx context.Context, o *order.Order) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("id = ?", o.ID()).
		Updates(map[string]interface{}{
			"state":      o.State().String(),
			"version":    o.Version(),
			"updated_at": o.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update order state: %w", result.Error)
	}

	return nil
}

func (r *OrderRepository) AddSettlementRecord(ctx context.Context, o *order.Order, rec order.SettlementRecord) error {
	model := mappers.SettlementRecordToModel(o.ID(), rec)
	model.ID = 0

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add settlement record: %w", err)
	}

	return nil
}
