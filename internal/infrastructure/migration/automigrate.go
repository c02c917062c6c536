package migration

import (
	"fmt"

	"gorm.io/gorm"

	"storepay/internal/infrastructure/persistence/models"
	"storepay/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the model structs. Used in
// development; production uses versioned SQL scripts.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, extraModels ...interface{}) error {
	targets := append(AllModels(), extraModels...)

	s.logger.Infow("starting gorm auto-migration", "models_count", len(targets))

	if err := db.AutoMigrate(targets...); err != nil {
		s.logger.Errorw("auto-migration failed", "error", err)
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	s.logger.Infow("auto-migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// AllModels lists every persisted model in migration order (parents first).
func AllModels() []interface{} {
	return []interface{}{
		&models.ChannelModel{},
		&models.PaymentMethodModel{},
		&models.OrderModel{},
		&models.SettlementRecordModel{},
	}
}
