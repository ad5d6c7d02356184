package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mani1234567sk/Frin-Backend/internal/config"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// Open connects to PostgreSQL. Unique violations come back as
// gorm.ErrDuplicatedKey.
func Open(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
		Logger:         NewLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// NewLogger routes gorm's slow-query and error output through logrus.
func NewLogger(log *logrus.Logger) gormlogger.Interface {
	return gormlogger.New(log, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&models.Employee{},
		&models.Attendance{},
		&models.Warehouse{},
		&models.Product{},
		&models.Transaction{},
		&models.QualityRecord{},
		&models.MaintenanceItem{},
		&models.MaintenanceMode{},
		&models.AuditLog{},
	}
}

// Migrate creates or updates the schema, then adds the indexes AutoMigrate
// cannot express.
func Migrate(db *gorm.DB, log logrus.FieldLogger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Only one maintenance window may be active at a time.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_maintenance_modes_single_active
		ON maintenance_modes (is_active) WHERE is_active`).Error; err != nil {
		return fmt.Errorf("create single-active index: %w", err)
	}

	// FIFO dispatch walks batches of one product by age.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_products_fifo
		ON products (product_id, created_at, id)`).Error; err != nil {
		log.WithError(err).Warn("could not create fifo index")
	}

	log.Info("database migration completed")
	return nil
}
