package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/pkg/config"
)

type DB struct {
	*gorm.DB
}

// Models lists every table owned by the service
func Models() []any {
	return []any{&models.VideoRecord{}, &models.Job{}}
}

// Open connects using the configured driver
func Open(cfg config.DatabaseConfig) (*DB, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		db, err := Initialize(cfg.Path, cfg.Verbose)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database.dsn is required for postgres")
		}
		db, err := gorm.Open(postgres.Open(cfg.DSN), gormConfig(cfg.Verbose))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
		}
		if cfg.MaxIdle > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdle)
		}
		if cfg.MaxConnections > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxConnections)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
		return &DB{DB: db}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func gormConfig(verbose bool) *gorm.Config {
	logLevel := logger.Error
	if verbose {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Initialize creates a new sqlite connection
func Initialize(dbPath string, verbose bool) (*DB, error) {
	inMemory := dbPath == "" || strings.Contains(dbPath, ":memory:")
	if !inMemory {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig(verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	// Each sqlite :memory: connection is a separate database
	if inMemory {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is working
func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// AutoMigrate runs GORM auto migration for the provided models, or every
// service model when none are given.
func (db *DB) AutoMigrate(models ...any) error {
	if len(models) == 0 {
		models = Models()
	}
	if err := db.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}

// TableNames returns the table of every service model in migration order
func TableNames(db *DB) []string {
	var names []string
	for _, m := range Models() {
		stmt := &gorm.Statement{DB: db.DB}
		if err := stmt.Parse(m); err == nil {
			names = append(names, stmt.Schema.Table)
		}
	}
	return names
}

// PendingMigrations names the tables that do not exist yet
func (db *DB) PendingMigrations() []string {
	var pending []string
	for _, table := range TableNames(db) {
		if !db.Migrator().HasTable(table) {
			pending = append(pending, table)
		}
	}
	return pending
}
