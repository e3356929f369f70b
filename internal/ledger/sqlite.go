package ledger

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLite persists applications across process restarts.
type SQLite struct {
	db *gorm.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	if err := db.AutoMigrate(&Application{}); err != nil {
		return nil, fmt.Errorf("migrating ledger schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, app *Application) error {
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("appending application: %w", err)
	}
	return nil
}

func (s *SQLite) ByStatus(ctx context.Context, status Status) ([]*Application, error) {
	var apps []*Application
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("applied_at desc").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("querying applications by status: %w", err)
	}
	return apps, nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]*Application, error) {
	if limit <= 0 {
		limit = 50
	}

	var apps []*Application
	err := s.db.WithContext(ctx).
		Order("applied_at desc").
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("querying recent applications: %w", err)
	}
	return apps, nil
}
