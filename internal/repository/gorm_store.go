package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

// SubmissionModel is the table row used by the postgres store.
type SubmissionModel struct {
	Seq       uint           `gorm:"primaryKey;autoIncrement"`
	ID        string         `gorm:"column:submission_id;uniqueIndex;not null"`
	FormID    string         `gorm:"index;not null"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt string         `gorm:"not null"`
	UpdatedAt string         `gorm:"not null"`
}

func (SubmissionModel) TableName() string { return "submissions" }

// GormStore implements SubmissionStore on Postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens dsn and migrates the submissions table.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return newGormStore(db)
}

// newGormLogger routes GORM warnings through the default slog handler so
// they land with the rest of the logs and never on stdout.
func newGormLogger() gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func newGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&SubmissionModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) ReadAll(ctx context.Context) ([]models.Submission, error) {
	var rows []SubmissionModel
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	subs := make([]models.Submission, 0, len(rows))
	for _, row := range rows {
		data, err := decodeData(row.Data)
		if err != nil {
			return nil, fmt.Errorf("submission %s: %w", row.ID, err)
		}
		subs = append(subs, models.Submission{
			ID:        row.ID,
			FormID:    row.FormID,
			Data:      data,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return subs, nil
}

func (s *GormStore) Append(ctx context.Context, sub models.Submission) error {
	data, err := encodeData(sub.Data)
	if err != nil {
		return err
	}
	row := SubmissionModel{
		ID:        sub.ID,
		FormID:    sub.FormID,
		Data:      datatypes.JSON(data),
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
