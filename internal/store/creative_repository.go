package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"affwp-generate/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresCreativeRepository реализует CreativeRepository для PostgreSQL
type PostgresCreativeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewCreativeRepository создает новый репозиторий промо-материалов
func NewCreativeRepository(db *pgxpool.Pool, logger *zap.Logger) CreativeRepository {
	return &PostgresCreativeRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новый промо-материал
func (r *PostgresCreativeRepository) Create(ctx context.Context, creative *models.Creative) error {
	query := `
		INSERT INTO creatives (name, description, url, text, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if creative.CreatedAt.IsZero() {
		creative.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(
		ctx, query,
		creative.Name,
		creative.Description,
		creative.URL,
		creative.Text,
		creative.Status,
		creative.CreatedAt,
	).Scan(&creative.ID)

	if err != nil {
		return fmt.Errorf("ошибка создания промо-материала: %w", err)
	}

	r.logger.Debug("промо-материал создан", zap.Int64("creative_id", creative.ID))

	return nil
}

// GetByID получает промо-материал по ID
func (r *PostgresCreativeRepository) GetByID(ctx context.Context, id int64) (*models.Creative, error) {
	query := `
		SELECT id, name, description, url, text, status, created_at
		FROM creatives
		WHERE id = $1`

	creative := &models.Creative{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&creative.ID,
		&creative.Name,
		&creative.Description,
		&creative.URL,
		&creative.Text,
		&creative.Status,
		&creative.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("промо-материал с ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения промо-материала: %w", err)
	}

	return creative, nil
}
