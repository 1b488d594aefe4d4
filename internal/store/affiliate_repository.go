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

// PostgresAffiliateRepository реализует AffiliateRepository для PostgreSQL
type PostgresAffiliateRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewAffiliateRepository создает новый репозиторий аффилиатов
func NewAffiliateRepository(db *pgxpool.Pool, logger *zap.Logger) AffiliateRepository {
	return &PostgresAffiliateRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает нового аффилиата
func (r *PostgresAffiliateRepository) Create(ctx context.Context, affiliate *models.Affiliate) error {
	query := `
		INSERT INTO affiliates (user_id, status, rate, rate_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	if affiliate.CreatedAt.IsZero() {
		affiliate.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(
		ctx, query,
		affiliate.UserID,
		affiliate.Status,
		affiliate.Rate,
		affiliate.RateType,
		affiliate.CreatedAt,
	).Scan(&affiliate.ID)

	if err != nil {
		return fmt.Errorf("ошибка создания аффилиата для пользователя %d: %w", affiliate.UserID, err)
	}

	r.logger.Debug("аффилиат создан",
		zap.Int64("affiliate_id", affiliate.ID),
		zap.Int64("user_id", affiliate.UserID),
		zap.String("status", affiliate.Status))

	return nil
}

// GetByID получает аффилиата по ID
func (r *PostgresAffiliateRepository) GetByID(ctx context.Context, id int64) (*models.Affiliate, error) {
	query := `
		SELECT id, user_id, status, rate, rate_type, created_at
		FROM affiliates
		WHERE id = $1`

	affiliate := &models.Affiliate{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&affiliate.ID,
		&affiliate.UserID,
		&affiliate.Status,
		&affiliate.Rate,
		&affiliate.RateType,
		&affiliate.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("аффилиат с ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения аффилиата: %w", err)
	}

	return affiliate, nil
}
