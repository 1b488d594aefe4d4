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

// PostgresVisitRepository реализует VisitRepository для PostgreSQL
type PostgresVisitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewVisitRepository создает новый репозиторий визитов
func NewVisitRepository(db *pgxpool.Pool, logger *zap.Logger) VisitRepository {
	return &PostgresVisitRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новый визит
func (r *PostgresVisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	query := `
		INSERT INTO visits (affiliate_id, referral_id, url, referrer, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(
		ctx, query,
		visit.AffiliateID,
		visit.ReferralID,
		visit.URL,
		visit.Referrer,
		visit.CreatedAt,
	).Scan(&visit.ID)

	if err != nil {
		return fmt.Errorf("ошибка создания визита для аффилиата %d: %w", visit.AffiliateID, err)
	}

	r.logger.Debug("визит создан",
		zap.Int64("visit_id", visit.ID),
		zap.Int64("affiliate_id", visit.AffiliateID),
		zap.Int64("referral_id", visit.ReferralID))

	return nil
}

// GetByID получает визит по ID
func (r *PostgresVisitRepository) GetByID(ctx context.Context, id int64) (*models.Visit, error) {
	query := `
		SELECT id, affiliate_id, referral_id, url, referrer, created_at
		FROM visits
		WHERE id = $1`

	visit := &models.Visit{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&visit.ID,
		&visit.AffiliateID,
		&visit.ReferralID,
		&visit.URL,
		&visit.Referrer,
		&visit.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("визит с ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения визита: %w", err)
	}

	return visit, nil
}
