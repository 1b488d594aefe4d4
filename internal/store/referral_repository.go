package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"affwp-generate/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostgresReferralRepository реализует ReferralRepository для PostgreSQL
type PostgresReferralRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewReferralRepository создает новый репозиторий рефералов
func NewReferralRepository(db *pgxpool.Pool, logger *zap.Logger) ReferralRepository {
	return &PostgresReferralRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новый реферал
func (r *PostgresReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	query := `
		INSERT INTO referrals (affiliate_id, visit_id, amount, status, campaign, date, created_at)
		VALUES ($1, $2, $3::text::numeric, $4, $5, $6, $7)
		RETURNING id`

	now := time.Now()
	if referral.CreatedAt.IsZero() {
		referral.CreatedAt = now
	}
	if referral.Date.IsZero() {
		referral.Date = now
	}

	err := r.db.QueryRow(
		ctx, query,
		referral.AffiliateID,
		referral.VisitID,
		referral.Amount.String(),
		referral.Status,
		referral.Campaign,
		referral.Date,
		referral.CreatedAt,
	).Scan(&referral.ID)

	if err != nil {
		return fmt.Errorf("ошибка создания реферала для аффилиата %d: %w", referral.AffiliateID, err)
	}

	r.logger.Debug("реферал создан",
		zap.Int64("referral_id", referral.ID),
		zap.Int64("affiliate_id", referral.AffiliateID),
		zap.String("amount", referral.Amount.String()),
		zap.String("status", referral.Status))

	return nil
}

// GetByID получает реферал по ID
func (r *PostgresReferralRepository) GetByID(ctx context.Context, id int64) (*models.Referral, error) {
	query := `
		SELECT id, affiliate_id, visit_id, amount::text, status, campaign, date, created_at
		FROM referrals
		WHERE id = $1`

	var amount string
	referral := &models.Referral{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&referral.ID,
		&referral.AffiliateID,
		&referral.VisitID,
		&amount,
		&referral.Status,
		&referral.Campaign,
		&referral.Date,
		&referral.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("реферал с ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения реферала: %w", err)
	}

	referral.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора суммы реферала %d: %w", id, err)
	}

	return referral, nil
}

// SetVisitID записывает ID визита в реферал
func (r *PostgresReferralRepository) SetVisitID(ctx context.Context, referralID, visitID int64) error {
	query := `UPDATE referrals SET visit_id = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, referralID, visitID)
	if err != nil {
		return fmt.Errorf("ошибка обновления визита реферала: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("реферал с ID %d: %w", referralID, ErrNotFound)
	}

	return nil
}
