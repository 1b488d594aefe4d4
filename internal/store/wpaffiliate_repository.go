package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"affwp-generate/pkg/models"

	"go.uber.org/zap"
)

// WPAffiliateTable имя таблицы аккаунтов плагина WP Affiliate
const WPAffiliateTable = "wp_affiliates_tbl"

// SQLWPAffiliateRepository реализует WPAffiliateRepository через database/sql.
// Таблицу создает сам плагин, поэтому ее наличие проверяется перед генерацией.
type SQLWPAffiliateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWPAffiliateRepository создает новый репозиторий WP Affiliate
func NewWPAffiliateRepository(db *sql.DB, logger *zap.Logger) WPAffiliateRepository {
	return &SQLWPAffiliateRepository{
		db:     db,
		logger: logger,
	}
}

// Available проверяет, установлен ли плагин WP Affiliate
func (r *SQLWPAffiliateRepository) Available(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, WPAffiliateTable).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки таблицы %s: %w", WPAffiliateTable, err)
	}

	if !exists {
		r.logger.Warn("таблица WP Affiliate не найдена", zap.String("table", WPAffiliateTable))
	}

	return exists, nil
}

// Create создает аккаунт WP Affiliate
func (r *SQLWPAffiliateRepository) Create(ctx context.Context, account *models.WPAffiliateAccount) error {
	query := `
		INSERT INTO wp_affiliates_tbl (refid, pass, email, firstname, lastname, date, commissionlevel, paypalemail, referrer, account_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	if account.Date.IsZero() {
		account.Date = time.Now()
	}

	err := r.db.QueryRowContext(ctx, query,
		account.RefID,
		account.PasswordHash,
		account.Email,
		account.FirstName,
		account.LastName,
		account.Date.Format("2006-01-02"),
		account.CommissionLevel,
		account.PayPalEmail,
		account.Referrer,
		account.AccountStatus,
	).Scan(&account.ID)

	if err != nil {
		return fmt.Errorf("ошибка создания аккаунта WP Affiliate %s: %w", account.RefID, err)
	}

	r.logger.Debug("аккаунт WP Affiliate создан",
		zap.Int64("account_id", account.ID),
		zap.String("refid", account.RefID),
		zap.String("account_status", account.AccountStatus))

	return nil
}
