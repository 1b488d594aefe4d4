package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"affwp-generate/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWPAffiliateAvailable(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{name: "плагин установлен", exists: true},
		{name: "плагин не установлен", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT to_regclass\(\$1\) IS NOT NULL`).
				WithArgs(WPAffiliateTable).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			repo := NewWPAffiliateRepository(db, zap.NewNop())
			ok, err := repo.Available(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.exists, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWPAffiliateAvailableQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT to_regclass`).WillReturnError(errors.New("connection refused"))

	repo := NewWPAffiliateRepository(db, zap.NewNop())
	ok, err := repo.Available(context.Background())

	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection refused")
}

func TestWPAffiliateCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	account := &models.WPAffiliateAccount{
		RefID:           "wp_affiliate_user_1234_1",
		PasswordHash:    "$2a$10$hash",
		Email:           "wp_affiliate_user_1234_1@affwp.dev",
		FirstName:       "WP Affiliate",
		LastName:        "User 1",
		Date:            time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		CommissionLevel: "20",
		PayPalEmail:     "wp_affiliate_user_1234_1@affwp.dev",
		AccountStatus:   "approved",
	}

	mock.ExpectQuery(`INSERT INTO wp_affiliates_tbl`).
		WithArgs(account.RefID, account.PasswordHash, account.Email, account.FirstName, account.LastName,
			"2026-03-14", "20", account.PayPalEmail, "", "approved").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))

	repo := NewWPAffiliateRepository(db, zap.NewNop())
	require.NoError(t, repo.Create(context.Background(), account))

	assert.Equal(t, int64(77), account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWPAffiliateCreateError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO wp_affiliates_tbl`).WillReturnError(errors.New("duplicate key"))

	repo := NewWPAffiliateRepository(db, zap.NewNop())
	err = repo.Create(context.Background(), &models.WPAffiliateAccount{RefID: "dup"})

	assert.ErrorContains(t, err, "dup")
	assert.ErrorContains(t, err, "duplicate key")
}
