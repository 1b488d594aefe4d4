package store

import (
	"context"
	"errors"
	"testing"

	"affwp-generate/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStoreUserCount(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	s.SetExistingUsers(5)
	ctx := context.Background()

	count, err := s.User().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	user := &models.User{Login: "affwp_user_1_5"}
	require.NoError(t, s.User().Create(ctx, user))
	assert.Equal(t, int64(6), user.ID)

	count, err = s.User().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	// Повторный логин отклоняется
	assert.Error(t, s.User().Create(ctx, &models.User{Login: "affwp_user_1_5"}))
}

func TestMemoryStoreReferralVisitLink(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	referral := &models.Referral{AffiliateID: 1, Amount: decimal.RequireFromString("12.5"), Status: "unpaid"}
	require.NoError(t, s.Referral().Create(ctx, referral))
	assert.False(t, referral.Date.IsZero())

	visit := &models.Visit{AffiliateID: 1, ReferralID: referral.ID}
	require.NoError(t, s.Visit().Create(ctx, visit))
	require.NoError(t, s.Referral().SetVisitID(ctx, referral.ID, visit.ID))

	stored, err := s.Referral().GetByID(ctx, referral.ID)
	require.NoError(t, err)
	assert.Equal(t, visit.ID, stored.VisitID)

	err = s.Referral().SetVisitID(ctx, 42, visit.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	_, err := s.User().GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Affiliate().GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Creative().GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Visit().GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Affiliate().Create(ctx, &models.Affiliate{UserID: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Affiliates())
}

func TestMemoryStoreWPAffiliateAvailability(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	ok, err := s.WPAffiliate().Available(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	s.SetWPAffiliateAvailable(false)
	ok, err = s.WPAffiliate().Available(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreAcceptsForeignAffiliates(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	// Аффилиаты сайта не загружаются в память, поэтому ссылки на них не проверяются
	referral := &models.Referral{AffiliateID: 20, Amount: decimal.RequireFromString("3"), Status: "paid"}
	require.NoError(t, s.Referral().Create(ctx, referral))
	require.NoError(t, s.Visit().Create(ctx, &models.Visit{AffiliateID: 20, ReferralID: referral.ID}))

	_, err := s.Affiliate().GetByID(ctx, 20)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, s.Referrals(), 1)
	assert.Len(t, s.Visits(), 1)
}
