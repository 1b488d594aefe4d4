package generate

import (
	"context"
	"testing"
	"time"

	"affwp-generate/internal/store"
	"affwp-generate/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReferralGeneratorPerAffiliate(t *testing.T) {
	suite, mem := newTestSuite(t)

	ids, err := suite.Referral.Run(context.Background(), Args{"count": "3", "affiliate_id": "1,2,3"})
	require.NoError(t, err)

	assert.Len(t, ids, 9)
	referrals := mem.Referrals()
	require.Len(t, referrals, 9)

	assert.Equal(t, []int64{1, 1, 1, 2, 2, 2, 3, 3, 3}, affiliateIDsOf(referrals))

	max := decimal.NewFromInt(20)
	for i, r := range referrals {
		assert.Equal(t, ids[i], r.ID)
		assert.True(t, r.Amount.GreaterThanOrEqual(decimal.Zero), r.Amount.String())
		assert.True(t, r.Amount.LessThanOrEqual(max), r.Amount.String())
		assert.True(t, r.Amount.Equal(r.Amount.Round(2)), "сумма округлена до 2 знаков: %s", r.Amount)
		assert.True(t, models.ReferralStatus(r.Status).IsValid(), r.Status)
		assert.Empty(t, r.Campaign)
		assert.Equal(t, fixedNow, r.Date)
	}
}

func TestReferralGeneratorInputOrder(t *testing.T) {
	suite, mem := newTestSuite(t)

	_, err := suite.Referral.Run(context.Background(), Args{"count": "2", "affiliate_id": "9 4"})
	require.NoError(t, err)

	assert.Equal(t, []int64{9, 9, 4, 4}, affiliateIDsOf(mem.Referrals()))
}

func TestReferralGeneratorStatusDrawnPerEntity(t *testing.T) {
	suite, mem := newTestSuite(t)

	_, err := suite.Referral.Run(context.Background(), Args{"count": "200", "affiliate_id": "1"})
	require.NoError(t, err)

	statuses := map[string]int{}
	for _, r := range mem.Referrals() {
		statuses[r.Status]++
	}
	assert.Len(t, statuses, 4, "все статусы встречаются при случайном выборе")
}

func TestReferralGeneratorExplicitStatus(t *testing.T) {
	suite, mem := newTestSuite(t)

	_, err := suite.Referral.Run(context.Background(), Args{"count": "4", "affiliate_id": "1", "status": "paid"})
	require.NoError(t, err)

	for _, r := range mem.Referrals() {
		assert.Equal(t, "paid", r.Status)
	}
}

func TestReferralGeneratorCurrencyPrecision(t *testing.T) {
	mem := store.NewMemoryStore(zap.NewNop())
	env := newTestEnv(mem)
	env.Site.CurrencyDecimals = 0
	suite := NewSuite(env)

	_, err := suite.Referral.Run(context.Background(), Args{"count": "20", "affiliate_id": "1"})
	require.NoError(t, err)

	for _, r := range mem.Referrals() {
		assert.True(t, r.Amount.Equal(r.Amount.Truncate(0)), r.Amount.String())
	}
}

func TestReferralGeneratorDates(t *testing.T) {
	tests := []struct {
		date string
		want []time.Time
	}{
		{"year", []time.Time{day(2026, 1, 1), day(2026, 1, 2), day(2026, 1, 3)}},
		{"past", []time.Time{day(2026, 3, 14), day(2026, 3, 13), day(2026, 3, 12)}},
		{"future", []time.Time{day(2026, 3, 16), day(2026, 3, 17), day(2026, 3, 18)}},
		{"2024-02-29", []time.Time{day(2024, 2, 29), day(2024, 2, 29), day(2024, 2, 29)}},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			suite, mem := newTestSuite(t)

			_, err := suite.Referral.Run(context.Background(), Args{"count": "3", "affiliate_id": "1,2", "date": tt.date})
			require.NoError(t, err)

			referrals := mem.Referrals()
			require.Len(t, referrals, 6)

			// Последовательность дат начинается заново для каждого аффилиата
			for i, r := range referrals {
				assert.Equal(t, tt.want[i%3], r.Date, "реферал %d", r.ID)
			}
		})
	}
}

func TestReferralGeneratorUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{name: "без affiliate_id", args: Args{"count": "3"}},
		{name: "пустой affiliate_id", args: Args{"affiliate_id": ""}},
		{name: "только нули", args: Args{"affiliate_id": "0,0"}},
		{name: "неизвестный статус", args: Args{"affiliate_id": "1", "status": "refunded"}},
		{name: "нулевой count", args: Args{"affiliate_id": "1", "count": "0"}},
		{name: "некорректная дата", args: Args{"affiliate_id": "1", "date": "someday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, mem := newTestSuite(t)

			ids, err := suite.Referral.Run(context.Background(), tt.args)
			assert.ErrorIs(t, err, ErrUsage)
			assert.Empty(t, ids)
			assert.Empty(t, mem.Referrals())
		})
	}
}

func TestReferralGeneratorFailFast(t *testing.T) {
	mem := store.NewMemoryStore(zap.NewNop())
	fs := &failingStore{MemoryStore: mem, remaining: 4}
	suite := NewSuite(newTestEnv(fs))

	ids, err := suite.Referral.Run(context.Background(), Args{"count": "3", "affiliate_id": "1,2"})
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, ids, 4)
	assert.Len(t, mem.Referrals(), 4)
}

func TestReferralGeneratorCanceledContext(t *testing.T) {
	suite, mem := newTestSuite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.Referral.Run(ctx, Args{"count": "3", "affiliate_id": "1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, mem.Referrals())
}

func TestStatusCaseInsensitive(t *testing.T) {
	suite, mem := newTestSuite(t)
	ctx := context.Background()

	_, err := suite.Referral.Run(ctx, Args{"count": "2", "affiliate_id": "1", "status": "Paid"})
	require.NoError(t, err)
	_, err = suite.Visit.Run(ctx, Args{"count": "2", "affiliate_id": "1", "with_referral": "yes", "status": " PAID "})
	require.NoError(t, err)

	referrals := mem.Referrals()
	require.Len(t, referrals, 4)
	for _, r := range referrals {
		assert.Equal(t, "paid", r.Status)
	}
}
