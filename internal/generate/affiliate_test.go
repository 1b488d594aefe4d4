package generate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"affwp-generate/internal/store"
	"affwp-generate/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAffiliateGeneratorCreatesUsersAndAffiliates(t *testing.T) {
	for _, count := range []int{0, 1, 3, 10} {
		t.Run(fmt.Sprintf("count=%d", count), func(t *testing.T) {
			suite, mem := newTestSuite(t)

			ids, err := suite.Affiliate.Run(context.Background(), Args{"count": fmt.Sprint(count)})
			require.NoError(t, err)

			assert.Len(t, ids, count)
			assert.Len(t, mem.Users(), count)
			assert.Len(t, mem.Affiliates(), count)
		})
	}
}

func TestAffiliateGeneratorDefaultCount(t *testing.T) {
	suite, mem := newTestSuite(t)

	ids, err := suite.Affiliate.Run(context.Background(), Args{})
	require.NoError(t, err)

	assert.Len(t, ids, 10)
	assert.Len(t, mem.Users(), 10)
}

func TestAffiliateGeneratorUserFields(t *testing.T) {
	suite, mem := newTestSuite(t)
	mem.SetExistingUsers(7)

	_, err := suite.Affiliate.Run(context.Background(), Args{"count": "3", "rate": "0.15", "rate_type": "percentage"})
	require.NoError(t, err)

	users := mem.Users()
	require.Len(t, users, 3)

	var salt string
	for i, u := range users {
		index := 7 + i
		parts := strings.Split(u.Login, "_")
		require.Len(t, parts, 4, u.Login)

		assert.Equal(t, "affwp", parts[0])
		assert.Equal(t, fmt.Sprint(index), parts[3])
		if salt == "" {
			salt = parts[2]
		}
		assert.Equal(t, salt, parts[2], "соль одна на запуск")

		assert.Equal(t, u.Login, u.Password)
		assert.Equal(t, fmt.Sprintf("AffWP User %d", index), u.DisplayName)
		assert.Equal(t, u.DisplayName, u.Nickname)
		assert.Equal(t, "subscriber", u.Role)
	}

	for i, a := range mem.Affiliates() {
		assert.Equal(t, users[i].ID, a.UserID)
		assert.Equal(t, "active", a.Status)
		assert.Equal(t, "0.15", a.Rate)
		assert.Equal(t, "percentage", a.RateType)
	}
}

func TestAffiliateGeneratorStatus(t *testing.T) {
	tests := []struct {
		name            string
		requireApproval bool
		status          string
		want            string
	}{
		{name: "по умолчанию active", want: "active"},
		{name: "требуется одобрение", requireApproval: true, want: "pending"},
		{name: "явный статус", requireApproval: true, status: "inactive", want: "inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := store.NewMemoryStore(zap.NewNop())
			env := newTestEnv(mem)
			env.Site.RequireApproval = tt.requireApproval
			suite := NewSuite(env)

			args := Args{"count": "2"}
			if tt.status != "" {
				args["status"] = tt.status
			}

			_, err := suite.Affiliate.Run(context.Background(), args)
			require.NoError(t, err)

			for _, a := range mem.Affiliates() {
				assert.Equal(t, tt.want, a.Status)
			}
		})
	}
}

func TestAffiliateGeneratorInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{name: "отрицательный count", args: Args{"count": "-1"}},
		{name: "rate не число", args: Args{"rate": "abc"}},
		{name: "неизвестный rate_type", args: Args{"rate_type": "bogus"}},
		{name: "отрицательные visits", args: Args{"visits": "-2"}},
		{name: "неизвестный format", args: Args{"format": "csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, mem := newTestSuite(t)

			_, err := suite.Affiliate.Run(context.Background(), tt.args)
			assert.ErrorIs(t, err, ErrUsage)
			assert.Empty(t, mem.Users())
		})
	}
}

func TestAffiliateGeneratorWithVisits(t *testing.T) {
	suite, mem := newTestSuite(t)

	ids, err := suite.Affiliate.Run(context.Background(), Args{"count": "3", "visits": "2"})
	require.NoError(t, err)

	assert.Len(t, ids, 3)
	assert.Len(t, mem.Users(), 3)
	assert.Len(t, mem.Affiliates(), 3)

	visits := mem.Visits()
	require.Len(t, visits, 6)

	perAffiliate := map[int64]int{}
	for _, v := range visits {
		perAffiliate[v.AffiliateID]++
		// Без запрошенных рефералов визиты конвертируются
		assert.True(t, v.IsConverted())
	}
	for _, id := range ids {
		assert.Equal(t, 2, perAffiliate[id])
	}

	assert.Len(t, mem.Referrals(), 6)
}

func TestAffiliateGeneratorWithReferralsAndVisits(t *testing.T) {
	suite, mem := newTestSuite(t)

	ids, err := suite.Affiliate.Run(context.Background(), Args{"count": "3", "referrals": "2", "visits": "1"})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	referrals := mem.Referrals()
	require.Len(t, referrals, 6)
	for _, r := range referrals {
		assert.Zero(t, r.VisitID)
	}

	visits := mem.Visits()
	require.Len(t, visits, 3)
	for i, v := range visits {
		assert.Equal(t, ids[i], v.AffiliateID)
		assert.False(t, v.IsConverted())
	}

	// Рефералы и визиты создаются аффилиат за аффилиатом
	assert.Equal(t, []int64{ids[0], ids[0], ids[1], ids[1], ids[2], ids[2]}, affiliateIDsOf(referrals))
}

func TestAffiliateGeneratorRunsNeverCollide(t *testing.T) {
	suite, mem := newTestSuite(t)
	ctx := context.Background()

	_, err := suite.Affiliate.Run(ctx, Args{"count": "5"})
	require.NoError(t, err)
	_, err = suite.Affiliate.Run(ctx, Args{"count": "5"})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, u := range mem.Users() {
		assert.False(t, seen[u.Login], "логин %s повторяется", u.Login)
		seen[u.Login] = true
	}
	assert.Len(t, seen, 10)
}

func TestAffiliateGeneratorFailFast(t *testing.T) {
	mem := store.NewMemoryStore(zap.NewNop())
	fs := &failingStore{MemoryStore: mem, remaining: 3}
	suite := NewSuite(newTestEnv(fs))

	ids, err := suite.Affiliate.Run(context.Background(), Args{"count": "2", "referrals": "2", "visits": "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	// Уже созданные сущности не откатываются, дальнейшая генерация прерывается
	assert.Len(t, ids, 2)
	assert.Len(t, mem.Affiliates(), 2)
	assert.Len(t, mem.Referrals(), 3)
	assert.Len(t, mem.Visits(), 1)
}

func TestAffiliateGeneratorProgressLabels(t *testing.T) {
	mem := store.NewMemoryStore(zap.NewNop())
	obs := &recordingObserver{}
	env := newTestEnv(mem)
	env.Progress = obs
	suite := NewSuite(env)

	_, err := suite.Affiliate.Run(context.Background(), Args{"count": "1", "visits": "2", "format": "progress"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Generating 1 user(s) for affiliates",
		"Generating 1 affiliate(s)",
		"Generating 2 converted visit(s) for affiliate #1",
	}, obs.starts)
	assert.Equal(t, 4, obs.ticks)
	assert.Equal(t, 3, obs.finishes)
}

func affiliateIDsOf(referrals []models.Referral) []int64 {
	ids := make([]int64, len(referrals))
	for i, r := range referrals {
		ids[i] = r.AffiliateID
	}
	return ids
}
