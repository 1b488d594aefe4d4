package generate

import (
	"context"
	"fmt"
	"strings"

	"affwp-generate/pkg/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var rateTypes = map[string]struct{}{
	"percentage": {},
	"flat":       {},
}

// AffiliateOptions содержит разобранные параметры генерации аффилиатов
type AffiliateOptions struct {
	Count     int
	Status    string
	Rate      string // пусто = ставка платформы
	RateType  string
	Visits    int
	Referrals int
	Format    Format
}

type referralGenerator interface {
	Generate(ctx context.Context, opts ReferralOptions) ([]int64, error)
}

type visitGenerator interface {
	Generate(ctx context.Context, opts VisitOptions) ([]int64, error)
}

// AffiliateGenerator создает пользователей и аффилиатов, а затем
// при необходимости рефералы и визиты для каждого из них
type AffiliateGenerator struct {
	env       Env
	referrals referralGenerator
	visits    visitGenerator
}

// NewAffiliateGenerator создает генератор аффилиатов
func NewAffiliateGenerator(env Env, referrals referralGenerator, visits visitGenerator) *AffiliateGenerator {
	return &AffiliateGenerator{
		env:       env.withDefaults(),
		referrals: referrals,
		visits:    visits,
	}
}

// ParseOptions разбирает и дополняет значениями по умолчанию параметры команды
func (g *AffiliateGenerator) ParseOptions(args Args) (AffiliateOptions, error) {
	opts := AffiliateOptions{
		Status:   args.String("status", ""),
		Rate:     strings.TrimSpace(args.String("rate", "")),
		RateType: strings.ToLower(strings.TrimSpace(args.String("rate_type", ""))),
	}
	var err error

	if opts.Count, err = args.Int("count", 10, 0); err != nil {
		return opts, err
	}
	if opts.Visits, err = args.Int("visits", 0, 0); err != nil {
		return opts, err
	}
	if opts.Referrals, err = args.Int("referrals", 0, 0); err != nil {
		return opts, err
	}
	if opts.Rate != "" {
		if _, err := decimal.NewFromString(opts.Rate); err != nil {
			return opts, usageErrorf("параметр rate должен быть десятичным числом, получено %q", opts.Rate)
		}
	}
	if opts.RateType != "" {
		if _, ok := rateTypes[opts.RateType]; !ok {
			return opts, usageErrorf("неизвестный rate_type %q, допустимы: percentage, flat", opts.RateType)
		}
	}
	if opts.Format, err = args.Format(); err != nil {
		return opts, err
	}

	return opts, nil
}

// Run реализует Generator
func (g *AffiliateGenerator) Run(ctx context.Context, args Args) ([]int64, error) {
	opts, err := g.ParseOptions(args)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, opts)
}

// Generate создает opts.Count пользователей и аффилиатов.
// Возвращает только ID аффилиатов, дочерние сущности в результат не входят.
func (g *AffiliateGenerator) Generate(ctx context.Context, opts AffiliateOptions) ([]int64, error) {
	status := g.defaultStatus(opts.Status)
	observer := g.env.observer(opts.Format)

	users, err := createUsers(ctx, g.env, observer, userBatch{
		prefix: "affwp_user",
		salt:   sessionSalt(g.env.Rand, 100, 10000),
		count:  opts.Count,
	})
	if err != nil {
		return nil, err
	}

	observer.Start(fmt.Sprintf("Generating %d affiliate(s)", opts.Count), opts.Count)

	ids := make([]int64, 0, len(users))
	for _, user := range users {
		affiliate := &models.Affiliate{
			UserID:   user.ID,
			Status:   status,
			Rate:     opts.Rate,
			RateType: opts.RateType,
		}

		if err := g.env.Store.Affiliate().Create(ctx, affiliate); err != nil {
			return ids, fmt.Errorf("ошибка создания аффилиата для пользователя %d: %w", user.ID, err)
		}
		g.env.Metrics.RecordCreated("affiliate")

		ids = append(ids, affiliate.ID)
		observer.Tick()
	}

	observer.Finish()

	if err := g.cascade(ctx, ids, opts); err != nil {
		return ids, err
	}

	g.env.Logger.Info("аффилиаты сгенерированы",
		zap.Int("count", len(ids)),
		zap.String("status", status),
		zap.Int("referrals_each", opts.Referrals),
		zap.Int("visits_each", opts.Visits))

	return ids, nil
}

// cascade создает рефералы и визиты для каждого аффилиата по очереди.
// Визиты конвертируются, только если рефералы не запрашивались.
func (g *AffiliateGenerator) cascade(ctx context.Context, affiliateIDs []int64, opts AffiliateOptions) error {
	for _, affiliateID := range affiliateIDs {
		if opts.Referrals > 0 {
			_, err := g.referrals.Generate(ctx, ReferralOptions{
				Count:        opts.Referrals,
				AffiliateIDs: []int64{affiliateID},
				Format:       opts.Format,
			})
			if err != nil {
				return fmt.Errorf("ошибка генерации рефералов для аффилиата %d: %w", affiliateID, err)
			}
		}

		if opts.Visits > 0 {
			_, err := g.visits.Generate(ctx, VisitOptions{
				Count:        opts.Visits,
				AffiliateIDs: []int64{affiliateID},
				WithReferral: opts.Referrals == 0,
				Format:       opts.Format,
			})
			if err != nil {
				return fmt.Errorf("ошибка генерации визитов для аффилиата %d: %w", affiliateID, err)
			}
		}
	}

	return nil
}

func (g *AffiliateGenerator) defaultStatus(status string) string {
	if status != "" {
		return status
	}
	if g.env.Site.RequireApproval {
		return string(models.AffiliateStatusPending)
	}
	return string(models.AffiliateStatusActive)
}
