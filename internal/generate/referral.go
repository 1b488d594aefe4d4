package generate

import (
	"context"
	"fmt"

	"affwp-generate/pkg/models"

	"go.uber.org/zap"
)

// ReferralOptions содержит разобранные параметры генерации рефералов
type ReferralOptions struct {
	Count        int
	AffiliateIDs []int64
	Status       models.ReferralStatus // пусто = случайный статус для каждого реферала
	Date         DateSpec
	Format       Format
}

// ReferralGenerator создает рефералы для списка аффилиатов
type ReferralGenerator struct {
	env Env
}

// NewReferralGenerator создает генератор рефералов
func NewReferralGenerator(env Env) *ReferralGenerator {
	return &ReferralGenerator{env: env.withDefaults()}
}

// ParseOptions разбирает и дополняет значениями по умолчанию параметры команды
func (g *ReferralGenerator) ParseOptions(args Args) (ReferralOptions, error) {
	var opts ReferralOptions
	var err error

	if opts.Count, err = args.Int("count", 10, 1); err != nil {
		return opts, err
	}
	if opts.AffiliateIDs, err = requireIDList(args, "affiliate_id"); err != nil {
		return opts, err
	}
	if status := args.String("status", ""); status != "" {
		if opts.Status, err = parseStatus(status); err != nil {
			return opts, err
		}
	}
	if opts.Date, err = ParseDateSpec(args.String("date", ""), g.env.Now()); err != nil {
		return opts, err
	}
	if opts.Format, err = args.Format(); err != nil {
		return opts, err
	}

	return opts, nil
}

// Run реализует Generator
func (g *ReferralGenerator) Run(ctx context.Context, args Args) ([]int64, error) {
	opts, err := g.ParseOptions(args)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, opts)
}

// Generate создает opts.Count рефералов для каждого аффилиата в порядке списка
func (g *ReferralGenerator) Generate(ctx context.Context, opts ReferralOptions) ([]int64, error) {
	if len(opts.AffiliateIDs) == 0 {
		return nil, usageErrorf("необходимо указать хотя бы один ID в параметре --affiliate_id")
	}

	observer := g.env.observer(opts.Format)
	ids := make([]int64, 0, prealloc(opts.Count))

	for _, affiliateID := range opts.AffiliateIDs {
		observer.Start(fmt.Sprintf("Generating %d referral(s) for affiliate #%d", opts.Count, affiliateID), opts.Count)

		for i := 1; i <= opts.Count; i++ {
			now := g.env.Now()

			referral := &models.Referral{
				AffiliateID: affiliateID,
				Amount:      randomAmount(g.env.Rand, g.env.Site.CurrencyDecimals),
				Status:      string(g.resolveStatus(opts.Status)),
				Date:        opts.Date.Resolve(i, now),
			}

			if err := g.create(ctx, referral); err != nil {
				return ids, err
			}

			ids = append(ids, referral.ID)
			observer.Tick()
		}

		observer.Finish()
	}

	g.env.Logger.Info("рефералы сгенерированы",
		zap.Int("count", len(ids)),
		zap.Int("affiliates", len(opts.AffiliateIDs)))

	return ids, nil
}

func (g *ReferralGenerator) resolveStatus(status models.ReferralStatus) models.ReferralStatus {
	if status != "" {
		return status
	}
	return randomStatus(g.env.Rand)
}

// create сохраняет реферал и учитывает его в метриках
func (g *ReferralGenerator) create(ctx context.Context, referral *models.Referral) error {
	if err := g.env.Store.Referral().Create(ctx, referral); err != nil {
		return fmt.Errorf("ошибка создания реферала для аффилиата %d: %w", referral.AffiliateID, err)
	}

	amount, _ := referral.Amount.Float64()
	g.env.Metrics.RecordCreated("referral")
	g.env.Metrics.RecordReferralAmount(amount)

	g.env.Logger.Debug("реферал создан",
		zap.Int64("referral_id", referral.ID),
		zap.Int64("affiliate_id", referral.AffiliateID),
		zap.String("amount", referral.Amount.String()),
		zap.String("status", referral.Status))

	return nil
}
