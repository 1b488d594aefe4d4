package generate

import (
	"context"
	"fmt"
	"strings"

	"affwp-generate/pkg/models"

	"go.uber.org/zap"
)

const statusRandom = "random"

// VisitOptions содержит разобранные параметры генерации визитов
type VisitOptions struct {
	Count        int
	AffiliateIDs []int64
	ReferralIDs  []int64 // принимается, но пока не используется
	Status       models.ReferralStatus
	RandomStatus bool
	WithReferral bool
	Referrer     string
	URL          string
	Format       Format
}

// VisitGenerator создает визиты, при необходимости конвертированные в рефералы
type VisitGenerator struct {
	env       Env
	referrals *ReferralGenerator
}

// NewVisitGenerator создает генератор визитов
func NewVisitGenerator(env Env, referrals *ReferralGenerator) *VisitGenerator {
	return &VisitGenerator{
		env:       env.withDefaults(),
		referrals: referrals,
	}
}

// ParseOptions разбирает и дополняет значениями по умолчанию параметры команды
func (g *VisitGenerator) ParseOptions(args Args) (VisitOptions, error) {
	opts := VisitOptions{
		Status:   models.ReferralStatusUnpaid,
		Referrer: args.String("referrer", ""),
		URL:      args.String("visit_url", g.env.Site.SiteURL("cli")),
	}
	var err error

	if opts.Count, err = args.Int("count", 10, 1); err != nil {
		return opts, err
	}
	if opts.AffiliateIDs, err = requireIDList(args, "affiliate_id"); err != nil {
		return opts, err
	}
	if opts.ReferralIDs, err = ParseIDList(args.String("referral_id", "")); err != nil {
		return opts, err
	}

	switch status := strings.ToLower(strings.TrimSpace(args.String("status", ""))); status {
	case "":
	case statusRandom:
		opts.RandomStatus = true
	default:
		if opts.Status, err = parseStatus(status); err != nil {
			return opts, err
		}
	}

	switch withReferral := strings.ToLower(args.String("with_referral", "no")); withReferral {
	case "yes":
		opts.WithReferral = true
	case "no", "":
	default:
		return opts, usageErrorf("параметр with_referral принимает yes или no, получено %q", withReferral)
	}

	if opts.URL == "" {
		opts.URL = g.env.Site.SiteURL("cli")
	}
	if opts.Format, err = args.Format(); err != nil {
		return opts, err
	}

	return opts, nil
}

// Run реализует Generator
func (g *VisitGenerator) Run(ctx context.Context, args Args) ([]int64, error) {
	opts, err := g.ParseOptions(args)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, opts)
}

// Generate создает opts.Count визитов для каждого аффилиата.
// С WithReferral перед каждым визитом создается реферал, которому
// после создания визита записывается его ID.
func (g *VisitGenerator) Generate(ctx context.Context, opts VisitOptions) ([]int64, error) {
	if len(opts.AffiliateIDs) == 0 {
		return nil, usageErrorf("необходимо указать хотя бы один ID в параметре --affiliate_id")
	}
	if len(opts.ReferralIDs) > 0 {
		g.env.Logger.Warn("параметр referral_id пока не используется",
			zap.Int64s("referral_ids", opts.ReferralIDs))
	}

	if opts.URL == "" {
		opts.URL = g.env.Site.SiteURL("cli")
	}

	kind := "unconverted"
	if opts.WithReferral {
		kind = "converted"
	}

	observer := g.env.observer(opts.Format)
	ids := make([]int64, 0, prealloc(opts.Count))

	for _, affiliateID := range opts.AffiliateIDs {
		observer.Start(fmt.Sprintf("Generating %d %s visit(s) for affiliate #%d", opts.Count, kind, affiliateID), opts.Count)

		for i := 1; i <= opts.Count; i++ {
			visitID, err := g.createOne(ctx, affiliateID, opts)
			if err != nil {
				return ids, err
			}

			ids = append(ids, visitID)
			observer.Tick()
		}

		observer.Finish()
	}

	g.env.Logger.Info("визиты сгенерированы",
		zap.Int("count", len(ids)),
		zap.Int("affiliates", len(opts.AffiliateIDs)),
		zap.Bool("with_referral", opts.WithReferral))

	return ids, nil
}

func (g *VisitGenerator) createOne(ctx context.Context, affiliateID int64, opts VisitOptions) (int64, error) {
	visit := &models.Visit{
		AffiliateID: affiliateID,
		URL:         opts.URL,
		Referrer:    opts.Referrer,
	}

	if opts.WithReferral {
		status := opts.Status
		switch {
		case opts.RandomStatus:
			status = randomStatus(g.env.Rand)
		case status == "":
			status = models.ReferralStatusUnpaid
		}

		referral := &models.Referral{
			AffiliateID: affiliateID,
			Amount:      randomAmount(g.env.Rand, g.env.Site.CurrencyDecimals),
			Status:      string(status),
			Date:        g.env.Now(),
		}
		if err := g.referrals.create(ctx, referral); err != nil {
			return 0, err
		}
		visit.ReferralID = referral.ID
	}

	if err := g.env.Store.Visit().Create(ctx, visit); err != nil {
		return 0, fmt.Errorf("ошибка создания визита для аффилиата %d: %w", affiliateID, err)
	}
	g.env.Metrics.RecordCreated("visit")

	if visit.IsConverted() {
		if err := g.env.Store.Referral().SetVisitID(ctx, visit.ReferralID, visit.ID); err != nil {
			return 0, fmt.Errorf("ошибка привязки визита %d к рефералу %d: %w", visit.ID, visit.ReferralID, err)
		}
	}

	g.env.Logger.Debug("визит создан",
		zap.Int64("visit_id", visit.ID),
		zap.Int64("affiliate_id", affiliateID),
		zap.Int64("referral_id", visit.ReferralID))

	return visit.ID, nil
}
