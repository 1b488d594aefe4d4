package generate

import (
	"context"
	"fmt"
	"strings"

	"affwp-generate/pkg/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	wpAffiliateStatus    = "approved"
	wpAffiliateRate      = "20"
	wpAffiliateFirstName = "WP Affiliate"
)

// WPAffiliateOptions содержит разобранные параметры генерации аккаунтов WP Affiliate
type WPAffiliateOptions struct {
	Count     int
	SkipUsers bool
	Status    string
	Rate      string
	Format    Format
}

// WPAffiliateGenerator создает аккаунты стороннего плагина WP Affiliate
type WPAffiliateGenerator struct {
	env Env
}

// NewWPAffiliateGenerator создает генератор аккаунтов WP Affiliate
func NewWPAffiliateGenerator(env Env) *WPAffiliateGenerator {
	return &WPAffiliateGenerator{env: env.withDefaults()}
}

// ParseOptions разбирает и дополняет значениями по умолчанию параметры команды
func (g *WPAffiliateGenerator) ParseOptions(args Args) (WPAffiliateOptions, error) {
	opts := WPAffiliateOptions{
		Status: strings.TrimSpace(args.String("status", "")),
		Rate:   strings.TrimSpace(args.String("rate", wpAffiliateRate)),
	}
	var err error

	if opts.Count, err = args.Int("count", 10, 0); err != nil {
		return opts, err
	}
	if opts.SkipUsers, err = args.Flag("skip_users"); err != nil {
		return opts, err
	}
	if opts.Rate != "" {
		if _, err := decimal.NewFromString(opts.Rate); err != nil {
			return opts, usageErrorf("параметр rate должен быть десятичным числом, получено %q", opts.Rate)
		}
	}
	if opts.Format, err = args.Format(); err != nil {
		return opts, err
	}

	return opts, nil
}

// Run реализует Generator
func (g *WPAffiliateGenerator) Run(ctx context.Context, args Args) ([]int64, error) {
	opts, err := g.ParseOptions(args)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, opts)
}

// Generate создает opts.Count аккаунтов WP Affiliate. Если таблицы плагина
// недоступны, возвращает ErrDependencyUnavailable до создания каких-либо сущностей.
func (g *WPAffiliateGenerator) Generate(ctx context.Context, opts WPAffiliateOptions) ([]int64, error) {
	available, err := g.env.Store.WPAffiliate().Available(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки плагина WP Affiliate: %w", err)
	}
	if !available {
		return nil, fmt.Errorf("плагин WP Affiliate не установлен или не активирован: %w", ErrDependencyUnavailable)
	}

	if opts.Status == "" {
		opts.Status = wpAffiliateStatus
	}

	batch := userBatch{
		prefix:    "wp_affiliate_user",
		salt:      sessionSalt(g.env.Rand, 1000, 100000),
		count:     opts.Count,
		withEmail: true,
	}
	observer := g.env.observer(opts.Format)

	var users []models.User
	if !opts.SkipUsers {
		if users, err = createUsers(ctx, g.env, observer, batch); err != nil {
			return nil, err
		}
	}

	observer.Start(fmt.Sprintf("Generating %d WP Affiliate account(s)", opts.Count), opts.Count)

	today := midnight(g.env.Now())
	ids := make([]int64, 0, prealloc(opts.Count))

	for i := 1; i <= opts.Count; i++ {
		// без создания пользователей логины синтезируются по тому же шаблону
		login := batch.login(int64(i))
		if !opts.SkipUsers {
			login = users[i-1].Login
		}

		hash, err := strongPassword()
		if err != nil {
			return ids, err
		}

		email := login + "@" + g.env.Site.EmailDomain
		account := &models.WPAffiliateAccount{
			RefID:           login,
			PasswordHash:    hash,
			Email:           email,
			FirstName:       wpAffiliateFirstName,
			LastName:        fmt.Sprintf("User %d", i),
			Date:            today,
			CommissionLevel: opts.Rate,
			PayPalEmail:     email,
			Referrer:        "",
			AccountStatus:   opts.Status,
		}

		if err := g.env.Store.WPAffiliate().Create(ctx, account); err != nil {
			return ids, fmt.Errorf("ошибка создания аккаунта WP Affiliate %s: %w", login, err)
		}
		g.env.Metrics.RecordCreated("wp_affiliate")

		ids = append(ids, account.ID)
		observer.Tick()
	}

	observer.Finish()

	g.env.Logger.Info("аккаунты WP Affiliate сгенерированы",
		zap.Int("count", len(ids)),
		zap.Bool("skip_users", opts.SkipUsers),
		zap.String("status", opts.Status))

	return ids, nil
}
