package generate

import (
	"context"
	"fmt"

	"affwp-generate/pkg/models"

	"go.uber.org/zap"
)

const (
	creativeName        = "Generated Creative"
	creativeDescription = "CLI generated creative."
	creativeStatus      = "active"
)

// CreativeOptions содержит разобранные параметры генерации промо-материалов
type CreativeOptions struct {
	Count  int
	URL    string
	Text   string
	Format Format
}

// CreativeGenerator создает промо-материалы
type CreativeGenerator struct {
	env Env
}

// NewCreativeGenerator создает генератор промо-материалов
func NewCreativeGenerator(env Env) *CreativeGenerator {
	return &CreativeGenerator{env: env.withDefaults()}
}

// ParseOptions разбирает и дополняет значениями по умолчанию параметры команды
func (g *CreativeGenerator) ParseOptions(args Args) (CreativeOptions, error) {
	opts := CreativeOptions{
		URL:  args.String("creative_url", ""),
		Text: args.String("text", ""),
	}
	var err error

	if opts.Count, err = args.Int("count", 1, 1); err != nil {
		return opts, err
	}
	if opts.Format, err = args.Format(); err != nil {
		return opts, err
	}

	return opts, nil
}

// Run реализует Generator
func (g *CreativeGenerator) Run(ctx context.Context, args Args) ([]int64, error) {
	opts, err := g.ParseOptions(args)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, opts)
}

// Generate создает opts.Count промо-материалов
func (g *CreativeGenerator) Generate(ctx context.Context, opts CreativeOptions) ([]int64, error) {
	if opts.URL == "" {
		opts.URL = g.env.Site.SiteURL("cli")
	}
	if opts.Text == "" {
		opts.Text = g.env.Site.Name
	}

	observer := g.env.observer(opts.Format)
	observer.Start(fmt.Sprintf("Generating %d creative(s)", opts.Count), opts.Count)

	ids := make([]int64, 0, prealloc(opts.Count))
	for i := 1; i <= opts.Count; i++ {
		creative := &models.Creative{
			Name:        creativeName,
			Description: creativeDescription,
			URL:         opts.URL,
			Text:        opts.Text,
			Status:      creativeStatus,
		}

		if err := g.env.Store.Creative().Create(ctx, creative); err != nil {
			return ids, fmt.Errorf("ошибка создания промо-материала: %w", err)
		}
		g.env.Metrics.RecordCreated("creative")

		ids = append(ids, creative.ID)
		observer.Tick()
	}

	observer.Finish()

	g.env.Logger.Info("промо-материалы сгенерированы",
		zap.Int("count", len(ids)),
		zap.String("url", opts.URL))

	return ids, nil
}
