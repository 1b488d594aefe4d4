package main

import (
	"fmt"
	"time"

	"affwp-generate/internal/generate"
	"affwp-generate/internal/plan"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// entityCommand описывает подкоманду `affwp <entity> generate`
type entityCommand struct {
	name  string
	short string
	flags func(fs *pflag.FlagSet)
}

func formatFlag(fs *pflag.FlagSet) {
	fs.String("format", "ids", "формат вывода: ids или progress")
}

var entityCommands = []entityCommand{
	{
		name:  "affiliate",
		short: "Создать пользователей и аффилиатов",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("count", 10, "количество аффилиатов")
			fs.String("status", "", "статус аффилиатов (по умолчанию active или pending)")
			fs.String("rate", "", "ставка комиссии")
			fs.String("rate_type", "", "тип ставки: percentage или flat")
			fs.Int("visits", 0, "количество визитов на аффилиата")
			fs.Int("referrals", 0, "количество рефералов на аффилиата")
			formatFlag(fs)
		},
	},
	{
		name:  "creative",
		short: "Создать промо-материалы",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("count", 1, "количество промо-материалов")
			fs.String("creative_url", "", "URL промо-материала (по умолчанию SITE_URL/cli)")
			fs.String("text", "", "текст промо-материала (по умолчанию SITE_NAME)")
			formatFlag(fs)
		},
	},
	{
		name:  "referral",
		short: "Создать рефералы для аффилиатов",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("count", 10, "количество рефералов на аффилиата")
			fs.String("affiliate_id", "", "ID аффилиатов через запятую (обязательно)")
			fs.String("status", "", "статус: paid, unpaid, pending, rejected (по умолчанию случайный)")
			fs.String("date", "", "дата: year, past, future или конкретная дата")
			formatFlag(fs)
		},
	},
	{
		name:  "visit",
		short: "Создать визиты для аффилиатов",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("count", 10, "количество визитов на аффилиата")
			fs.String("affiliate_id", "", "ID аффилиатов через запятую (обязательно)")
			fs.String("referral_id", "", "ID рефералов (пока не используется)")
			fs.String("status", "unpaid", "статус рефералов или random")
			fs.String("with_referral", "no", "создавать реферал для каждого визита: yes или no")
			fs.String("referrer", "", "источник перехода")
			fs.String("visit_url", "", "URL визита (по умолчанию SITE_URL/cli)")
			formatFlag(fs)
		},
	},
	{
		name:  "wp-affiliate",
		short: "Создать аккаунты плагина WP Affiliate",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("count", 10, "количество аккаунтов")
			fs.Bool("skip_users", false, "не создавать пользователей")
			fs.String("status", "approved", "статус аккаунта")
			fs.String("rate", "20", "уровень комиссии")
			formatFlag(fs)
		},
	},
}

func (a *app) newEntityCmd(entity entityCommand) *cobra.Command {
	parent := &cobra.Command{
		Use:   entity.name,
		Short: entity.short,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: entity.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerator(cmd, entity.name)
		},
	}
	entity.flags(generateCmd.Flags())

	parent.AddCommand(generateCmd)
	return parent
}

// commandArgs собирает только явно переданные флаги команды
func commandArgs(fs *pflag.FlagSet) generate.Args {
	args := generate.Args{}
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "dry-run" {
			return
		}
		args[f.Name] = f.Value.String()
	})
	return args
}

func (a *app) runGenerator(cmd *cobra.Command, name string) (err error) {
	start := time.Now()
	defer func() { a.finishRun(name, start, err) }()

	args := commandArgs(cmd.Flags())
	format, err := args.Format()
	if err != nil {
		return err
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	generator, ok := a.newSuite(s).Lookup(name)
	if !ok {
		return fmt.Errorf("неизвестная команда %q: %w", name, generate.ErrUsage)
	}

	a.logger.Debug("запуск генерации", zap.String("command", name), zap.Any("args", args))

	ids, err := generator.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	if format == generate.FormatIDs {
		fmt.Fprintln(a.stdout, plan.JoinIDs(ids, " "))
	}
	return nil
}
