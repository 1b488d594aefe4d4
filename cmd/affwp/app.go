package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"affwp-generate/internal/config"
	"affwp-generate/internal/generate"
	"affwp-generate/internal/metrics"
	"affwp-generate/internal/progress"
	"affwp-generate/internal/store"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app содержит состояние одного запуска CLI
type app struct {
	stdout io.Writer
	stderr io.Writer

	dryRun bool

	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	runID   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "affwp",
		Short:         "Генератор тестовых данных для AffiliateWP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.close()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "генерировать в памяти, ничего не сохраняя")

	for _, entity := range entityCommands {
		root.AddCommand(a.newEntityCmd(entity))
	}
	root.AddCommand(a.newPlanCmd())
	root.AddCommand(a.newMigrateCmd())

	return root
}

// init загружает конфигурацию и создает логгер и метрики
func (a *app) init() error {
	driver := ""
	if a.dryRun {
		driver = config.DriverMemory
	}

	cfg, err := config.LoadWithDriver(driver)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	a.cfg = cfg

	a.runID = uuid.New().String()
	logger, err := initLogger(cfg, a.stderr)
	if err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	a.logger = logger.With(zap.String("run_id", a.runID))
	a.metrics = metrics.New(a.logger)

	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// initLogger пишет логи в stderr, чтобы stdout оставался чистым для ID
func initLogger(cfg *config.Config, w io.Writer) (*zap.Logger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	if cfg.App.IsProduction() {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), cfg.App.GetLogLevel())
	return zap.New(core, zap.AddCaller()), nil
}

// openStore выбирает хранилище по драйверу из конфигурации
func (a *app) openStore() (store.Store, error) {
	if a.cfg.Store.Driver == config.DriverMemory {
		a.logger.Info("dry-run: сущности создаются только в памяти")
		return store.NewMemoryStore(a.logger), nil
	}

	s, err := store.NewStore(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к хранилищу: %w", err)
	}
	return s, nil
}

// newSuite собирает генераторы поверх открытого хранилища
func (a *app) newSuite(s store.Store) *generate.Suite {
	return generate.NewSuite(generate.Env{
		Store:    s,
		Site:     a.cfg.Site,
		Logger:   a.logger,
		Metrics:  a.metrics,
		Progress: progress.NewBar(a.stdout),
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:      time.Now,
	})
}

// finishRun фиксирует итог команды в метриках и выгружает их в файл
func (a *app) finishRun(command string, start time.Time, runErr error) {
	a.metrics.RecordRun(command, runErr == nil, time.Since(start).Seconds())

	if err := a.metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
		a.logger.Warn("не удалось выгрузить метрики", zap.Error(err))
	}
}
