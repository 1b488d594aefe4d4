package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics содержит все метрики генератора
type Metrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// Счетчики
	generated *prometheus.CounterVec
	failures  *prometheus.CounterVec

	// Гистограммы
	referralAmount prometheus.Histogram
	runDuration    *prometheus.HistogramVec

	// Мьютекс для thread-safety
	mu sync.RWMutex
}

// New создает новый экземпляр метрик с собственным реестром
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger:   logger,
		registry: prometheus.NewRegistry(),

		// Счетчик созданных сущностей
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affwp_generated_entities_total",
				Help: "Общее количество сгенерированных сущностей",
			},
			[]string{"entity"}, // user, affiliate, creative, referral, visit, wp_affiliate
		),

		// Счетчик неудачных запусков
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affwp_generation_failures_total",
				Help: "Количество прерванных запусков генерации",
			},
			[]string{"command"},
		),

		// Гистограмма сумм рефералов
		referralAmount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "affwp_referral_amount",
				Help:    "Суммы сгенерированных рефералов",
				Buckets: []float64{1, 2, 5, 10, 15, 20},
			},
		),

		// Гистограмма длительности запуска
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "affwp_generation_duration_seconds",
				Help:    "Длительность запуска генерации в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}

	// Регистрируем все метрики
	m.registry.MustRegister(
		m.generated,
		m.failures,
		m.referralAmount,
		m.runDuration,
	)

	return m
}

// IncrementCounter увеличивает счетчик
func (m *Metrics) IncrementCounter(name string, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var counter *prometheus.CounterVec

	switch name {
	case "affwp_generated_entities_total":
		counter = m.generated
	case "affwp_generation_failures_total":
		counter = m.failures
	default:
		m.logger.Error("неизвестная метрика", zap.String("name", name))
		return
	}

	counter.WithLabelValues(labels...).Inc()
}

// ObserveHistogram добавляет наблюдение в гистограмму
func (m *Metrics) ObserveHistogram(name string, value float64, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch name {
	case "affwp_referral_amount":
		m.referralAmount.Observe(value)
	case "affwp_generation_duration_seconds":
		m.runDuration.WithLabelValues(labels...).Observe(value)
	default:
		m.logger.Error("неизвестная гистограмма", zap.String("name", name))
	}
}

// RecordCreated записывает создание сущности
func (m *Metrics) RecordCreated(entity string) {
	m.IncrementCounter("affwp_generated_entities_total", entity)
}

// RecordReferralAmount записывает сумму сгенерированного реферала
func (m *Metrics) RecordReferralAmount(amount float64) {
	m.ObserveHistogram("affwp_referral_amount", amount)
}

// RecordRun записывает итог запуска команды
func (m *Metrics) RecordRun(command string, success bool, seconds float64) {
	if !success {
		m.IncrementCounter("affwp_generation_failures_total", command)
	}
	m.ObserveHistogram("affwp_generation_duration_seconds", seconds, command)
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile сохраняет метрики в файл для textfile-коллектора node_exporter
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("ошибка записи метрик в %s: %w", path, err)
	}

	m.logger.Debug("метрики записаны", zap.String("path", path))
	return nil
}
