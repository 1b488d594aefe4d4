package generate

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"affwp-generate/internal/config"
	"affwp-generate/internal/progress"
	"affwp-generate/internal/store"

	"go.uber.org/zap"
)

// Generator создает пачку сущностей по именованным параметрам команды
// и возвращает ID созданных записей в порядке создания.
type Generator interface {
	Run(ctx context.Context, args Args) ([]int64, error)
}

// Format определяет, как команда сообщает о результате
type Format string

const (
	FormatIDs      Format = "ids"
	FormatProgress Format = "progress"
)

// ParseFormat разбирает значение параметра format; пустое значение означает ids
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatIDs:
		return FormatIDs, nil
	case FormatProgress:
		return FormatProgress, nil
	default:
		return "", usageErrorf("неизвестный format %q, допустимы: ids, progress", value)
	}
}

// Args содержит именованные параметры команды в виде строк.
// Отсутствующий ключ означает, что параметр не передан.
type Args map[string]string

// Has сообщает, передан ли параметр
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String возвращает значение параметра или def, если параметр не передан
func (a Args) String(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

// Int возвращает целочисленный параметр не меньше min
func (a Args) Int(key string, def, min int) (int, error) {
	v, ok := a[key]
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, usageErrorf("параметр %s должен быть числом, получено %q", key, v)
	}
	if n < min {
		return 0, usageErrorf("параметр %s должен быть не меньше %d, получено %d", key, min, n)
	}
	return n, nil
}

// Flag возвращает значение булева флага; флаг без значения считается установленным
func (a Args) Flag(key string) (bool, error) {
	v, ok := a[key]
	if !ok {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	default:
		return false, usageErrorf("параметр %s должен быть флагом, получено %q", key, v)
	}
}

// Format возвращает разобранный параметр format
func (a Args) Format() (Format, error) {
	return ParseFormat(a.String("format", ""))
}

// maxPrealloc ограничивает заранее выделяемую емкость: count не ограничен сверху
const maxPrealloc = 1024

func prealloc(n int) int {
	return min(max(n, 0), maxPrealloc)
}

// Recorder принимает события генерации для метрик
type Recorder interface {
	RecordCreated(entity string)
	RecordReferralAmount(amount float64)
}

type nopRecorder struct{}

func (nopRecorder) RecordCreated(string)         {}
func (nopRecorder) RecordReferralAmount(float64) {}

// Env содержит зависимости, общие для всех генераторов
type Env struct {
	Store    store.Store
	Site     config.SiteConfig
	Logger   *zap.Logger
	Metrics  Recorder
	Progress progress.Observer
	Rand     *rand.Rand
	Now      func() time.Time
}

func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if e.Metrics == nil {
		e.Metrics = nopRecorder{}
	}
	if e.Progress == nil {
		e.Progress = progress.Nop{}
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	return e
}

// observer возвращает наблюдатель прогресса для выбранного формата
func (e Env) observer(format Format) progress.Observer {
	if format == FormatProgress {
		return e.Progress
	}
	return progress.Nop{}
}

// Suite связывает генераторы между собой и выдает их по имени команды
type Suite struct {
	Affiliate   *AffiliateGenerator
	Creative    *CreativeGenerator
	Referral    *ReferralGenerator
	Visit       *VisitGenerator
	WPAffiliate *WPAffiliateGenerator

	byName map[string]Generator
}

// NewSuite создает все генераторы поверх общего окружения
func NewSuite(env Env) *Suite {
	env = env.withDefaults()

	referral := NewReferralGenerator(env)
	visit := NewVisitGenerator(env, referral)

	s := &Suite{
		Affiliate:   NewAffiliateGenerator(env, referral, visit),
		Creative:    NewCreativeGenerator(env),
		Referral:    referral,
		Visit:       visit,
		WPAffiliate: NewWPAffiliateGenerator(env),
	}

	s.byName = map[string]Generator{
		"affiliate":    s.Affiliate,
		"creative":     s.Creative,
		"referral":     s.Referral,
		"visit":        s.Visit,
		"wp-affiliate": s.WPAffiliate,
	}

	return s
}

// Lookup возвращает генератор по имени команды
func (s *Suite) Lookup(name string) (Generator, bool) {
	g, ok := s.byName[name]
	return g, ok
}

// Names возвращает отсортированный список имен команд
func (s *Suite) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
