package plan

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"affwp-generate/internal/generate"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Plan описывает последовательность шагов генерации из YAML-файла
type Plan struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step представляет один запуск генератора
type Step struct {
	Name    string                 `yaml:"name"`
	Command string                 `yaml:"command"`
	Options map[string]interface{} `yaml:"options"`
	SaveAs  string                 `yaml:"save_as"`
}

// StepResult содержит ID, созданные шагом
type StepResult struct {
	Name    string
	Command string
	IDs     []int64
}

// Result содержит итог выполнения плана
type Result struct {
	RunID string
	Steps []StepResult
}

// Registry выдает генератор по имени команды
type Registry interface {
	Lookup(name string) (generate.Generator, bool)
}

// Runner выполняет планы поверх набора генераторов
type Runner struct {
	registry Registry
	logger   *zap.Logger
}

// NewRunner создает исполнитель планов
func NewRunner(registry Registry, logger *zap.Logger) *Runner {
	return &Runner{
		registry: registry,
		logger:   logger,
	}
}

// Load читает план из файла
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения плана %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора плана %s: %w", path, err)
	}
	return p, nil
}

// Parse разбирает YAML-план и проверяет его структуру
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", generate.ErrUsage, err)
	}

	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("план не содержит шагов: %w", generate.ErrUsage)
	}

	saved := make(map[string]struct{})
	for i := range p.Steps {
		step := &p.Steps[i]
		if step.Command == "" {
			return nil, fmt.Errorf("шаг %d: не указана команда: %w", i+1, generate.ErrUsage)
		}
		if step.Name == "" {
			step.Name = step.SaveAs
		}
		if step.Name == "" {
			step.Name = fmt.Sprintf("%s#%d", step.Command, i+1)
		}
		if step.SaveAs != "" {
			if _, ok := saved[step.SaveAs]; ok {
				return nil, fmt.Errorf("шаг %d: имя %q уже используется в save_as: %w", i+1, step.SaveAs, generate.ErrUsage)
			}
			saved[step.SaveAs] = struct{}{}
		}
	}

	return &p, nil
}

// Run выполняет шаги плана по порядку. Первая ошибка прерывает план,
// результаты уже выполненных шагов возвращаются вместе с ней.
func (r *Runner) Run(ctx context.Context, p *Plan) (*Result, error) {
	for i, step := range p.Steps {
		if _, ok := r.registry.Lookup(step.Command); !ok {
			return nil, fmt.Errorf("шаг %d: неизвестная команда %q: %w", i+1, step.Command, generate.ErrUsage)
		}
	}

	state := newRunState(uuid.New().String())
	result := &Result{RunID: state.runID}

	logger := r.logger.With(zap.String("plan", p.Name), zap.String("plan_run_id", state.runID))
	logger.Info("запуск плана генерации", zap.Int("steps", len(p.Steps)))

	for i, step := range p.Steps {
		args, err := state.args(step.Options)
		if err != nil {
			return result, fmt.Errorf("шаг %q: %w", step.Name, err)
		}

		generator, _ := r.registry.Lookup(step.Command)

		start := time.Now()
		ids, err := generator.Run(ctx, args)
		if err != nil {
			logger.Error("шаг плана завершился ошибкой",
				zap.String("step", step.Name),
				zap.Int("index", i+1),
				zap.Error(err))
			return result, fmt.Errorf("шаг %q: %w", step.Name, err)
		}

		if step.SaveAs != "" {
			state.save(step.SaveAs, ids)
		}

		result.Steps = append(result.Steps, StepResult{
			Name:    step.Name,
			Command: step.Command,
			IDs:     ids,
		})

		logger.Info("шаг плана выполнен",
			zap.String("step", step.Name),
			zap.Int("created", len(ids)),
			zap.Duration("duration", time.Since(start)))
	}

	return result, nil
}

// runState хранит сохраненные через save_as результаты шагов
type runState struct {
	runID string
	vars  map[string]string
}

func newRunState(runID string) *runState {
	return &runState{
		runID: runID,
		vars:  make(map[string]string),
	}
}

func (s *runState) save(name string, ids []int64) {
	s.vars[name] = JoinIDs(ids, ",")
}

var varPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// args превращает параметры шага в строки и подставляет {{переменные}}
func (s *runState) args(options map[string]interface{}) (generate.Args, error) {
	args := make(generate.Args, len(options))

	for key, raw := range options {
		value, err := s.interpolate(optionString(raw))
		if err != nil {
			return nil, fmt.Errorf("параметр %s: %w", key, err)
		}
		args[key] = value
	}

	return args, nil
}

func (s *runState) interpolate(value string) (string, error) {
	var missing string

	out := varPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])

		switch name {
		case "run_id":
			return s.runID
		case "timestamp":
			return strconv.FormatInt(time.Now().Unix(), 10)
		}

		if v, ok := s.vars[name]; ok {
			return v
		}
		if v := os.Getenv(name); v != "" {
			return v
		}

		if missing == "" {
			missing = name
		}
		return match
	})

	if missing != "" {
		return "", fmt.Errorf("неизвестная переменная {{%s}}: %w", missing, generate.ErrUsage)
	}
	return out, nil
}

// optionString приводит значение YAML к строковому параметру команды.
// Списки склеиваются через запятую, пустое значение означает флаг.
func optionString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = optionString(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

// JoinIDs склеивает ID через разделитель
func JoinIDs(ids []int64, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, sep)
}
