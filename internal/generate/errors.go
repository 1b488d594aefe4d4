package generate

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage возвращается при отсутствующих или некорректных параметрах команды
	ErrUsage = errors.New("неверные параметры команды")

	// ErrDependencyUnavailable возвращается, когда необходимый плагин или API недоступен
	ErrDependencyUnavailable = errors.New("зависимость недоступна")
)

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUsage)
}
