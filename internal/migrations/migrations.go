package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"affwp-generate/internal/config"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var embedded embed.FS

const embeddedDir = "sql"

// RunMigrations применяет миграции к базе данных
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("начало применения миграций")

	db, dir, err := prepare(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	logger.Info("миграции успешно применены")
	return nil
}

// RollbackMigration откатывает последнюю примененную миграцию
func RollbackMigration(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("откат последней миграции")

	db, dir, err := prepare(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Down(db, dir); err != nil {
		return fmt.Errorf("ошибка отката миграции: %w", err)
	}

	logger.Info("миграция откачена")
	return nil
}

// GetMigrationStatus возвращает статус миграций
func GetMigrationStatus(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("проверка статуса миграций")

	db, dir, err := prepare(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Status(db, dir); err != nil {
		return fmt.Errorf("ошибка получения статуса миграций: %w", err)
	}

	logger.Info("статус миграций получен")
	return nil
}

// prepare открывает временное подключение и выбирает источник миграций
func prepare(cfg *config.Config, logger *zap.Logger) (*sql.DB, string, error) {
	if err := cfg.Database.Validate(); err != nil {
		return nil, "", err
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, "", fmt.Errorf("ошибка установки диалекта: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.GetURL())
	if err != nil {
		return nil, "", fmt.Errorf("ошибка подключения к базе данных для миграций: %w", err)
	}

	if path, ok := getMigrationPath(cfg.Database.MigrationPath, logger); ok {
		goose.SetBaseFS(nil)
		return db, path, nil
	}

	goose.SetBaseFS(embedded)
	return db, embeddedDir, nil
}

// getMigrationPath ищет каталог миграций на диске; если его нет, используются встроенные
func getMigrationPath(configPath string, logger *zap.Logger) (string, bool) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			logger.Info("используем путь к миграциям из конфигурации", zap.String("path", configPath))
			return configPath, true
		}
	}

	currentDir, err := os.Getwd()
	if err != nil {
		logger.Warn("не удалось получить текущую директорию, используем встроенные миграции", zap.Error(err))
		return "", false
	}

	possiblePaths := []string{
		filepath.Join(currentDir, "scripts", "migrations"),
		filepath.Join(currentDir, "..", "scripts", "migrations"),
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			logger.Info("найден путь к миграциям", zap.String("path", path))
			return path, true
		}
	}

	logger.Debug("каталог миграций не найден, используем встроенные миграции")
	return "", false
}
