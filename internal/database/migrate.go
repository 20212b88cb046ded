package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"todoTracker/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateURL переводит postgres:// в схему драйвера pgx/v5 для golang-migrate
func migrateURL(url string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(url, prefix) {
			return "pgx5://" + strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

func newMigrator(url string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("источник миграций: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(url))
	if err != nil {
		return nil, fmt.Errorf("инициализация миграций: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		logger.Warn("Repository: Ошибка закрытия миграций",
			zap.NamedError("source", srcErr),
			zap.NamedError("database", dbErr))
	}
}

func MigrateUp(url string) error {
	logger.Info("Попытка миграций")

	m, err := newMigrator(url)
	if err != nil {
		logger.Error("Repository: Не удалось подготовить миграции", err)
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Не удалось применить миграции", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Repository: Миграции применены",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

func MigrateDown(url string) error {
	logger.Info("Откат миграций")

	m, err := newMigrator(url)
	if err != nil {
		logger.Error("Repository: Не удалось подготовить миграции", err)
		return err
	}
	defer closeMigrator(m)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Не удалось откатить миграции", err)
		return fmt.Errorf("откат миграций: %w", err)
	}

	logger.Info("Migrations rolled back successfully!")
	return nil
}
