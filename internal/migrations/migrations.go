package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"todoService/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Run накатывает схему до запуска сервера, отдельно от подключения пула
func Run(databaseURL string) error {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("чтение миграций: %w", err)
	}

	url := strings.Replace(databaseURL, "postgres://", "pgx5://", 1)

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("инициализация мигратора: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Миграции применены")
	return nil
}
