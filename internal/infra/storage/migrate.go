// Package storage содержит общую инфраструктуру хранилища: миграции схемы.
// Репозитории агрегатов лежат во вложенных пакетах.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const migrationsTable = "rental_schema_migrations"

// ErrMigrate возвращается при ошибке применения миграций
var ErrMigrate = errors.New("storage: failed to apply migrations")

// RunMigrations применяет миграции из каталога path к базе db.
// Отсутствие новых миграций не считается ошибкой.
func RunMigrations(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return fmt.Errorf("%w: create migration driver: %v", ErrMigrate, err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", path),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("%w: create migrate instance: %v", ErrMigrate, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: up: %v", ErrMigrate, err)
	}

	return nil
}
