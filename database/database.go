package database

import (
	"database/sql"
	"embed"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Cafe is the shared database handle. It is set once by ConnectAndMigrate
// before the server starts accepting requests.
var Cafe *sql.DB

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

func ConnectAndMigrate(url string) error {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return err
	}

	Cafe = db
	return nil
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Tx runs fn inside a transaction; it commits when fn returns nil and rolls
// back otherwise.
func Tx(fn func(tx *sql.Tx) error) error {
	tx, err := Cafe.Begin()
	if err != nil {
		logrus.Printf("failed to begin transaction, error: %v", err)
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.Printf("failed to rollback transaction, error: %v", rbErr)
		}
		return err
	}

	return tx.Commit()
}

func ShutdownDatabase() error {
	if Cafe == nil {
		return nil
	}
	return Cafe.Close()
}
