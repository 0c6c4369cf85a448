package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Repository is a local SQLite file holding the cart snapshot.
type Repository struct {
	db  *sql.DB
	key string
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// one writer; sqlite serialises anyway
	db.SetMaxOpenConns(1)
	return &Repository{db: db, key: cart.SnapshotKey}, nil
}

func (r *Repository) RunMigrations() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) Load(ctx context.Context) ([]domain.CartItem, error) {
	query := `
		SELECT payload
		FROM cart_snapshots
		WHERE snapshot_key = ?
	`

	var payload string
	err := r.db.QueryRowContext(ctx, query, r.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart snapshot: %w", err)
	}

	return cart.Decode([]byte(payload))
}

func (r *Repository) Save(ctx context.Context, items []domain.CartItem) error {
	payload, err := cart.Encode(items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cart_snapshots (snapshot_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (snapshot_key) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, r.key, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	query := `DELETE FROM cart_snapshots WHERE snapshot_key = ?`

	if _, err := r.db.ExecContext(ctx, query, r.key); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
