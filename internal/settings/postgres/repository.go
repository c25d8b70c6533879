package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/genycrm/genycrm/internal/settings"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping settings db: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, key string) (settings.Setting, error) {
	query := `
SELECT key, value, updated_at
FROM app_settings
WHERE key = $1`

	var setting settings.Setting
	if err := r.db.QueryRowContext(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.Setting{}, settings.ErrNotFound
		}
		return settings.Setting{}, fmt.Errorf("get setting: %w", err)
	}
	return setting, nil
}

func (r *Repository) Upsert(ctx context.Context, key, value string) (settings.Setting, error) {
	query := `
INSERT INTO app_settings (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = now()
RETURNING key, value, updated_at`

	var setting settings.Setting
	if err := r.db.QueryRowContext(ctx, query, key, value).Scan(
		&setting.Key,
		&setting.Value,
		&setting.UpdatedAt,
	); err != nil {
		return settings.Setting{}, fmt.Errorf("upsert setting: %w", err)
	}
	return setting, nil
}
