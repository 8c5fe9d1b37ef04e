package database

import (
	"context"
	"time"

	"giraffe/internal/models"
)

func (r *Repo) ListSettings(ctx context.Context) ([]models.Setting, error) {
	settings := []models.Setting{}
	err := r.db.SelectContext(ctx, &settings,
		`SELECT key, value, updated_at FROM app_settings ORDER BY key`)
	return settings, err
}

func (r *Repo) SetSetting(ctx context.Context, key, value string) (models.Setting, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now); err != nil {
		return models.Setting{}, err
	}
	var s models.Setting
	err := r.db.GetContext(ctx, &s,
		`SELECT key, value, updated_at FROM app_settings WHERE key = ?`, key)
	return s, err
}
