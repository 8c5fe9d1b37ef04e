package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"giraffe/internal/models"
)

// Roles and themes are the two classification tag tables; they share a
// shape, so the logic is table-parameterized behind typed wrappers. Table
// names are compile-time constants, never user input.
const (
	roleTable  = "stock_roles"
	themeTable = "stock_themes"
)

func (r *Repo) ListRoles(ctx context.Context) ([]models.Tag, error) { return r.listTags(ctx, roleTable) }
func (r *Repo) ListThemes(ctx context.Context) ([]models.Tag, error) { return r.listTags(ctx, themeTable) }

func (r *Repo) CreateRole(ctx context.Context, name string, color *string) (models.Tag, error) {
	return r.createTag(ctx, roleTable, name, color)
}

func (r *Repo) CreateTheme(ctx context.Context, name string, color *string) (models.Tag, error) {
	return r.createTag(ctx, themeTable, name, color)
}

func (r *Repo) UpdateRole(ctx context.Context, id int64, name string, color *string, sortOrder int64) (models.Tag, error) {
	return r.updateTag(ctx, roleTable, id, name, color, sortOrder)
}

func (r *Repo) UpdateTheme(ctx context.Context, id int64, name string, color *string, sortOrder int64) (models.Tag, error) {
	return r.updateTag(ctx, themeTable, id, name, color, sortOrder)
}

// DeleteRole removes the role and clears it from every cached stock that
// referenced it. The stocks themselves survive.
func (r *Repo) DeleteRole(ctx context.Context, id int64) error {
	return r.deleteTag(ctx, roleTable, "role_id", id)
}

func (r *Repo) DeleteTheme(ctx context.Context, id int64) error {
	return r.deleteTag(ctx, themeTable, "theme_id", id)
}

func (r *Repo) listTags(ctx context.Context, table string) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.SelectContext(ctx, &tags,
		fmt.Sprintf(`SELECT id, name, color, sort_order, created_at FROM %s ORDER BY sort_order, name`, table))
	return tags, err
}

func (r *Repo) getTag(ctx context.Context, table string, id int64) (models.Tag, error) {
	var t models.Tag
	err := r.db.GetContext(ctx, &t,
		fmt.Sprintf(`SELECT id, name, color, sort_order, created_at FROM %s WHERE id = ?`, table), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, ErrNotFound
	}
	if err != nil {
		return models.Tag{}, err
	}
	return t, nil
}

// createTag appends a tag with sort_order one past the current maximum. A
// name collision surfaces as ErrDuplicateName.
func (r *Repo) createTag(ctx context.Context, table, name string, color *string) (models.Tag, error) {
	var maxOrder int64
	if err := r.db.GetContext(ctx, &maxOrder,
		fmt.Sprintf(`SELECT COALESCE(MAX(sort_order), 0) FROM %s`, table)); err != nil {
		return models.Tag{}, err
	}

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, color, sort_order) VALUES (?, ?, ?)`, table),
		name, color, maxOrder+1)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Tag{}, ErrDuplicateName
		}
		return models.Tag{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Tag{}, err
	}
	return r.getTag(ctx, table, id)
}

func (r *Repo) updateTag(ctx context.Context, table string, id int64, name string, color *string, sortOrder int64) (models.Tag, error) {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET name = ?, color = ?, sort_order = ? WHERE id = ?`, table),
		name, color, sortOrder, id)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Tag{}, ErrDuplicateName
		}
		return models.Tag{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Tag{}, ErrNotFound
	}
	return r.getTag(ctx, table, id)
}

func (r *Repo) deleteTag(ctx context.Context, table, fkColumn string, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, table), id); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE stock_prices SET %s = NULL WHERE %s = ?`, fkColumn, fkColumn), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id); err != nil {
		return err
	}
	return tx.Commit()
}
