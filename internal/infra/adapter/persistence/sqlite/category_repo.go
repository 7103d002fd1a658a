package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

const categoryColumns = `id, name, slug, description, color, icon, sort_order, is_active`

// CategoryRepo implements the CategoryRepository interface using SQLite.
type CategoryRepo struct{ db *sql.DB }

// NewCategoryRepo creates a new SQLite-backed category repository.
func NewCategoryRepo(db *sql.DB) repository.CategoryRepository {
	return &CategoryRepo{db: db}
}

func scanCategory(s rowScanner) (*entity.Category, error) {
	var c entity.Category
	if err := s.Scan(&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.Color, &c.Icon, &c.SortOrder, &c.IsActive); err != nil {
		return nil, err
	}
	return &c, nil
}

func (repo *CategoryRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := make([]*entity.Category, 0, 16)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return categories, nil
}

func (repo *CategoryRepo) Get(ctx context.Context, id int64) (*entity.Category, error) {
	c, err := scanCategory(repo.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return c, nil
}

func (repo *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	c, err := scanCategory(repo.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: QueryRowContext: %w", err)
	}
	return c, nil
}

func (repo *CategoryRepo) MaxSortOrder(ctx context.Context) (int, error) {
	var max int
	if err := repo.db.QueryRowContext(ctx, `SELECT IFNULL(MAX(sort_order), 0) FROM categories`).Scan(&max); err != nil {
		return 0, fmt.Errorf("MaxSortOrder: QueryRowContext: %w", err)
	}
	return max, nil
}

func (repo *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	const query = `
INSERT INTO categories (name, slug, description, color, icon, sort_order, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		c.Name, c.Slug, c.Description, c.Color, c.Icon, c.SortOrder, c.IsActive)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	c.ID = id
	return nil
}

func (repo *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	const query = `
UPDATE categories SET
       name        = ?,
       slug        = ?,
       description = ?,
       color       = ?,
       icon        = ?,
       sort_order  = ?,
       is_active   = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query,
		c.Name, c.Slug, c.Description, c.Color, c.Icon, c.SortOrder, c.IsActive, c.ID)
	if err != nil {
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *CategoryRepo) Reorder(ctx context.Context, ids []int64) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Reorder: BeginTx: %w", err)
	}

	for i, id := range ids {
		res, err := tx.ExecContext(ctx, `UPDATE categories SET sort_order = ? WHERE id = ?`, i+1, id)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("Reorder: ExecContext: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			_ = tx.Rollback()
			return fmt.Errorf("Reorder: category %d: %w", id, entity.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Reorder: Commit: %w", err)
	}
	return nil
}
