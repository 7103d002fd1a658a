package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

const categoryColumns = `id, name, slug, description, color, icon, sort_order, is_active`

type CategoryRepo struct {
	db *sql.DB
}

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
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
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
	return categories, rows.Err()
}

func (repo *CategoryRepo) getBy(ctx context.Context, op, column string, arg interface{}) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE ` + column + ` = $1 LIMIT 1`
	c, err := scanCategory(repo.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (repo *CategoryRepo) Get(ctx context.Context, id int64) (*entity.Category, error) {
	return repo.getBy(ctx, "Get", "id", id)
}

func (repo *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return repo.getBy(ctx, "GetBySlug", "slug", slug)
}

func (repo *CategoryRepo) MaxSortOrder(ctx context.Context) (int, error) {
	var max int
	if err := repo.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM categories`).Scan(&max); err != nil {
		return 0, fmt.Errorf("MaxSortOrder: %w", err)
	}
	return max, nil
}

func (repo *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	const query = `
INSERT INTO categories (name, slug, description, color, icon, sort_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		c.Name, c.Slug, c.Description, c.Color, c.Icon, c.SortOrder, c.IsActive,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	const query = `
UPDATE categories SET
       name        = $1,
       slug        = $2,
       description = $3,
       color       = $4,
       icon        = $5,
       sort_order  = $6,
       is_active   = $7
WHERE id = $8`
	res, err := repo.db.ExecContext(ctx, query,
		c.Name, c.Slug, c.Description, c.Color, c.Icon, c.SortOrder, c.IsActive, c.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

// Reorder runs in a single transaction; an unknown id rolls the whole reorder back.
func (repo *CategoryRepo) Reorder(ctx context.Context, ids []int64) (err error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Reorder: BeginTx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, id := range ids {
		res, execErr := tx.ExecContext(ctx, `UPDATE categories SET sort_order = $1 WHERE id = $2`, i+1, id)
		if execErr != nil {
			return fmt.Errorf("Reorder: %w", execErr)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("Reorder: category %d: %w", id, entity.ErrNotFound)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("Reorder: Commit: %w", err)
	}
	return nil
}
