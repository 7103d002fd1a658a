package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/repository"
)

// LiveUpdateRepo implements the LiveUpdateRepository interface using SQLite.
type LiveUpdateRepo struct{ db *sql.DB }

// NewLiveUpdateRepo creates a new SQLite-backed live update repository.
func NewLiveUpdateRepo(db *sql.DB) repository.LiveUpdateRepository {
	return &LiveUpdateRepo{db: db}
}

func scanLiveUpdate(s rowScanner) (*entity.LiveUpdate, error) {
	var (
		update entity.LiveUpdate
		link   sql.NullString
	)
	if err := s.Scan(&update.ID, &update.ArticleID, &update.Heading,
		&update.Content, &link, &update.Timestamp); err != nil {
		return nil, err
	}
	if link.Valid && link.String != "" {
		update.SocialLink = &link.String
	}
	return &update, nil
}

func nullableLink(link *string) sql.NullString {
	if link == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *link, Valid: true}
}

// List returns live updates newest first, optionally scoped to one article.
func (repo *LiveUpdateRepo) List(ctx context.Context, filter repository.LiveUpdateFilter) ([]*entity.LiveUpdate, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_live_updates", time.Since(start)) }()

	query := `
SELECT id, article_id, heading, content, social_link, posted_at
FROM live_updates`
	var args []interface{}
	if filter.ArticleID != nil {
		query += "\nWHERE article_id = ?"
		args = append(args, *filter.ArticleID)
	}
	query += "\nORDER BY posted_at DESC, id DESC"
	if filter.Limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	updates := make([]*entity.LiveUpdate, 0, 20)
	for rows.Next() {
		update, err := scanLiveUpdate(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		updates = append(updates, update)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return updates, nil
}

// Get retrieves a live update by ID. Returns (nil, nil) when absent.
func (repo *LiveUpdateRepo) Get(ctx context.Context, id int64) (*entity.LiveUpdate, error) {
	const query = `
SELECT id, article_id, heading, content, social_link, posted_at
FROM live_updates
WHERE id = ?`
	update, err := scanLiveUpdate(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return update, nil
}

func (repo *LiveUpdateRepo) Create(ctx context.Context, update *entity.LiveUpdate) error {
	const query = `
INSERT INTO live_updates (article_id, heading, content, social_link, posted_at)
VALUES (?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		update.ArticleID, update.Heading, update.Content,
		nullableLink(update.SocialLink), update.Timestamp)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	update.ID = id
	return nil
}

func (repo *LiveUpdateRepo) Update(ctx context.Context, update *entity.LiveUpdate) error {
	const query = `
UPDATE live_updates SET
       heading     = ?,
       content     = ?,
       social_link = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query,
		update.Heading, update.Content, nullableLink(update.SocialLink), update.ID)
	if err != nil {
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *LiveUpdateRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM live_updates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
