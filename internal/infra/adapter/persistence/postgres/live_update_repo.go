package postgres

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

type LiveUpdateRepo struct {
	db *sql.DB
}

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

func (repo *LiveUpdateRepo) List(ctx context.Context, filter repository.LiveUpdateFilter) ([]*entity.LiveUpdate, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_live_updates", time.Since(start)) }()

	query := `
SELECT id, article_id, heading, content, social_link, posted_at
FROM live_updates`
	var args []interface{}
	if filter.ArticleID != nil {
		query += "\nWHERE article_id = $1"
		args = append(args, *filter.ArticleID)
	}
	query += "\nORDER BY posted_at DESC, id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf("\nLIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
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
	return updates, rows.Err()
}

func (repo *LiveUpdateRepo) Get(ctx context.Context, id int64) (*entity.LiveUpdate, error) {
	const query = `
SELECT id, article_id, heading, content, social_link, posted_at
FROM live_updates
WHERE id = $1
LIMIT 1`
	update, err := scanLiveUpdate(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return update, nil
}

func (repo *LiveUpdateRepo) Create(ctx context.Context, update *entity.LiveUpdate) error {
	const query = `
INSERT INTO live_updates (article_id, heading, content, social_link, posted_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		update.ArticleID, update.Heading, update.Content,
		nullableLink(update.SocialLink), update.Timestamp,
	).Scan(&update.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update rewrites heading, content and social link. posted_at is never changed.
func (repo *LiveUpdateRepo) Update(ctx context.Context, update *entity.LiveUpdate) error {
	const query = `
UPDATE live_updates SET
       heading     = $1,
       content     = $2,
       social_link = $3
WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query,
		update.Heading, update.Content, nullableLink(update.SocialLink), update.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *LiveUpdateRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM live_updates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
