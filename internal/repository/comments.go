package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
)

// CommentsRepository stores comments.
type CommentsRepository struct {
	pool *pgxpool.Pool
}

const commentColumns = `id, author_id, datetime, content`

// Create inserts a comment; datetime is set by the database.
func (r *CommentsRepository) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO comments (author_id, content)
        VALUES ($1,$2)
        RETURNING `+commentColumns, c.AuthorID, c.Content)
	created, err := scanComment(row)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}

// GetByID fetches a comment by id.
func (r *CommentsRepository) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		return domain.Comment{}, notFound(err)
	}
	return c, nil
}

// List returns comments, newest first, optionally restricted to one author.
func (r *CommentsRepository) List(ctx context.Context, authorID *int64, limit int) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+commentColumns+` FROM comments
        WHERE ($1::bigint IS NULL OR author_id = $1)
        ORDER BY datetime DESC, id DESC
        LIMIT $2
    `, authorID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Comment, error) {
		return scanComment(row)
	})
}

// Update rewrites author and content. Datetime never changes after creation.
func (r *CommentsRepository) Update(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE comments SET author_id = $2, content = $3
        WHERE id = $1
        RETURNING `+commentColumns, c.ID, c.AuthorID, c.Content)
	updated, err := scanComment(row)
	if err != nil {
		return domain.Comment{}, notFound(err)
	}
	return updated, nil
}

// Delete removes a comment.
func (r *CommentsRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, schema.KindComment, id)
}

func scanComment(row pgx.Row) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.AuthorID, &c.Datetime, &c.Content)
	return c, err
}
