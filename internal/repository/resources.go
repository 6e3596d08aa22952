package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
)

// ResourcesRepository stores resources and their liked_by membership.
type ResourcesRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a resource together with its initial likes.
func (r *ResourcesRepository) Create(ctx context.Context, res domain.Resource, likedBy []int64) (domain.Resource, error) {
	var created domain.Resource
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
            INSERT INTO resources (title, content)
            VALUES ($1,$2)
            RETURNING id, title, content
        `, res.Title, res.Content)
		if err := row.Scan(&created.ID, &created.Title, &created.Content); err != nil {
			return err
		}
		return replaceLikes(ctx, tx, created.ID, likedBy)
	})
	if err != nil {
		return domain.Resource{}, fmt.Errorf("create resource: %w", err)
	}
	return created, nil
}

// GetByID fetches a resource by id.
func (r *ResourcesRepository) GetByID(ctx context.Context, id int64) (domain.Resource, error) {
	var res domain.Resource
	err := r.pool.QueryRow(ctx, `SELECT id, title, content FROM resources WHERE id = $1`, id).
		Scan(&res.ID, &res.Title, &res.Content)
	if err != nil {
		return domain.Resource{}, notFound(err)
	}
	return res, nil
}

// List returns resources in id order.
func (r *ResourcesRepository) List(ctx context.Context, limit int) ([]domain.Resource, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, content FROM resources ORDER BY id LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Resource, error) {
		var res domain.Resource
		err := row.Scan(&res.ID, &res.Title, &res.Content)
		return res, err
	})
}

// Update overwrites title and content. When likedBy is non-nil the like set is
// replaced as well.
func (r *ResourcesRepository) Update(ctx context.Context, res domain.Resource, likedBy []int64) (domain.Resource, error) {
	var updated domain.Resource
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
            UPDATE resources SET title = $2, content = $3
            WHERE id = $1
            RETURNING id, title, content
        `, res.ID, res.Title, res.Content)
		if err := row.Scan(&updated.ID, &updated.Title, &updated.Content); err != nil {
			return notFound(err)
		}
		if likedBy == nil {
			return nil
		}
		return replaceLikes(ctx, tx, res.ID, likedBy)
	})
	if err != nil {
		return domain.Resource{}, err
	}
	return updated, nil
}

// Delete removes a resource; its likes go with it.
func (r *ResourcesRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, schema.KindResource, id)
}

// AddLike records that userID likes the resource. Liking twice is a no-op.
func (r *ResourcesRepository) AddLike(ctx context.Context, resourceID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO resource_likes (resource_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT DO NOTHING
    `, resourceID, userID)
	if err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

// RemoveLike drops a like. Removing a missing like returns ErrNotFound.
func (r *ResourcesRepository) RemoveLike(ctx context.Context, resourceID, userID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resource_likes WHERE resource_id = $1 AND user_id = $2`, resourceID, userID)
	if err != nil {
		return fmt.Errorf("remove like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LikedBy lists the ids of users who liked the resource, ascending.
func (r *ResourcesRepository) LikedBy(ctx context.Context, resourceID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM resource_likes WHERE resource_id = $1 ORDER BY user_id`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("liked_by: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func replaceLikes(ctx context.Context, tx pgx.Tx, resourceID int64, likedBy []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM resource_likes WHERE resource_id = $1`, resourceID); err != nil {
		return err
	}
	if len(likedBy) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
        INSERT INTO resource_likes (resource_id, user_id)
        SELECT $1, unnest($2::bigint[])
        ON CONFLICT DO NOTHING
    `, resourceID, likedBy)
	return err
}
