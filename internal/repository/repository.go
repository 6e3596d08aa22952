package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
	"github.com/Clark-Hu/catalog-api/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = domain.ErrNotFound

// Repository aggregates all domain-specific repositories. It also implements
// the relationship traversal the serializer needs.
type Repository struct {
	Movies    *MoviesRepository
	Resources *ResourcesRepository
	Users     *UsersRepository
	Comments  *CommentsRepository
	Chain     *ChainRepository

	pool *pgxpool.Pool
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:    &MoviesRepository{pool: pool},
		Resources: &ResourcesRepository{pool: pool},
		Users:     &UsersRepository{pool: pool},
		Comments:  &CommentsRepository{pool: pool},
		Chain:     &ChainRepository{pool: pool},
		pool:      pool,
	}
}

// Exists reports whether an entity of kind with the given id is stored.
func (r *Repository) Exists(ctx context.Context, kind schema.Kind, id int64) (bool, error) {
	entity, ok := schema.Lookup(kind)
	if !ok {
		return false, fmt.Errorf("repository: unknown entity %q", kind)
	}
	key := "id"
	if _, hasID := entity.Field("id"); !hasID {
		key = entity.Relations()[0].Column
	}
	// Table and key come from the static schema, never from input.
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, entity.Table, key)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", kind, err)
	}
	return exists, nil
}

// LikedBy lists the ids of users who liked a resource.
func (r *Repository) LikedBy(ctx context.Context, resourceID int64) ([]int64, error) {
	return r.Resources.LikedBy(ctx, resourceID)
}

// User fetches a user by id.
func (r *Repository) User(ctx context.Context, id int64) (domain.User, error) {
	return r.Users.GetByID(ctx, id)
}

// Profile follows the one-to-one user -> profile relationship.
func (r *Repository) Profile(ctx context.Context, userID int64) (domain.UserProfile, error) {
	return r.Users.GetProfile(ctx, userID)
}

// ModelB fetches a ModelB by id.
func (r *Repository) ModelB(ctx context.Context, id int64) (domain.ModelB, error) {
	return r.Chain.GetModelB(ctx, id)
}

// ModelC fetches a ModelC by id.
func (r *Repository) ModelC(ctx context.Context, id int64) (domain.ModelC, error) {
	return r.Chain.GetModelC(ctx, id)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// deleteByID removes a row and reports ErrNotFound when nothing matched.
func deleteByID(ctx context.Context, pool *pgxpool.Pool, kind schema.Kind, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, schema.MustLookup(kind).Table)
	tag, err := pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
