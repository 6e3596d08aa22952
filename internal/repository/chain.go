package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
)

// ChainRepository stores the ModelC -> ModelB -> ModelA chain. Deleting a
// parent cascades to its children in the database.
type ChainRepository struct {
	pool *pgxpool.Pool
}

func (r *ChainRepository) CreateModelC(ctx context.Context, c domain.ModelC) (domain.ModelC, error) {
	var out domain.ModelC
	err := r.pool.QueryRow(ctx, `INSERT INTO model_c (content) VALUES ($1) RETURNING id, content`, c.Content).
		Scan(&out.ID, &out.Content)
	if err != nil {
		return domain.ModelC{}, fmt.Errorf("create model_c: %w", err)
	}
	return out, nil
}

func (r *ChainRepository) GetModelC(ctx context.Context, id int64) (domain.ModelC, error) {
	var out domain.ModelC
	err := r.pool.QueryRow(ctx, `SELECT id, content FROM model_c WHERE id = $1`, id).Scan(&out.ID, &out.Content)
	if err != nil {
		return domain.ModelC{}, notFound(err)
	}
	return out, nil
}

func (r *ChainRepository) ListModelC(ctx context.Context, limit int) ([]domain.ModelC, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, content FROM model_c ORDER BY id LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ModelC, error) {
		var c domain.ModelC
		err := row.Scan(&c.ID, &c.Content)
		return c, err
	})
}

func (r *ChainRepository) CreateModelB(ctx context.Context, b domain.ModelB) (domain.ModelB, error) {
	var out domain.ModelB
	err := r.pool.QueryRow(ctx, `
        INSERT INTO model_b (model_c_id, content) VALUES ($1,$2)
        RETURNING id, model_c_id, content
    `, b.ModelCID, b.Content).Scan(&out.ID, &out.ModelCID, &out.Content)
	if err != nil {
		return domain.ModelB{}, fmt.Errorf("create model_b: %w", err)
	}
	return out, nil
}

func (r *ChainRepository) GetModelB(ctx context.Context, id int64) (domain.ModelB, error) {
	var out domain.ModelB
	err := r.pool.QueryRow(ctx, `SELECT id, model_c_id, content FROM model_b WHERE id = $1`, id).
		Scan(&out.ID, &out.ModelCID, &out.Content)
	if err != nil {
		return domain.ModelB{}, notFound(err)
	}
	return out, nil
}

func (r *ChainRepository) ListModelB(ctx context.Context, limit int) ([]domain.ModelB, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, model_c_id, content FROM model_b ORDER BY id LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ModelB, error) {
		var b domain.ModelB
		err := row.Scan(&b.ID, &b.ModelCID, &b.Content)
		return b, err
	})
}

func (r *ChainRepository) CreateModelA(ctx context.Context, a domain.ModelA) (domain.ModelA, error) {
	var out domain.ModelA
	err := r.pool.QueryRow(ctx, `
        INSERT INTO model_a (model_b_id, content) VALUES ($1,$2)
        RETURNING id, model_b_id, content
    `, a.ModelBID, a.Content).Scan(&out.ID, &out.ModelBID, &out.Content)
	if err != nil {
		return domain.ModelA{}, fmt.Errorf("create model_a: %w", err)
	}
	return out, nil
}

func (r *ChainRepository) GetModelA(ctx context.Context, id int64) (domain.ModelA, error) {
	var out domain.ModelA
	err := r.pool.QueryRow(ctx, `SELECT id, model_b_id, content FROM model_a WHERE id = $1`, id).
		Scan(&out.ID, &out.ModelBID, &out.Content)
	if err != nil {
		return domain.ModelA{}, notFound(err)
	}
	return out, nil
}

func (r *ChainRepository) ListModelA(ctx context.Context, limit int) ([]domain.ModelA, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, model_b_id, content FROM model_a ORDER BY id LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ModelA, error) {
		var a domain.ModelA
		err := row.Scan(&a.ID, &a.ModelBID, &a.Content)
		return a, err
	})
}

// Delete removes a chain record of the given kind.
func (r *ChainRepository) Delete(ctx context.Context, kind schema.Kind, id int64) error {
	switch kind {
	case schema.KindModelA, schema.KindModelB, schema.KindModelC:
		return deleteByID(ctx, r.pool, kind, id)
	default:
		return fmt.Errorf("chain: cannot delete %s", kind)
	}
}
