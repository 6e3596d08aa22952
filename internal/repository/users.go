package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
)

// UsersRepository stores user identities and their one-to-one profiles.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, username, email, first_name, last_name, is_staff, is_active, date_joined`

// Create inserts a user. DateJoined is assigned by the database.
func (r *UsersRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO users (username, email, first_name, last_name, is_staff, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING `+userColumns,
		u.Username, u.Email, u.FirstName, u.LastName, u.IsStaff, u.IsActive)
	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// GetByID fetches a user by id.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, notFound(err)
	}
	return u, nil
}

// List returns users in id order.
func (r *UsersRepository) List(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		return scanUser(row)
	})
}

// Delete removes a user. Profile, comments and likes cascade.
func (r *UsersRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, schema.KindUser, id)
}

// UpsertProfile creates or replaces the user's profile and reports whether it
// was newly created.
func (r *UsersRepository) UpsertProfile(ctx context.Context, p domain.UserProfile) (domain.UserProfile, bool, error) {
	const query = `
        INSERT INTO user_profiles (user_id, bio, birth_date)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_id)
        DO UPDATE SET bio = EXCLUDED.bio, birth_date = EXCLUDED.birth_date
        RETURNING user_id, bio, birth_date, (xmax = 0) AS inserted
    `
	var (
		stored   domain.UserProfile
		inserted bool
	)
	err := r.pool.QueryRow(ctx, query, p.UserID, p.Bio, p.BirthDate).
		Scan(&stored.UserID, &stored.Bio, &stored.BirthDate, &inserted)
	if err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("upsert profile: %w", err)
	}
	return stored, inserted, nil
}

// GetProfile follows the one-to-one relationship from a user to its profile.
func (r *UsersRepository) GetProfile(ctx context.Context, userID int64) (domain.UserProfile, error) {
	var p domain.UserProfile
	err := r.pool.QueryRow(ctx, `SELECT user_id, bio, birth_date FROM user_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.Bio, &p.BirthDate)
	if err != nil {
		return domain.UserProfile{}, notFound(err)
	}
	return p, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.IsStaff, &u.IsActive, &u.DateJoined)
	return u, err
}
