package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    description,
    release_date,
    rating,
    us_gross,
    worldwide_gross
`

// MovieListFilters encapsulates search and pagination options.
type MovieListFilters struct {
	Query     *string
	Year      *int
	RatingGTE *int
	Limit     int
	Cursor    *MovieCursor
}

// MovieCursor allows stable pagination by id.
type MovieCursor struct {
	ID int64 `json:"id"`
}

// MovieListResult returns the paginated payload.
type MovieListResult struct {
	Items      []domain.Movie
	NextCursor *string
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, m domain.Movie) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (title, description, release_date, rating, us_gross, worldwide_gross)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, m.Title, m.Description, m.ReleaseDate, m.Rating, m.USGross, m.WorldwideGross)
	return scanMovie(row)
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Movie{}, notFound(err)
	}
	return movie, nil
}

// Update overwrites every stored field of m.
func (r *MoviesRepository) Update(ctx context.Context, m domain.Movie) (domain.Movie, error) {
	query := fmt.Sprintf(`
        UPDATE movies
        SET title = $2,
            description = $3,
            release_date = $4,
            rating = $5,
            us_gross = $6,
            worldwide_gross = $7
        WHERE id = $1
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, m.ID, m.Title, m.Description, m.ReleaseDate, m.Rating, m.USGross, m.WorldwideGross)
	movie, err := scanMovie(row)
	if err != nil {
		return domain.Movie{}, notFound(err)
	}
	return movie, nil
}

// Delete removes a movie.
func (r *MoviesRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, schema.KindMovie, id)
}

// List returns movies that match the provided filters, newest first.
func (r *MoviesRepository) List(ctx context.Context, filters MovieListFilters) (MovieListResult, error) {
	filters.Limit = clampLimit(filters.Limit)

	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Query != nil && strings.TrimSpace(*filters.Query) != "" {
		q := "%" + strings.TrimSpace(*filters.Query) + "%"
		p1 := arg(q)
		p2 := arg(q)
		where = append(where, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p1, p2))
	}
	if filters.Year != nil {
		where = append(where, fmt.Sprintf("EXTRACT(YEAR FROM release_date) = %s", arg(*filters.Year)))
	}
	if filters.RatingGTE != nil {
		where = append(where, fmt.Sprintf("rating >= %s", arg(*filters.RatingGTE)))
	}
	if filters.Cursor != nil {
		where = append(where, fmt.Sprintf("id < %s", arg(filters.Cursor.ID)))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(movieColumns)
	queryBuilder.WriteString(" FROM movies")

	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d", filters.Limit))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return MovieListResult{}, err
	}
	defer rows.Close()

	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return MovieListResult{}, err
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return MovieListResult{}, err
	}

	var nextCursor *string
	if len(items) == filters.Limit {
		last := items[len(items)-1]
		token, err := encodeCursor(MovieCursor{ID: last.ID})
		if err != nil {
			return MovieListResult{}, err
		}
		nextCursor = &token
	}

	return MovieListResult{Items: items, NextCursor: nextCursor}, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var (
		movie  domain.Movie
		rating int16
		usG    int32
		worldG int32
	)
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.ReleaseDate,
		&rating,
		&usG,
		&worldG,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	movie.Rating = int64(rating)
	movie.USGross = int64(usG)
	movie.WorldwideGross = int64(worldG)
	return movie, nil
}

func encodeCursor(c MovieCursor) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecodeCursor parses a cursor token into a MovieCursor.
func DecodeCursor(token string) (*MovieCursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var cursor MovieCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	return &cursor, nil
}
