package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const movieSchema = `
	CREATE TABLE IF NOT EXISTS movies (
		id         UUID PRIMARY KEY,
		doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS movies_title_idx ON movies ((doc->>'title'));
	CREATE INDEX IF NOT EXISTS movies_director_idx ON movies ((doc->>'director'));
	CREATE INDEX IF NOT EXISTS movies_genre_idx ON movies ((doc->>'genre'));
`

const movieColumns = `id, doc, created_at, updated_at`

type postgresMovieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

// NewPostgresMovieRepository keeps each movie as a JSONB document so arbitrary
// client fields survive without a migration.
func NewPostgresMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &postgresMovieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie"), zap.String("driver", "postgres")),
	}
}

// EnsurePostgresSchema creates the movies table and its lookup indexes.
func EnsurePostgresSchema(ctx context.Context, db database.PgxIface) error {
	if _, err := db.Exec(ctx, movieSchema); err != nil {
		return fmt.Errorf("create movie schema: %w", err)
	}
	return nil
}

func (r *postgresMovieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	doc, err := json.Marshal(movie.Document())
	if err != nil {
		return fmt.Errorf("encode movie: %w", err)
	}

	id := uuid.New()
	query := `INSERT INTO movies (` + movieColumns + `) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, id, doc, movie.CreatedAt, movie.UpdatedAt); err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("failed to create movie: %w", err)
	}

	movie.ID = id.String()
	return nil
}

func (r *postgresMovieRepository) FindByTitle(ctx context.Context, title string) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE doc->>'title' = $1 ORDER BY created_at LIMIT 1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, title))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by title",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return movie, nil
}

func (r *postgresMovieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	return r.find(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY created_at`)
}

func (r *postgresMovieRepository) FindByDirector(ctx context.Context, director string) ([]*entity.Movie, error) {
	return r.find(ctx, `SELECT `+movieColumns+` FROM movies WHERE doc->>'director' = $1 ORDER BY created_at`, director)
}

func (r *postgresMovieRepository) FindByGenre(ctx context.Context, genre string) ([]*entity.Movie, error) {
	return r.find(ctx, `SELECT `+movieColumns+` FROM movies WHERE doc->>'genre' = $1 ORDER BY created_at`, genre)
}

func (r *postgresMovieRepository) find(ctx context.Context, query string, args ...any) ([]*entity.Movie, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find movies",
			zap.Error(err),
			zap.Any("args", args),
		)
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}
	defer rows.Close()

	movies := []*entity.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	r.log.Debug("Movies found", zap.Int("count", len(movies)))

	return movies, nil
}

func (r *postgresMovieRepository) Update(ctx context.Context, id string, patch map[string]any, updatedAt time.Time) (*entity.Movie, error) {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id %q: %w", id, err)
	}

	doc, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}

	query := `
		UPDATE movies
		SET doc = doc || $2::jsonb, updated_at = $3
		WHERE id = $1
		RETURNING ` + movieColumns

	movie, err := scanMovie(r.db.QueryRow(ctx, query, movieID, doc, updatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	return movie, nil
}

func (r *postgresMovieRepository) Delete(ctx context.Context, id string) (*entity.Movie, error) {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id %q: %w", id, err)
	}

	query := `DELETE FROM movies WHERE id = $1 RETURNING ` + movieColumns

	movie, err := scanMovie(r.db.QueryRow(ctx, query, movieID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return nil, fmt.Errorf("failed to delete movie: %w", err)
	}

	r.log.Info("Movie deleted", zap.String("movie_id", id))
	return movie, nil
}

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var (
		id  uuid.UUID
		raw []byte
	)
	movie := &entity.Movie{}
	if err := row.Scan(&id, &raw, &movie.CreatedAt, &movie.UpdatedAt); err != nil {
		return nil, err
	}
	movie.ID = id.String()

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode movie %s: %w", movie.ID, err)
	}
	movie.Apply(fields)
	return movie, nil
}
