package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"movie-catalog/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memoryMovieRepository struct {
	mu     sync.RWMutex
	movies map[string]*entity.Movie
	order  []string
	log    *zap.Logger
}

// NewMemoryMovieRepository keeps documents in process, in insertion order.
// Returned movies are copies.
func NewMemoryMovieRepository(log *zap.Logger) MovieRepository {
	return &memoryMovieRepository{
		movies: make(map[string]*entity.Movie),
		log:    log.With(zap.String("repository", "movie"), zap.String("driver", "memory")),
	}
}

func (r *memoryMovieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	movie.ID = uuid.NewString()
	r.movies[movie.ID] = cloneMovie(movie)
	r.order = append(r.order, movie.ID)

	return nil
}

func (r *memoryMovieRepository) FindByTitle(ctx context.Context, title string) (*entity.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if movie := r.movies[id]; movie.Title == title {
			return cloneMovie(movie), nil
		}
	}
	return nil, nil
}

func (r *memoryMovieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	return r.filter(ctx, func(*entity.Movie) bool { return true })
}

func (r *memoryMovieRepository) FindByDirector(ctx context.Context, director string) ([]*entity.Movie, error) {
	return r.filter(ctx, func(m *entity.Movie) bool { return m.Director == director })
}

func (r *memoryMovieRepository) FindByGenre(ctx context.Context, genre string) ([]*entity.Movie, error) {
	return r.filter(ctx, func(m *entity.Movie) bool { return m.Genre == genre })
}

func (r *memoryMovieRepository) filter(ctx context.Context, match func(*entity.Movie) bool) ([]*entity.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	movies := []*entity.Movie{}
	for _, id := range r.order {
		if movie := r.movies[id]; match(movie) {
			movies = append(movies, cloneMovie(movie))
		}
	}
	return movies, nil
}

func (r *memoryMovieRepository) Update(ctx context.Context, id string, patch map[string]any, updatedAt time.Time) (*entity.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid movie id %q: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.movies[id]
	if !ok {
		return nil, nil
	}

	updated := cloneMovie(stored)
	updated.Apply(patch)
	updated.UpdatedAt = updatedAt
	r.movies[id] = updated

	return cloneMovie(updated), nil
}

func (r *memoryMovieRepository) Delete(ctx context.Context, id string) (*entity.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid movie id %q: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	movie, ok := r.movies[id]
	if !ok {
		return nil, nil
	}

	delete(r.movies, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.log.Info("Movie deleted", zap.String("movie_id", id))
	return movie, nil
}

func cloneMovie(movie *entity.Movie) *entity.Movie {
	clone := *movie
	if movie.Extra != nil {
		clone.Extra = make(map[string]any, len(movie.Extra))
		for k, v := range movie.Extra {
			clone.Extra[k] = v
		}
	}
	return &clone
}
