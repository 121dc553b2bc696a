package repository

import (
	"context"
	"time"

	"movie-catalog/internal/data/entity"
)

// MovieRepository runs exactly one store query per method. Lookups that match
// nothing return a nil movie and a nil error; only driver failures are errors.
type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByTitle(ctx context.Context, title string) (*entity.Movie, error)
	FindAll(ctx context.Context) ([]*entity.Movie, error)
	FindByDirector(ctx context.Context, director string) ([]*entity.Movie, error)
	FindByGenre(ctx context.Context, genre string) ([]*entity.Movie, error)

	// Update sets the patch fields, leaving the rest of the document intact,
	// and returns the document as it is after the update.
	Update(ctx context.Context, id string, patch map[string]any, updatedAt time.Time) (*entity.Movie, error)
	// Delete returns the removed document.
	Delete(ctx context.Context, id string) (*entity.Movie, error)
}
