package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingRepo answers every call with err.
type failingRepo struct {
	err error
}

func (f failingRepo) Create(context.Context, *entity.Movie) error { return f.err }
func (f failingRepo) FindByTitle(context.Context, string) (*entity.Movie, error) {
	return nil, f.err
}
func (f failingRepo) FindAll(context.Context) ([]*entity.Movie, error) { return nil, f.err }
func (f failingRepo) FindByDirector(context.Context, string) ([]*entity.Movie, error) {
	return nil, f.err
}
func (f failingRepo) FindByGenre(context.Context, string) ([]*entity.Movie, error) {
	return nil, f.err
}
func (f failingRepo) Update(context.Context, string, map[string]any, time.Time) (*entity.Movie, error) {
	return nil, f.err
}
func (f failingRepo) Delete(context.Context, string) (*entity.Movie, error) { return nil, f.err }

func newTestService(strict bool) MovieService {
	return NewMovieService(repository.NewMemoryMovieRepository(zap.NewNop()), strict, zap.NewNop())
}

func TestMovieService_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(false)

	created, err := svc.CreateMovie(ctx, map[string]any{
		"title":    "X",
		"director": "D",
		"genre":    "G",
		"_id":      "client-chosen",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	found, err := svc.GetMovieByTitle(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "D", found.Director)
	assert.Equal(t, "G", found.Genre)

	all, err := svc.GetMovies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMovieService_EmptyListsAreNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(false)

	_, err := svc.GetMovies(ctx)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.GetMoviesByDirector(ctx, "Nobody")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.GetMoviesByGenre(ctx, "Nothing")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.GetMovieByTitle(ctx, "Missing")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgMovieNotFound, appErr.Message)
}

func TestMovieService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(false)

	created, err := svc.CreateMovie(ctx, map[string]any{"title": "X", "director": "D", "genre": "G"})
	require.NoError(t, err)

	updated, err := svc.UpdateMovie(ctx, created.ID, map[string]any{
		"genre":     "Noir",
		"createdAt": "1900-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, "D", updated.Director)
	assert.Equal(t, "Noir", updated.Genre)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = svc.UpdateMovie(ctx, uuid.NewString(), map[string]any{"genre": "Noir"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	updated, err = svc.UpdateMovie(ctx, created.ID, map[string]any{"title": float64(1917)})
	require.NoError(t, err)
	assert.Equal(t, "1917", updated.Title)
}

func TestMovieService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(false)

	created, err := svc.CreateMovie(ctx, map[string]any{"title": "X"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMovie(ctx, created.ID))

	err = svc.DeleteMovie(ctx, created.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestMovieService_StrictSchema(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(true)

	_, err := svc.CreateMovie(ctx, map[string]any{"title": "X", "director": "D"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "Genre")

	created, err := svc.CreateMovie(ctx, map[string]any{"title": "X", "director": "D", "genre": "G"})
	require.NoError(t, err)

	_, err = svc.UpdateMovie(ctx, created.ID, map[string]any{"title": ""})
	appErr, ok = apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "Title")

	_, err = svc.UpdateMovie(ctx, created.ID, map[string]any{"rating": 9})
	assert.NoError(t, err)

	_, err = svc.UpdateMovie(ctx, created.ID, map[string]any{"title": []any{"a"}})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.ErrorIs(t, err, entity.ErrFieldType)

	_, err = svc.CreateMovie(ctx, map[string]any{"title": float64(1917), "director": "D", "genre": "G"})
	assert.ErrorIs(t, err, entity.ErrFieldType)
}

func TestMovieService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("server selection timeout")
	svc := NewMovieService(failingRepo{err: cause}, false, zap.NewNop())

	_, err := svc.CreateMovie(ctx, map[string]any{"title": "X"})
	assert.Equal(t, apperror.KindStore, apperror.KindOf(err))
	assert.ErrorIs(t, err, cause)

	_, err = svc.GetMovieByTitle(ctx, "X")
	assert.Equal(t, apperror.KindStore, apperror.KindOf(err))

	_, err = svc.GetMovies(ctx)
	assert.Equal(t, apperror.KindStore, apperror.KindOf(err))

	_, err = svc.UpdateMovie(ctx, "id", map[string]any{})
	assert.Equal(t, apperror.KindStore, apperror.KindOf(err))

	err = svc.DeleteMovie(ctx, "id")
	assert.Equal(t, apperror.KindStore, apperror.KindOf(err))
}

func TestMovieService_MalformedIDIsStoreFailure(t *testing.T) {
	svc := newTestService(false)

	err := svc.DeleteMovie(context.Background(), "not-a-uuid")
	assert.Equal(t, apperror.KindStore, apperror.KindOf(err))
}
