package usecase

import (
	"context"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/pkg/apperror"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

// Messages carried by NotFound and Validation errors; handlers send them as is.
const (
	MsgMovieNotFound   = "Movie not found."
	MsgNoMoviesFound   = "No movies found."
	MsgInvalidBody     = "Invalid request body."
	MsgValidationError = "Validation failed."
)

type MovieService interface {
	CreateMovie(ctx context.Context, fields map[string]any) (*entity.Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (*entity.Movie, error)
	GetMovies(ctx context.Context) ([]*entity.Movie, error)
	GetMoviesByDirector(ctx context.Context, director string) ([]*entity.Movie, error)
	GetMoviesByGenre(ctx context.Context, genre string) ([]*entity.Movie, error)
	UpdateMovie(ctx context.Context, movieID string, fields map[string]any) (*entity.Movie, error)
	DeleteMovie(ctx context.Context, movieID string) error
}

type movieService struct {
	repo         repository.MovieRepository
	strictSchema bool
	log          *zap.Logger
	now          func() time.Time
}

// NewMovieService returns the movie use cases. With strictSchema set, title,
// director and genre are required on create and may not be blanked on update.
func NewMovieService(repo repository.MovieRepository, strictSchema bool, log *zap.Logger) MovieService {
	return &movieService{
		repo:         repo,
		strictSchema: strictSchema,
		log:          log.With(zap.String("service", "movie")),
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *movieService) CreateMovie(ctx context.Context, fields map[string]any) (*entity.Movie, error) {
	if s.strictSchema {
		if err := entity.CheckFieldTypes(fields); err != nil {
			s.log.Warn("Create movie rejected", zap.Error(err))
			return nil, apperror.Validation(MsgInvalidBody, nil).Wrap(err)
		}
	}

	movie := &entity.Movie{}
	movie.Apply(fields)

	if s.strictSchema {
		if errs := utils.ValidateStruct(request.NewMovieRequest(movie)); len(errs) > 0 {
			s.log.Warn("Create movie validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
			return nil, apperror.Validation(MsgValidationError, errs)
		}
	}

	now := s.now()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	if err := s.repo.Create(ctx, movie); err != nil {
		s.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return nil, apperror.Store("create movie", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID),
		zap.String("title", movie.Title),
	)

	return movie, nil
}

func (s *movieService) GetMovieByTitle(ctx context.Context, title string) (*entity.Movie, error) {
	movie, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		s.log.Error("Failed to get movie by title",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil, apperror.Store("get movie by title", err)
	}

	if movie == nil {
		return nil, apperror.NotFound(MsgMovieNotFound)
	}

	return movie, nil
}

func (s *movieService) GetMovies(ctx context.Context) ([]*entity.Movie, error) {
	movies, err := s.repo.FindAll(ctx)
	return s.listResult(movies, err, "get movies")
}

func (s *movieService) GetMoviesByDirector(ctx context.Context, director string) ([]*entity.Movie, error) {
	movies, err := s.repo.FindByDirector(ctx, director)
	return s.listResult(movies, err, "get movies by director", zap.String("director", director))
}

func (s *movieService) GetMoviesByGenre(ctx context.Context, genre string) ([]*entity.Movie, error) {
	movies, err := s.repo.FindByGenre(ctx, genre)
	return s.listResult(movies, err, "get movies by genre", zap.String("genre", genre))
}

// listResult treats an empty result as not found.
func (s *movieService) listResult(movies []*entity.Movie, err error, operation string, fields ...zap.Field) ([]*entity.Movie, error) {
	if err != nil {
		s.log.Error("Failed to "+operation, append(fields, zap.Error(err))...)
		return nil, apperror.Store(operation, err)
	}

	if len(movies) == 0 {
		s.log.Debug(operation+": no match", fields...)
		return nil, apperror.NotFound(MsgNoMoviesFound)
	}

	s.log.Debug("Movies retrieved", append(fields, zap.Int("count", len(movies)))...)
	return movies, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, fields map[string]any) (*entity.Movie, error) {
	if s.strictSchema {
		if err := entity.CheckFieldTypes(fields); err != nil {
			s.log.Warn("Update movie rejected",
				zap.Error(err),
				zap.String("movie_id", movieID),
			)
			return nil, apperror.Validation(MsgInvalidBody, nil).Wrap(err)
		}
	}

	patch := entity.NormalizePatch(fields)

	if s.strictSchema {
		if errs := utils.ValidateStruct(request.NewMovieUpdateRequest(patch)); len(errs) > 0 {
			s.log.Warn("Update movie validation failed",
				zap.String("errors", utils.FormatValidationErrors(errs)),
				zap.String("movie_id", movieID),
			)
			return nil, apperror.Validation(MsgValidationError, errs)
		}
	}

	movie, err := s.repo.Update(ctx, movieID, patch, s.now())
	if err != nil {
		s.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return nil, apperror.Store("update movie", err)
	}

	if movie == nil {
		return nil, apperror.NotFound(MsgMovieNotFound)
	}

	s.log.Info("Movie updated",
		zap.String("movie_id", movieID),
		zap.Int("fields", len(patch)),
	)

	return movie, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	movie, err := s.repo.Delete(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return apperror.Store("delete movie", err)
	}

	if movie == nil {
		return apperror.NotFound(MsgMovieNotFound)
	}

	s.log.Info("Movie deleted",
		zap.String("movie_id", movieID),
		zap.String("title", movie.Title),
	)

	return nil
}
