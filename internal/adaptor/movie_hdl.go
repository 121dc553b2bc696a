package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"movie-catalog/internal/dto/response"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/apperror"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// URL parameter names. Title and id share one path segment, and chi wants a
// single param name per node.
const (
	ParamMovieKey = "movieKey"
	ParamDirector = "directorName"
	ParamGenre    = "genreName"
)

const (
	msgMovieAdded   = "Movie added successfully."
	msgMovieUpdated = "Movie updated successfully."
	msgMovieDeleted = "Movie deleted successfully."

	msgAddFailed     = "Failed to add movie"
	msgFetchFailed   = "Failed to fetch movie."
	msgFetchAllError = "Failed to fetch movies."
	msgDeleteFailed  = "Failed to delete a movie."
	msgUpdateFailed  = "Failed to update a movie."

	msgInvalidPath = "Invalid request path."
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// CreateMovie handles POST /movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeBody(w, r, "create movie")
	if !ok {
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), fields)
	if err != nil {
		h.handleServiceError(w, err, "create movie", msgAddFailed)
		return
	}

	utils.ResponseCreated(w, response.NewMovieMutationResponse(msgMovieAdded, movie))
}

// GetMovieByTitle handles GET /movies/{title}
func (h *MovieHandler) GetMovieByTitle(w http.ResponseWriter, r *http.Request) {
	title, ok := h.pathParam(w, r, ParamMovieKey)
	if !ok {
		return
	}

	movie, err := h.service.GetMovieByTitle(r.Context(), title)
	if err != nil {
		h.handleServiceError(w, err, "get movie by title", msgFetchFailed)
		return
	}

	utils.ResponseSuccess(w, response.MovieToResponse(movie))
}

// GetMovies handles GET /movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.GetMovies(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get movies", msgFetchAllError)
		return
	}

	utils.ResponseSuccess(w, response.MoviesToResponse(movies))
}

// GetMoviesByDirector handles GET /movies/director/{directorName}
func (h *MovieHandler) GetMoviesByDirector(w http.ResponseWriter, r *http.Request) {
	director, ok := h.pathParam(w, r, ParamDirector)
	if !ok {
		return
	}

	movies, err := h.service.GetMoviesByDirector(r.Context(), director)
	if err != nil {
		h.handleServiceError(w, err, "get movies by director", msgFetchFailed)
		return
	}

	utils.ResponseSuccess(w, response.MoviesToResponse(movies))
}

// GetMoviesByGenre handles GET /movies/genres/{genreName}
func (h *MovieHandler) GetMoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genre, ok := h.pathParam(w, r, ParamGenre)
	if !ok {
		return
	}

	movies, err := h.service.GetMoviesByGenre(r.Context(), genre)
	if err != nil {
		h.handleServiceError(w, err, "get movies by genre", msgFetchFailed)
		return
	}

	utils.ResponseSuccess(w, response.MoviesToResponse(movies))
}

// UpdateMovie handles POST /movies/{movieId}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.pathParam(w, r, ParamMovieKey)
	if !ok {
		return
	}

	fields, ok := h.decodeBody(w, r, "update movie")
	if !ok {
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), movieID, fields)
	if err != nil {
		h.handleServiceError(w, err, "update movie", msgUpdateFailed)
		return
	}

	utils.ResponseSuccess(w, response.NewMovieMutationResponse(msgMovieUpdated, movie))
}

// DeleteMovie handles DELETE /movies/{movieId}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.pathParam(w, r, ParamMovieKey)
	if !ok {
		return
	}

	if err := h.service.DeleteMovie(r.Context(), movieID); err != nil {
		h.handleServiceError(w, err, "delete movie", msgDeleteFailed)
		return
	}

	utils.ResponseMessage(w, msgMovieDeleted)
}

// pathParam returns the decoded value of a route parameter. chi matches on
// RawPath when the request has one, so segments holding an encoded slash
// arrive still escaped.
func (h *MovieHandler) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, true
	}

	decoded, err := url.PathUnescape(value)
	if err != nil {
		h.log.Warn("Invalid path parameter",
			zap.Error(err),
			zap.String("param", name))
		utils.ResponseBadRequest(w, msgInvalidPath, nil)
		return "", false
	}
	return decoded, true
}

// decodeBody reads a JSON object; an empty body counts as {}. Anything else is
// answered with 400.
func (h *MovieHandler) decodeBody(w http.ResponseWriter, r *http.Request, operation string) (map[string]any, bool) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		h.log.Warn("Invalid request body for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, usecase.MsgInvalidBody, nil)
		return nil, false
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, true
}

// handleServiceError answers a failed operation with the status of its error
// kind. Store failures get the static failMsg so driver details never reach
// the client.
func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error, operation, failMsg string) {
	kind := apperror.KindOf(err)
	appErr, _ := apperror.As(err)

	switch kind {
	case apperror.KindNotFound:
		h.log.Debug(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseError(w, kind.StatusCode(), appErr.Message, nil)

	case apperror.KindValidation:
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseError(w, kind.StatusCode(), appErr.Message, appErr.Fields)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseError(w, kind.StatusCode(), failMsg, nil)
	}
}
