package response

import (
	"movie-catalog/internal/data/entity"
)

// MovieResponse is the flat JSON object of a movie: every stored field plus
// _id and the timestamps.
type MovieResponse map[string]any

type MovieMutationResponse struct {
	Message string        `json:"message"`
	Movie   MovieResponse `json:"movie"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	resp := MovieResponse(movie.Document())
	resp[entity.FieldID] = movie.ID
	if !movie.CreatedAt.IsZero() {
		resp[entity.FieldCreatedAt] = movie.CreatedAt
	}
	if !movie.UpdatedAt.IsZero() {
		resp[entity.FieldUpdatedAt] = movie.UpdatedAt
	}
	return resp
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	resp := make([]MovieResponse, len(movies))
	for i, movie := range movies {
		resp[i] = MovieToResponse(movie)
	}
	return resp
}

func NewMovieMutationResponse(message string, movie *entity.Movie) MovieMutationResponse {
	return MovieMutationResponse{
		Message: message,
		Movie:   MovieToResponse(movie),
	}
}
