package request

import "movie-catalog/internal/data/entity"

// MovieRequest is the strict-schema view of a create body.
type MovieRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Director string `json:"director" validate:"required,max=200"`
	Genre    string `json:"genre" validate:"required,max=100"`
}

// MovieUpdateRequest is the strict-schema view of an update body. Absent
// fields stay nil and are skipped.
type MovieUpdateRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Director *string `json:"director,omitempty" validate:"omitempty,min=1,max=200"`
	Genre    *string `json:"genre,omitempty" validate:"omitempty,min=1,max=100"`
}

func NewMovieRequest(movie *entity.Movie) MovieRequest {
	return MovieRequest{
		Title:    movie.Title,
		Director: movie.Director,
		Genre:    movie.Genre,
	}
}

// NewMovieUpdateRequest expects a patch already passed through
// entity.NormalizePatch. A null field is seen as an empty string.
func NewMovieUpdateRequest(patch map[string]any) MovieUpdateRequest {
	var req MovieUpdateRequest
	req.Title = patchString(patch, entity.FieldTitle)
	req.Director = patchString(patch, entity.FieldDirector)
	req.Genre = patchString(patch, entity.FieldGenre)
	return req
}

func patchString(patch map[string]any, key string) *string {
	value, ok := patch[key]
	if !ok {
		return nil
	}
	s, _ := value.(string)
	return &s
}
