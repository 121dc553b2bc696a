package wire

import (
	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	r.Route("/movies", func(r chi.Router) {
		// GET /movies, POST /movies
		r.Get("/", movieHandler.GetMovies)
		r.Post("/", movieHandler.CreateMovie)

		// static segments win over {movieKey}
		r.Get("/director/{"+adaptor.ParamDirector+"}", movieHandler.GetMoviesByDirector)
		r.Get("/genres/{"+adaptor.ParamGenre+"}", movieHandler.GetMoviesByGenre)

		// GET by title, POST (update) and DELETE by id
		r.Get("/{"+adaptor.ParamMovieKey+"}", movieHandler.GetMovieByTitle)
		r.Post("/{"+adaptor.ParamMovieKey+"}", movieHandler.UpdateMovie)
		r.Delete("/{"+adaptor.ParamMovieKey+"}", movieHandler.DeleteMovie)
	})
}
