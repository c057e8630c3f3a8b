package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tickethall/ticket-reservation-system/api"
)

func (app *Application) GetMoviesHandler(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		app.badRequestResponse(w, r, fmt.Errorf("title must not be empty"))
		return
	}

	releasedAfter, err := time.Parse(dateLayout, r.URL.Query().Get("releasedAfter"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("releasedAfter must be in %s format", dateLayout))
		return
	}

	titles, err := app.engine.SearchMovieTitles(r.Context(), title, releasedAfter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.MovieTitlesResponse{Titles: titles}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
