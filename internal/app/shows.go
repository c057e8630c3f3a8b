package app

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tickethall/ticket-reservation-system/api"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
	"github.com/tickethall/ticket-reservation-system/internal/engine"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func (app *Application) CreateShowingHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateShowingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	show, err := app.engine.AddMovieShowing(r.Context(), engine.AddMovieShowingInput{
		Title:           input.Title,
		ReleaseDate:     input.ReleaseDate,
		Country:         input.Country,
		Description:     input.Description,
		DurationSeconds: input.DurationSeconds,
		Language:        input.Language,
		Genre:           input.Genre,
		TheaterID:       input.TheaterId,
		ShowDate:        input.ShowDate,
		StartsAt:        input.StartsAt,
		EndsAt:          input.EndsAt,
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiShow(show), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowsHandler(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("date must be in %s format", dateLayout))
		return
	}

	clock, err := time.Parse(timeLayout, r.URL.Query().Get("time"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("time must be in %s format", timeLayout))
		return
	}

	at := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)

	shows, err := app.engine.ShowsStartingAt(r.Context(), at)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowsResponse{Shows: make([]api.ShowResponse, 0, len(shows))}
	for i := range shows {
		resp.Shows = append(resp.Shows, toApiShow(&shows[i]))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteShowsHandler(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("date must be in %s format", dateLayout))
		return
	}

	count, err := app.engine.RemoveShowsOnDate(r.Context(), date)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.CountResponse{Count: count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowTheatersHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cinemaID, err := strconv.Atoi(r.URL.Query().Get("cinemaId"))
	if err != nil || cinemaID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("cinemaId must be a positive integer"))
		return
	}

	theaters, err := app.engine.TheatersPlayingShow(r.Context(), cinemaID, showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.TheatersResponse{Theaters: theaters}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCinemaScheduleHandler(w http.ResponseWriter, r *http.Request) {
	cinemaID, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		app.badRequestResponse(w, r, fmt.Errorf("title must not be empty"))
		return
	}

	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("from must be in %s format", dateLayout))
		return
	}

	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("to must be in %s format", dateLayout))
		return
	}

	shows, err := app.engine.ShowsOfMovieAtCinemaBetween(r.Context(), title, cinemaID, from, to)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ScheduleResponse{Shows: make([]api.ShowSummaryResponse, 0, len(shows))}
	for _, s := range shows {
		resp.Shows = append(resp.Shows, api.ShowSummaryResponse{
			Id:              s.ID,
			MovieTitle:      s.MovieTitle,
			DurationSeconds: s.DurationSeconds,
			Date:            s.Date,
			StartsAt:        s.StartsAt,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiShow(show *domain.Show) api.ShowResponse {
	return api.ShowResponse{
		Id:       show.ID,
		MovieId:  show.MovieID,
		Date:     show.Date,
		StartsAt: show.StartsAt,
		EndsAt:   show.EndsAt,
	}
}
