package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tickethall/ticket-reservation-system/api"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
	"github.com/tickethall/ticket-reservation-system/internal/engine"
)

func (app *Application) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateUserRequest

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

	user, err := app.engine.AddUser(r.Context(), engine.AddUserInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Password:  input.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "a user with this email address already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := toApiUser(user)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUsersWithPendingBookingsHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.engine.UsersWithPendingBookings(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UsersResponse{Users: make([]api.UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, toApiUser(&users[i]))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	bookings, err := app.engine.BookingsOfUser(r.Context(), email)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{Bookings: make([]api.BookingInfoResponse, 0, len(bookings))}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, api.BookingInfoResponse{
			MovieTitle:  b.MovieTitle,
			ShowDate:    b.ShowDate,
			StartsAt:    b.StartsAt,
			TheaterName: b.TheaterName,
			SeatNumber:  b.SeatNumber,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiUser(user *domain.User) api.UserResponse {
	return api.UserResponse{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}
