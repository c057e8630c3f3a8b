package app

import (
	"net/http"

	"github.com/tickethall/ticket-reservation-system/api"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateBookingRequest

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

	booking, err := app.engine.AddBooking(r.Context(), input.Email, input.ShowId, input.SeatIds)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiBooking(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ChangeSeatsHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ChangeSeatsRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	err = app.engine.ChangeSeats(r.Context(), bookingID, input.OldSeatId, input.NewSeatId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetBookingSeatsHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, err := app.engine.SeatsOfBooking(r.Context(), bookingID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.SeatsResponse{Seats: make([]api.SeatResponse, 0, len(seats))}
	for _, seat := range seats {
		resp.Seats = append(resp.Seats, api.SeatResponse{
			Id:         seat.ID,
			SeatNumber: seat.SeatNumber,
			Price:      seat.Price,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.engine.CancelBooking(r.Context(), bookingID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) CancelPendingBookingsHandler(w http.ResponseWriter, r *http.Request) {
	count, err := app.engine.CancelPendingBookings(r.Context())
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.CountResponse{Count: count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ClearCancelledBookingsHandler(w http.ResponseWriter, r *http.Request) {
	count, err := app.engine.ClearCancelledBookings(r.Context())
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.CountResponse{Count: count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiBooking(booking *domain.Booking) api.BookingResponse {
	return api.BookingResponse{
		Id:        booking.ID,
		Email:     booking.Email,
		ShowId:    booking.ShowID,
		Status:    string(booking.Status),
		SeatCount: booking.SeatCount,
		CreatedAt: booking.CreatedAt,
	}
}
