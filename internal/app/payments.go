package app

import (
	"net/http"

	"github.com/tickethall/ticket-reservation-system/api"
)

func (app *Application) RecordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.RecordPaymentRequest

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

	payment, err := app.engine.RecordPayment(r.Context(), bookingID, input.Method, input.Amount)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.PaymentResponse{
		Id:        payment.ID,
		BookingId: payment.BookingID,
		Method:    payment.Method,
		Amount:    payment.Amount,
		PaidAt:    payment.PaidAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RemovePaymentHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	count, err := app.engine.RemovePayment(r.Context(), bookingID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.CountResponse{Count: count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
