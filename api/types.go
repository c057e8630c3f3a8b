// Package api defines the request and response bodies of the HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Phone     string `json:"phone" validate:"required,phone"`
	Password  string `json:"password" validate:"required,password"`
}

type UserResponse struct {
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateBookingRequest struct {
	Email   string `json:"email" validate:"required,email"`
	ShowId  int    `json:"showId" validate:"required,gt=0"`
	SeatIds []int  `json:"seatIds" validate:"omitempty,dive,gt=0"`
}

type BookingResponse struct {
	Id        int       `json:"id"`
	Email     string    `json:"email"`
	ShowId    int       `json:"showId"`
	Status    string    `json:"status"`
	SeatCount int       `json:"seatCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChangeSeatsRequest struct {
	OldSeatId int `json:"oldSeatId" validate:"required,gt=0"`
	NewSeatId int `json:"newSeatId" validate:"required,gt=0"`
}

type RecordPaymentRequest struct {
	Method string          `json:"method" validate:"required,min=2,max=30"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type PaymentResponse struct {
	Id        int             `json:"id"`
	BookingId int             `json:"bookingId"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
}

// CountResponse reports how many rows a bulk operation touched.
type CountResponse struct {
	Count int64 `json:"count"`
}

type CreateShowingRequest struct {
	Title           string    `json:"title" validate:"required,min=1,max=255"`
	ReleaseDate     time.Time `json:"releaseDate" validate:"required"`
	Country         string    `json:"country" validate:"required,max=100"`
	Description     string    `json:"description" validate:"max=1000"`
	DurationSeconds int       `json:"durationSeconds" validate:"required,gt=0"`
	Language        string    `json:"language" validate:"required,max=50"`
	Genre           string    `json:"genre" validate:"required,max=50"`
	TheaterId       int       `json:"theaterId" validate:"required,gt=0"`
	ShowDate        time.Time `json:"showDate" validate:"required"`
	StartsAt        time.Time `json:"startsAt" validate:"required"`
	EndsAt          time.Time `json:"endsAt" validate:"required,gtfield=StartsAt"`
}

type ShowResponse struct {
	Id       int       `json:"id"`
	MovieId  int       `json:"movieId"`
	Date     time.Time `json:"date"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

type ShowSummaryResponse struct {
	Id              int       `json:"id"`
	MovieTitle      string    `json:"movieTitle"`
	DurationSeconds int       `json:"durationSeconds"`
	Date            time.Time `json:"date"`
	StartsAt        time.Time `json:"startsAt"`
}

type SeatResponse struct {
	Id         int             `json:"id"`
	SeatNumber int             `json:"seatNumber"`
	Price      decimal.Decimal `json:"price"`
}

type BookingInfoResponse struct {
	MovieTitle  string    `json:"movieTitle"`
	ShowDate    time.Time `json:"showDate"`
	StartsAt    time.Time `json:"startsAt"`
	TheaterName string    `json:"theaterName"`
	SeatNumber  int       `json:"seatNumber"`
}

type CreateHoldRequest struct {
	SeatIdList []int `json:"seatIdList" validate:"required,min=1,dive,gt=0"`
}

type HoldResponse struct {
	HoldId    string    `json:"holdId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type DeleteHoldRequest struct {
	HoldId string `json:"holdId" validate:"required,uuid"`
}

type TheatersResponse struct {
	Theaters []string `json:"theaters"`
}

type ShowsResponse struct {
	Shows []ShowResponse `json:"shows"`
}

type ScheduleResponse struct {
	Shows []ShowSummaryResponse `json:"shows"`
}

type MovieTitlesResponse struct {
	Titles []string `json:"titles"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

type UserBookingsResponse struct {
	Bookings []BookingInfoResponse `json:"bookings"`
}

type SeatsResponse struct {
	Seats []SeatResponse `json:"seats"`
}

type SystemInfo struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
