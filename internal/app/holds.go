package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tickethall/ticket-reservation-system/api"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

// Seat holds are short-lived advisory locks in Redis giving a buyer a window
// to complete payment. The booking transaction in Postgres remains the source
// of truth for seat occupancy.
const seatHoldTTL = 10 * time.Minute

var lockSeatsScript = redis.NewScript(`
    -- KEYS = seat hold keys (e.g., seat_hold:123:1, seat_hold:123:2 etc.)
    -- ARGV = [holdID, ttl]

    for i=1, #KEYS do
        if redis.call("EXISTS", KEYS[i]) == 1 then
            return {err = "seat already held"} -- Return an error indicator
        end
    end

    for i=1, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
    end

    return "OK"
`)

var releaseSeatsScript = redis.NewScript(`
    -- KEYS = seat hold keys
    -- ARGV = [holdID]

    for i=1, #KEYS do
        if redis.call("GET", KEYS[i]) == ARGV[1] then
            redis.call("DEL", KEYS[i])
        end
    end

    return "OK"
`)

func (app *Application) CreateHoldHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateHoldRequest

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

	holdID := uuid.New().String()

	err = app.tryHoldSeats(r.Context(), showID, input.SeatIdList, holdID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already held"))
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("seats couldn't be held: %w", err))
		}

		return
	}

	resp := api.HoldResponse{
		HoldId:    holdID,
		ExpiresAt: time.Now().Add(seatHoldTTL),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteHoldHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := app.readIDParam(r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.DeleteHoldRequest

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

	err = app.releaseHold(r.Context(), input.HoldId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatHoldExpired):
			app.errorResponse(w, r, http.StatusNotFound, domain.ErrSeatHoldExpired.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) tryHoldSeats(ctx context.Context, showID int, seatIDs []int, holdID string) error {
	keys := make([]string, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		keys = append(keys, seatHoldKey(showID, seatID))
	}

	err := lockSeatsScript.Run(ctx, app.redis, keys, holdID, int(seatHoldTTL.Seconds())).Err()
	if err != nil {
		if strings.Contains(err.Error(), "seat already held") {
			return domain.ErrEditConflict
		}

		return err
	}

	members := make([]any, 0, len(keys))
	for _, key := range keys {
		members = append(members, key)
	}

	err = app.redis.SAdd(ctx, holdIndexKey(holdID), members...).Err()
	if err != nil {
		return err
	}

	return app.redis.Expire(ctx, holdIndexKey(holdID), seatHoldTTL).Err()
}

func (app *Application) releaseHold(ctx context.Context, holdID string) error {
	keys, err := app.redis.SMembers(ctx, holdIndexKey(holdID)).Result()
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return domain.ErrSeatHoldExpired
	}

	err = releaseSeatsScript.Run(ctx, app.redis, keys, holdID).Err()
	if err != nil {
		return err
	}

	return app.redis.Del(ctx, holdIndexKey(holdID)).Err()
}

func seatHoldKey(showID, seatID int) string {
	return fmt.Sprintf("seat_hold:%d:%d", showID, seatID)
}

func holdIndexKey(holdID string) string {
	return "seat_hold_index:" + holdID
}
