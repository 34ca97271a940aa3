package app

import (
	"errors"
	"net/http"

	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (app *application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)
	pagination := app.readPagination(r)

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiSummaries := make([]api.BookingSummary, len(summaries))
	for i, v := range summaries {
		apiSummaries[i] = api.BookingSummary{
			Id:          v.BookingID,
			Reference:   v.Reference,
			MovieTitle:  v.MovieTitle,
			TheaterName: v.TheaterName,
			Hall:        v.Hall,
			StartTime:   v.ShowtimeStart,
			SeatCount:   v.SeatCount,
			TotalPrice:  v.TotalPrice,
			Status:      string(v.Status),
			CreatedAt:   v.CreatedAt,
		}
	}

	resp := api.UserBookingsResponse{
		Bookings: apiSummaries,
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetUserBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	// a buyer can only see their own bookings
	if booking.UserID != app.contextGetUserId(r) {
		app.notFoundResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	app.cancelBooking(w, r, false)
}

func (app *application) StaffCancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	app.cancelBooking(w, r, true)
}

func (app *application) cancelBooking(w http.ResponseWriter, r *http.Request, staff bool) {
	logger := app.contextGetLogger(r)

	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	booking, err := app.lifecycle.Cancel(r.Context(), bookingId, userId, staff)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyCancelled):
			// informational, the booking already holds the requested state
			logger.Info("cancellation of already cancelled booking", "booking_id", bookingId)
			app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrCancellationWindowClosed):
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) MarkAttendanceHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.lifecycle.MarkAttended(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyAttended):
			logger.Info("repeated attendance mark", "booking_id", bookingId)
			app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrBookingNotConfirmed):
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// VerifyTicketHandler resolves a scanned ticket QR code to its booking.
func (app *application) VerifyTicketHandler(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		app.badRequestResponse(w, r, errors.New("missing ticket reference"))
		return
	}

	booking, err := app.bookingRepo.GetByReference(r.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.TicketVerificationResponse{
		Reference: booking.Reference,
		Status:    string(booking.Status),
		Attended:  booking.Attended,
		Valid:     booking.Status == domain.BookingConfirmed && !booking.Attended,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	seats := make([]api.BookingSeat, len(booking.Seats))
	for i, seat := range booking.Seats {
		seats[i] = api.BookingSeat{Row: seat.Row, Col: seat.Col}
	}

	foodItems := make([]api.CartFoodItem, len(booking.FoodItems))
	for i, item := range booking.FoodItems {
		foodItems[i] = api.CartFoodItem{
			ItemId:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return api.BookingResponse{
		Id:         booking.ID,
		Reference:  booking.Reference,
		ShowtimeId: booking.ShowtimeID,
		StartTime:  booking.ShowtimeStart,
		Seats:      seats,
		FoodItems:  foodItems,
		TotalPrice: booking.TotalPrice,
		Status:     string(booking.Status),
		Attended:   booking.Attended,
		CreatedAt:  booking.CreatedAt,
	}
}
