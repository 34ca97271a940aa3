package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/domain"
)

func (app *application) GetShowtimesByTheater(w http.ResponseWriter, r *http.Request) {
	theaterId, err := app.readIDParam(r, "theaterId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := app.readPagination(r)

	showtimes, metadata, err := app.showtimeRepo.GetByTheater(r.Context(), theaterId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiShowtimes := make([]api.ShowtimeResponse, len(showtimes))
	for i, showtime := range showtimes {
		apiShowtimes[i] = toShowtimeResponse(&showtime)
	}

	resp := api.TheaterShowtimesResponse{
		Showtimes: apiShowtimes,
		Metadata:  toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CreateShowtimeHandler schedules a screening and provisions its seat layout
// in one step. Premium and VIP tiers are assigned by whole rows, remaining
// rows stay standard.
func (app *application) CreateShowtimeHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateShowtimeRequest

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

	for _, row := range append(append([]int{}, input.PremiumRows...), input.VipRows...) {
		if row < 0 || row >= input.Rows {
			app.badRequestResponse(w, r, fmt.Errorf("tier row %d is outside the %d-row grid", row, input.Rows))
			return
		}
	}

	categories := map[domain.SeatCategory][]domain.Coord{
		domain.SeatPremium: rowCoords(input.PremiumRows, input.Cols),
		domain.SeatVIP:     rowCoords(input.VipRows, input.Cols),
	}

	grid, err := domain.NewSeatGrid(input.Rows, input.Cols, categories)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtime := domain.Showtime{
		MovieID:       input.MovieId,
		TheaterID:     input.TheaterId,
		Hall:          input.Hall,
		StartTime:     input.StartTime,
		Rows:          input.Rows,
		Cols:          input.Cols,
		PriceStandard: input.PriceStandard,
		PricePremium:  input.PricePremium,
		PriceVIP:      input.PriceVip,
	}

	err = app.showtimeRepo.Create(r.Context(), &showtime, grid.Encode())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.badRequestResponse(w, r, fmt.Errorf("movie or theater does not exist"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusCreated, toShowtimeResponse(&showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func rowCoords(rows []int, cols int) []domain.Coord {
	var coords []domain.Coord

	for _, row := range rows {
		for col := 0; col < cols; col++ {
			coords = append(coords, domain.Coord{Row: row, Col: col})
		}
	}

	return coords
}

func toShowtimeResponse(showtime *domain.Showtime) api.ShowtimeResponse {
	return api.ShowtimeResponse{
		Id:            showtime.ID,
		MovieId:       showtime.MovieID,
		TheaterId:     showtime.TheaterID,
		Hall:          showtime.Hall,
		StartTime:     showtime.StartTime,
		Rows:          showtime.Rows,
		Cols:          showtime.Cols,
		PriceStandard: showtime.PriceStandard,
		PricePremium:  showtime.PricePremium,
		PriceVip:      showtime.PriceVIP,
	}
}
