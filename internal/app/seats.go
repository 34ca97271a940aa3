package app

import (
	"errors"
	"net/http"

	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/domain"
)

func (app *application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), showtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	var seatRows []api.SeatRow

	err = app.layoutRepo.View(r.Context(), showtimeId, func(grid *domain.SeatGrid) error {
		seatRows = make([]api.SeatRow, grid.Rows())

		for row := range seatRows {
			seatRows[row].Row = row
			seatRows[row].Seats = make([]api.Seat, grid.Cols())

			for col := range seatRows[row].Seats {
				coord := domain.Coord{Row: row, Col: col}

				category, err := grid.Category(coord)
				if err != nil {
					return err
				}

				held, err := grid.IsHeld(coord)
				if err != nil {
					return err
				}

				seatRows[row].Seats[col] = api.Seat{
					Row:       row,
					Column:    col,
					Type:      category.String(),
					Price:     showtime.PriceFor(category),
					Available: !held,
				}
			}
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.contextGetLogger(r).Warn("seat layout missing for showtime", "showtime_id", showtimeId)
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.SeatMapResponse{
		ShowtimeId:  showtimeId,
		MovieTitle:  showtime.MovieTitle,
		TheaterName: showtime.TheaterName,
		Hall:        showtime.Hall,
		StartTime:   showtime.StartTime,
		SeatRows:    seatRows,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
