package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/cankorkmaz/cinegrid/internal/staging"
	"github.com/shopspring/decimal"
)

// CreateCartHandler stages a seat selection for the session. Staging is a
// session-private draft: the seats stay free in the shared inventory and are
// only held when payment confirmation drives the commit.
func (app *application) CreateCartHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateCartRequest

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

	seats := make([]domain.Coord, 0, len(input.Seats))
	seen := make(map[domain.Coord]bool, len(input.Seats))

	for _, seat := range input.Seats {
		coord := domain.Coord{Row: seat.Row, Col: seat.Col}
		if seen[coord] {
			app.badRequestResponse(w, r, fmt.Errorf("seat (%d,%d) is selected twice", seat.Row, seat.Col))
			return
		}

		seen[coord] = true
		seats = append(seats, coord)
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

	subtotal := decimal.Zero

	err = app.layoutRepo.View(r.Context(), showtimeId, func(grid *domain.SeatGrid) error {
		if err := grid.CheckBounds(seats); err != nil {
			return err
		}

		for _, coord := range seats {
			price, err := grid.Price(coord, showtime)
			if err != nil {
				return err
			}

			subtotal = subtotal.Add(price)
		}

		return nil
	})

	if err != nil {
		var oob domain.OutOfBoundsError

		switch {
		case errors.As(err, &oob):
			app.badRequestResponse(w, r, oob)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	// Advisory only: another buyer can still take these seats before this
	// session commits. The commit re-checks under the inventory's lock.
	free, err := app.inventory.IsFreeAll(r.Context(), showtimeId, seats)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !free {
		logger.Warn("cart creation rejected, some seats already held", "showtime_id", showtimeId)
		app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already taken"))
		return
	}

	staged := domain.NewStaging(showtimeId, seats, subtotal)

	sessionID := app.sessionManager.Token(r.Context())
	err = app.stagingStore.Put(r.Context(), sessionID, &staged)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp, err := app.buildCartResponse(r.Context(), &staged, showtime)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.Token(r.Context())

	staged, err := app.stagingStore.Get(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStagingNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), staged.ShowtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp, err := app.buildCartResponse(r.Context(), staged, showtime)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateCartFoodHandler replaces the staged food selection. Prices are
// captured from the catalog at selection time and the grand total is
// recomputed.
func (app *application) UpdateCartFoodHandler(w http.ResponseWriter, r *http.Request) {
	var input api.UpdateCartFoodRequest

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

	sessionID := app.sessionManager.Token(r.Context())

	staged, err := app.stagingStore.Get(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStagingNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	selections, err := app.resolveFoodSelections(r.Context(), input.Items)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.badRequestResponse(w, r, fmt.Errorf("one or more food items do not exist or are inactive"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	staged.SetFoodItems(selections)

	err = app.stagingStore.Put(r.Context(), sessionID, staged)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), staged.ShowtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp, err := app.buildCartResponse(r.Context(), staged, showtime)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteCartHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.Token(r.Context())

	_, err := app.stagingStore.Get(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStagingNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.stagingStore.Delete(r.Context(), sessionID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) resolveFoodSelections(
	ctx context.Context,
	items []api.FoodOrderItem) ([]domain.FoodSelection, error) {

	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ItemId
	}

	catalog, err := app.foodRepo.GetByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	byId := make(map[int]domain.FoodItem, len(catalog))
	for _, item := range catalog {
		if item.IsActive {
			byId[item.ID] = item
		}
	}

	selections := make([]domain.FoodSelection, len(items))

	for i, item := range items {
		catalogItem, ok := byId[item.ItemId]
		if !ok {
			return nil, domain.ErrRecordNotFound
		}

		selections[i] = domain.FoodSelection{
			ItemID:    catalogItem.ID,
			Name:      catalogItem.Name,
			UnitPrice: catalogItem.Price,
			Quantity:  item.Quantity,
		}
	}

	return selections, nil
}

func (app *application) buildCartResponse(
	ctx context.Context,
	staged *domain.Staging,
	showtime *domain.Showtime) (api.CartResponse, error) {

	cartSeats := make([]api.CartSeat, len(staged.Seats))

	err := app.layoutRepo.View(ctx, staged.ShowtimeID, func(grid *domain.SeatGrid) error {
		for i, coord := range staged.Seats {
			category, err := grid.Category(coord)
			if err != nil {
				return err
			}

			cartSeats[i] = api.CartSeat{
				Row:   coord.Row,
				Col:   coord.Col,
				Type:  category.String(),
				Price: showtime.PriceFor(category),
			}
		}

		return nil
	})

	if err != nil {
		return api.CartResponse{}, err
	}

	foodItems := make([]api.CartFoodItem, len(staged.FoodItems))
	for i, item := range staged.FoodItems {
		foodItems[i] = api.CartFoodItem{
			ItemId:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return api.CartResponse{
		ShowtimeId:   staged.ShowtimeID,
		MovieTitle:   showtime.MovieTitle,
		Seats:        cartSeats,
		SeatSubtotal: staged.SeatSubtotal,
		FoodItems:    foodItems,
		TotalPrice:   staged.Total,
		HoldTime:     int(staging.DefaultTTL.Seconds()),
	}, nil
}
