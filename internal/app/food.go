package app

import (
	"net/http"

	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/domain"
)

func (app *application) GetFoodMenu(w http.ResponseWriter, r *http.Request) {
	items, err := app.foodRepo.GetActive(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiItems := make([]api.FoodItem, len(items))
	for i, item := range items {
		apiItems[i] = api.FoodItem{
			Id:       item.ID,
			Name:     item.Name,
			Category: item.Category,
			Price:    item.Price,
		}
	}

	resp := api.FoodMenuResponse{Items: apiItems}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CreateFoodItemHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateFoodItemRequest

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

	item := domain.FoodItem{
		Name:     input.Name,
		Category: input.Category,
		Price:    input.Price,
		IsActive: true,
	}

	err = app.foodRepo.Create(r.Context(), &item)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.FoodItem{
		Id:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Price:    item.Price,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
