// Package api holds the request and response types of the HTTP surface.
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
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,alpha,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,alpha,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Activated bool      `json:"activated"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int       `json:"version"`
}

type UserActivationRequest struct {
	Token string `json:"token" validate:"required,len=43"`
}

type UserActivationResponse struct {
	Activated bool `json:"activated"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AlreadyLoggedInResponse struct {
	Message string `json:"message"`
}

type Seat struct {
	Row       int             `json:"row"`
	Column    int             `json:"column"`
	Type      string          `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

type SeatRow struct {
	Row   int    `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId  int       `json:"showtimeId"`
	MovieTitle  string    `json:"movieTitle"`
	TheaterName string    `json:"theaterName"`
	Hall        string    `json:"hall"`
	StartTime   time.Time `json:"startTime"`
	SeatRows    []SeatRow `json:"seatRows"`
}

type SeatSelection struct {
	Row int `json:"row" validate:"min=0"`
	Col int `json:"col" validate:"min=0"`
}

type CreateCartRequest struct {
	Seats []SeatSelection `json:"seats" validate:"required,min=1,max=10,dive"`
}

type CartSeat struct {
	Row   int             `json:"row"`
	Col   int             `json:"col"`
	Type  string          `json:"type"`
	Price decimal.Decimal `json:"price"`
}

type CartFoodItem struct {
	ItemId    int             `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

type CartResponse struct {
	ShowtimeId   int             `json:"showtimeId"`
	MovieTitle   string          `json:"movieTitle"`
	Seats        []CartSeat      `json:"seats"`
	SeatSubtotal decimal.Decimal `json:"seatSubtotal"`
	FoodItems    []CartFoodItem  `json:"foodItems"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	HoldTime     int             `json:"holdTime"`
}

type FoodOrderItem struct {
	ItemId   int `json:"itemId" validate:"required,min=1"`
	Quantity int `json:"quantity" validate:"required,min=1,max=20"`
}

type UpdateCartFoodRequest struct {
	Items []FoodOrderItem `json:"items" validate:"dive"`
}

type FoodItem struct {
	Id       int             `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type FoodMenuResponse struct {
	Items []FoodItem `json:"items"`
}

type CreateFoodItemRequest struct {
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Category string          `json:"category" validate:"required,min=2,max=50"`
	Price    decimal.Decimal `json:"price" validate:"required"`
}

type PaymentIntentResponse struct {
	IntentId     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
}

type BookingSeat struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type BookingResponse struct {
	Id         int             `json:"id"`
	Reference  string          `json:"reference"`
	ShowtimeId int             `json:"showtimeId"`
	StartTime  time.Time       `json:"startTime"`
	Seats      []BookingSeat   `json:"seats"`
	FoodItems  []CartFoodItem  `json:"foodItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	Attended   bool            `json:"attended"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type BookingSummary struct {
	Id          int             `json:"id"`
	Reference   string          `json:"reference"`
	MovieTitle  string          `json:"movieTitle"`
	TheaterName string          `json:"theaterName"`
	Hall        string          `json:"hall"`
	StartTime   time.Time       `json:"startTime"`
	SeatCount   int             `json:"seatCount"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

type CreateShowtimeRequest struct {
	MovieId       int             `json:"movieId" validate:"required,min=1"`
	TheaterId     int             `json:"theaterId" validate:"required,min=1"`
	Hall          string          `json:"hall" validate:"required,min=1,max=50"`
	StartTime     time.Time       `json:"startTime" validate:"required"`
	Rows          int             `json:"rows" validate:"required,min=1,max=100"`
	Cols          int             `json:"cols" validate:"required,min=1,max=100"`
	PriceStandard decimal.Decimal `json:"priceStandard" validate:"required"`
	PricePremium  decimal.Decimal `json:"pricePremium" validate:"required"`
	PriceVip      decimal.Decimal `json:"priceVip" validate:"required"`
	PremiumRows   []int           `json:"premiumRows"`
	VipRows       []int           `json:"vipRows"`
}

type ShowtimeResponse struct {
	Id            int             `json:"id"`
	MovieId       int             `json:"movieId"`
	TheaterId     int             `json:"theaterId"`
	Hall          string          `json:"hall"`
	StartTime     time.Time       `json:"startTime"`
	Rows          int             `json:"rows"`
	Cols          int             `json:"cols"`
	PriceStandard decimal.Decimal `json:"priceStandard"`
	PricePremium  decimal.Decimal `json:"pricePremium"`
	PriceVip      decimal.Decimal `json:"priceVip"`
}

type TheaterShowtimesResponse struct {
	Showtimes []ShowtimeResponse `json:"showtimes"`
	Metadata  Metadata           `json:"metadata"`
}

type TicketVerificationResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Attended  bool   `json:"attended"`
	Valid     bool   `json:"valid"`
}
