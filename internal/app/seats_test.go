package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/cankorkmaz/cinegrid/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SeatsTestSuite struct {
	suite.Suite
	app          *application
	showtimeRepo *mocks.MockShowtimeRepo
	layoutRepo   *mocks.MockLayoutRepo
}

func (s *SeatsTestSuite) SetupTest() {
	s.showtimeRepo = new(mocks.MockShowtimeRepo)
	s.layoutRepo = new(mocks.MockLayoutRepo)

	s.app = newTestApplication(func(a *application) {
		a.showtimeRepo = s.showtimeRepo
		a.layoutRepo = s.layoutRepo
	})
}

func TestSeatsSuite(t *testing.T) {
	suite.Run(t, new(SeatsTestSuite))
}

func (s *SeatsTestSuite) TestGetSeatMapByShowtime() {
	s.Run("should fail when showtime ID is invalid", func() {
		s.SetupTest()

		w, r := executeRequest(s.T(), http.MethodGet, "/showtimes/0/seats", nil)
		r = withURLParams(r, map[string]string{"showtimeId": "0"})

		s.app.GetSeatMapByShowtime(w, r)

		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("should fail when showtime does not exist", func() {
		s.SetupTest()

		s.showtimeRepo.On("GetById", mock.Anything, 999).Return(nil, domain.ErrRecordNotFound)

		w, r := executeRequest(s.T(), http.MethodGet, "/showtimes/999/seats", nil)
		r = withURLParams(r, map[string]string{"showtimeId": "999"})

		s.app.GetSeatMapByShowtime(w, r)

		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("should render the full grid with tiers, prices and availability", func() {
		s.SetupTest()

		grid := testCartGrid(s.T())
		s.Require().NoError(grid.Hold(domain.Coord{Row: 2, Col: 2}))

		s.showtimeRepo.On("GetById", mock.Anything, 3).Return(testCartShowtime(), nil)
		s.layoutRepo.On("View", mock.Anything, 3, mock.Anything).Return(nil, grid)

		w, r := executeRequest(s.T(), http.MethodGet, "/showtimes/3/seats", nil)
		r = withURLParams(r, map[string]string{"showtimeId": "3"})

		s.app.GetSeatMapByShowtime(w, r)

		s.Equal(http.StatusOK, w.Code)

		var resp api.SeatMapResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

		s.Equal(3, resp.ShowtimeId)
		s.Equal("Test Movie", resp.MovieTitle)
		s.Len(resp.SeatRows, 4)
		s.Len(resp.SeatRows[0].Seats, 5)

		s.Equal("Standard", resp.SeatRows[0].Seats[0].Type)
		s.True(resp.SeatRows[0].Seats[0].Price.Equal(decimal.RequireFromString("250")))
		s.True(resp.SeatRows[0].Seats[0].Available)

		s.Equal("Premium", resp.SeatRows[1].Seats[0].Type)
		s.True(resp.SeatRows[1].Seats[0].Price.Equal(decimal.RequireFromString("400")))

		s.Equal("VIP", resp.SeatRows[2].Seats[2].Type)
		s.True(resp.SeatRows[2].Seats[2].Price.Equal(decimal.RequireFromString("600")))
		s.False(resp.SeatRows[2].Seats[2].Available)
	})
}
