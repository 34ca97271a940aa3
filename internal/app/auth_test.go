package app

import (
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/cankorkmaz/cinegrid/internal/mailer"
	"github.com/cankorkmaz/cinegrid/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthTestSuite struct {
	suite.Suite
	app          *application
	userRepo     *mocks.MockUserRepo
	tokenRepo    *mocks.MockTokenRepo
	stagingStore *mocks.MockStagingStore
	mockMailer   *mailer.MockMailer
}

func (s *AuthTestSuite) SetupTest() {
	s.userRepo = new(mocks.MockUserRepo)
	s.tokenRepo = new(mocks.MockTokenRepo)
	s.stagingStore = new(mocks.MockStagingStore)
	s.mockMailer = mailer.NewMockMailer()

	s.app = newTestApplication(func(a *application) {
		a.userRepo = s.userRepo
		a.tokenRepo = s.tokenRepo
		a.stagingStore = s.stagingStore
		a.mailer = s.mockMailer
	})
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}

func validRegisterRequest() api.RegisterRequest {
	return api.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "Sup3rSecret!",
	}
}

func (s *AuthTestSuite) TestRegisterUser() {
	tests := []struct {
		name           string
		input          func() api.RegisterRequest
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
		wantMailSent   bool
	}{
		{
			name: "should fail when email is missing",
			input: func() api.RegisterRequest {
				req := validRegisterRequest()
				req.Email = ""
				return req
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "is required",
		},
		{
			name: "should fail when password is weak",
			input: func() api.RegisterRequest {
				req := validRegisterRequest()
				req.Password = "password"
				return req
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrMessage: "must be at least 8 characters long and include at least one uppercase letter, " +
				"one lowercase letter, one number, and one special character (!@#$%^&*).",
		},
		{
			name:  "should not reveal that the email is taken",
			input: validRegisterRequest,
			setupMocks: func() {
				s.userRepo.On("CreateWithToken", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, domain.ErrUserAlreadyExists)
			},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "invalid input data",
		},
		{
			name:  "should register user and send activation mail",
			input: validRegisterRequest,
			setupMocks: func() {
				token, err := domain.GenerateToken(1, 3*24*time.Hour, domain.UserActivationScope)
				s.Require().NoError(err)

				s.userRepo.On("CreateWithToken", mock.Anything, mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) {
						user := args.Get(1).(*domain.User)
						user.ID = 1
					}).
					Return(token, nil)
			},
			wantStatus:   http.StatusAccepted,
			wantMailSent: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.userRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/users", tt.input())
			s.app.RegisterUser(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantMailSent {
				s.Eventually(func() bool {
					return len(s.mockMailer.GetSentEmails()) == 1
				}, time.Second, 10*time.Millisecond)

				sent := s.mockMailer.GetSentEmails()[0]
				s.Equal("jane@example.com", sent.Recipient)
				s.Equal("user_welcome.tmpl", sent.TemplateFile)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *AuthTestSuite) TestActivateUser() {
	plaintext := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQ"
	hash := sha256.Sum256([]byte(plaintext))

	tests := []struct {
		name           string
		token          string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:           "should fail when token has the wrong length",
			token:          "short",
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be exactly 43 characters long",
		},
		{
			name:  "should fail when token is unknown",
			token: plaintext,
			setupMocks: func() {
				s.userRepo.On("GetByToken", mock.Anything, hash[:], domain.UserActivationScope).
					Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:  "should fail when user is already activated",
			token: plaintext,
			setupMocks: func() {
				s.userRepo.On("GetByToken", mock.Anything, hash[:], domain.UserActivationScope).
					Return(&domain.User{ID: 1, Activated: true}, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:  "should activate user and delete spent tokens",
			token: plaintext,
			setupMocks: func() {
				s.userRepo.On("GetByToken", mock.Anything, hash[:], domain.UserActivationScope).
					Return(&domain.User{ID: 1}, nil)
				s.userRepo.On("ActivateUser", mock.Anything, mock.Anything).Return(nil)
				s.tokenRepo.On("DeleteAllForUser", mock.Anything, domain.UserActivationScope, 1).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.userRepo.AssertExpectations(s.T())
			defer s.tokenRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPut, "/users/activation", api.UserActivationRequest{Token: tt.token})
			s.app.ActivateUser(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp api.UserActivationResponse
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
				s.True(resp.Activated)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *AuthTestSuite) TestLogin() {
	newUser := func(role domain.Role) *domain.User {
		user := &domain.User{ID: 7, Email: "jane@example.com", Role: role, Activated: true}
		s.Require().NoError(user.Password.Set("Sup3rSecret!"))
		return user
	}

	s.Run("should reject unknown email", func() {
		s.SetupTest()

		s.userRepo.On("GetByEmail", mock.Anything, "jane@example.com").
			Return(nil, domain.ErrRecordNotFound)

		w, r := executeRequest(s.T(), http.MethodPost, "/sessions",
			api.LoginRequest{Email: "jane@example.com", Password: "Sup3rSecret!"})
		r = setupTestSession(s.T(), s.app, r)

		s.app.Login(w, r)

		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("should reject wrong password", func() {
		s.SetupTest()

		s.userRepo.On("GetByEmail", mock.Anything, "jane@example.com").Return(newUser(domain.RoleUser), nil)

		w, r := executeRequest(s.T(), http.MethodPost, "/sessions",
			api.LoginRequest{Email: "jane@example.com", Password: "WrongPassword1!"})
		r = setupTestSession(s.T(), s.app, r)

		s.app.Login(w, r)

		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("should log in a buyer and bind the user to the session", func() {
		s.SetupTest()

		s.userRepo.On("GetByEmail", mock.Anything, "jane@example.com").Return(newUser(domain.RoleUser), nil)
		s.stagingStore.On("Get", mock.Anything, mock.Anything).Return(nil, domain.ErrStagingNotFound)

		w, r := executeRequest(s.T(), http.MethodPost, "/sessions",
			api.LoginRequest{Email: "jane@example.com", Password: "Sup3rSecret!"})
		r = setupTestSession(s.T(), s.app, r)

		s.app.Login(w, r)

		s.Equal(http.StatusNoContent, w.Code)
		s.Equal(7, s.app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String()))
		s.False(s.app.sessionManager.GetBool(r.Context(), SessionKeyStaff.String()))
	})

	s.Run("should flag staff sessions", func() {
		s.SetupTest()

		s.userRepo.On("GetByEmail", mock.Anything, "jane@example.com").Return(newUser(domain.RoleStaff), nil)
		s.stagingStore.On("Get", mock.Anything, mock.Anything).Return(nil, domain.ErrStagingNotFound)

		w, r := executeRequest(s.T(), http.MethodPost, "/sessions",
			api.LoginRequest{Email: "jane@example.com", Password: "Sup3rSecret!"})
		r = setupTestSession(s.T(), s.app, r)

		s.app.Login(w, r)

		s.Equal(http.StatusNoContent, w.Code)
		s.True(s.app.sessionManager.GetBool(r.Context(), SessionKeyStaff.String()))
	})

	s.Run("should carry a staged cart across the session renewal", func() {
		s.SetupTest()

		staged := domain.NewStaging(3, []domain.Coord{{Row: 1, Col: 1}}, decimal.RequireFromString("250"))

		s.userRepo.On("GetByEmail", mock.Anything, "jane@example.com").Return(newUser(domain.RoleUser), nil)
		s.stagingStore.On("Get", mock.Anything, mock.Anything).Return(&staged, nil)
		s.stagingStore.On("Put", mock.Anything, mock.Anything, &staged).Return(nil)
		s.stagingStore.On("Delete", mock.Anything, mock.Anything).Return(nil)

		w, r := executeRequest(s.T(), http.MethodPost, "/sessions",
			api.LoginRequest{Email: "jane@example.com", Password: "Sup3rSecret!"})
		r = setupTestSession(s.T(), s.app, r)

		s.app.Login(w, r)

		s.Equal(http.StatusNoContent, w.Code)
		s.stagingStore.AssertExpectations(s.T())
	})

	s.Run("should short-circuit when already logged in", func() {
		s.SetupTest()

		w, r := executeRequest(s.T(), http.MethodPost, "/sessions", api.LoginRequest{})
		r = setupTestSession(s.T(), s.app, r)
		s.app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), 7)

		s.app.Login(w, r)

		s.Equal(http.StatusOK, w.Code)

		var resp api.AlreadyLoggedInResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Equal("You are already logged in", resp.Message)

		s.userRepo.AssertNotCalled(s.T(), "GetByEmail", mock.Anything, mock.Anything)
	})
}

func (s *AuthTestSuite) TestLogout() {
	s.Run("should fail when not logged in", func() {
		s.SetupTest()

		w, r := executeRequest(s.T(), http.MethodDelete, "/sessions", nil)
		r = setupTestSession(s.T(), s.app, r)

		s.app.Logout(w, r)

		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("should destroy the session", func() {
		s.SetupTest()

		w, r := executeRequest(s.T(), http.MethodDelete, "/sessions", nil)
		r = setupTestSession(s.T(), s.app, r)
		s.app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), 7)

		s.app.Logout(w, r)

		s.Equal(http.StatusNoContent, w.Code)
		s.Equal(0, s.app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String()))
	})
}
