package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/mailer"
	"github.com/cankorkmaz/cinegrid/internal/mocks"
	"github.com/cankorkmaz/cinegrid/internal/validator"
	"github.com/go-chi/chi/v5"
)

func newTestApplication(opts ...func(*application)) *application {
	app := &application{
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
		userRepo:       &mocks.MockUserRepo{},
		tokenRepo:      &mocks.MockTokenRepo{},
		mailer:         mailer.NewMockMailer(),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// setupTestSession loads a fresh session into the request context so that
// handlers touching the session manager do not panic.
func setupTestSession(t *testing.T, app *application, r *http.Request) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	return r.WithContext(ctx)
}

// withAuthenticatedUser mirrors what the requireAuthentication middleware
// does: the user id ends up both in the session and in the request context.
func withAuthenticatedUser(t *testing.T, app *application, r *http.Request, userId int) *http.Request {
	r = setupTestSession(t, app, r)

	app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), userId)

	ctx := context.WithValue(r.Context(), SessionKeyUserId, userId)

	return r.WithContext(ctx)
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}

		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}
