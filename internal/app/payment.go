package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cankorkmaz/cinegrid/api"
	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func (app *application) CreatePaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)
	sessionID := app.sessionManager.Token(r.Context())

	intent, err := app.coordinator.RequestCharge(r.Context(), userId, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStagingNotFound):
			app.notFoundResponseWithErr(w, r, fmt.Errorf("there is no cart bound to the current session"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.PaymentIntentResponse{
		IntentId:     intent.ID,
		ClientSecret: intent.ClientSecret,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// StripeWebhookHandler receives asynchronous charge outcomes. A mismatch
// between a captured charge and the seat inventory is acknowledged with 200
// so the gateway stops redelivering: the payment row is already flagged for
// reconciliation and retrying cannot fix it. Transient storage failures
// return 500 so the gateway redelivers.
func (app *application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.stripe.webhookSecret)
	if err != nil {
		logger.Warn("webhook signature verification failed", "error", err)
		app.badRequestResponse(w, r, fmt.Errorf("invalid webhook signature"))
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent

		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		booking, err := app.coordinator.OnGatewayConfirmed(r.Context(), intent.ID, intent.Metadata["session_id"])
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrPaymentMismatch):
				logger.Error("payment captured but booking could not be committed",
					"intent_id", intent.ID,
					"error", err,
				)
			default:
				app.serverErrorResponse(w, r, err)
				return
			}
		} else {
			logger.Info("booking committed from payment confirmation",
				"intent_id", intent.ID,
				"booking_id", booking.ID,
			)
		}

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent

		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		reason := "payment failed"
		if intent.LastPaymentError != nil {
			reason = intent.LastPaymentError.Error()
		}

		if err := app.coordinator.OnGatewayFailed(r.Context(), intent.ID, reason); err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

	default:
		logger.Info("unhandled webhook event", "type", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
