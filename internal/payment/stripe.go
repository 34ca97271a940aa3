package payment

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

type StripePaymentProvider struct {
}

func NewStripePaymentProvider(apiKey string) *StripePaymentProvider {
	stripe.Key = apiKey
	return &StripePaymentProvider{}
}

func (s *StripePaymentProvider) CreateIntent(
	ctx context.Context,
	amountMinorUnits int64,
	currency string,
	metadata map[string]string) (*domain.PaymentIntent, error) {

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context:  ctx,
			Metadata: metadata,
		},
		Amount:   stripe.Int64(amountMinorUnits),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
