package payments

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Intent is a remote gateway object representing an amount to be collected.
type Intent struct {
	GatewayOrderID string
	AmountMinor    int64
	Currency       string
}

// IntentGateway creates payment intents using per-store credentials. Each
// call carries its own key pair because every tenant brings their own
// gateway account.
type IntentGateway interface {
	CreateIntent(ctx context.Context, keyID, keySecret string, amountMinor int64, currency, receipt string) (*Intent, error)
}

type razorpayGateway struct{}

// NewRazorpayGateway returns the production Razorpay-backed gateway.
func NewRazorpayGateway() IntentGateway {
	return razorpayGateway{}
}

func (razorpayGateway) CreateIntent(_ context.Context, keyID, keySecret string, amountMinor int64, currency, receipt string) (*Intent, error) {
	client := razorpay.NewClient(keyID, keySecret)

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("creating gateway order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}
	return &Intent{
		GatewayOrderID: id,
		AmountMinor:    amountMinor,
		Currency:       currency,
	}, nil
}
