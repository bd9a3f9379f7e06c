package razorpay

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// Client is the slice of the gateway API the checkout flow needs: open a
// payment order for an amount, then verify the signature the browser
// hands back after the buyer pays.
type Client interface {
	CreateOrder(amountMinor int64, currency string, receipt string) (string, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

type razorpayClient struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayClient(keyID, keySecret string) Client {
	return &razorpayClient{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

// CreateOrder implements Client. Amounts are in the currency's smallest
// unit (paise for INR). Returns the gateway-side order id.
func (r *razorpayClient) CreateOrder(amountMinor int64, currency string, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	order, err := r.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create gateway order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("gateway order response missing id")
	}

	return orderID, nil
}

// VerifyPaymentSignature implements Client.
func (r *razorpayClient) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}

	return utils.VerifyPaymentSignature(params, signature, r.keySecret)
}
