package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

// ErrPaymentsDisabled is returned when Razorpay credentials are missing
var ErrPaymentsDisabled = errors.New("razorpay credentials missing")

// CardInfo is the card summary of a captured payment
type CardInfo struct {
	Network string `json:"network"`
	Last4   string `json:"last4"`
	Type    string `json:"type"`
}

// PaymentGateway creates gateway orders and fetches captured payments
type PaymentGateway interface {
	CreateOrder(amountPaise int64, currency, receipt string) (string, error)
	FetchCard(paymentID string) (*CardInfo, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func (g *razorpayGateway) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	order, err := g.client.Order.Create(map[string]interface{}{
		"amount":          amountPaise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return "", err
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay returned no order id")
	}
	return id, nil
}

func (g *razorpayGateway) FetchCard(paymentID string) (*CardInfo, error) {
	payment, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, err
	}
	if payment["method"] != "card" {
		return nil, nil
	}
	card, ok := payment["card"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	str := func(k string) string {
		s, _ := card[k].(string)
		return s
	}
	return &CardInfo{Network: str("network"), Last4: str("last4"), Type: str("type")}, nil
}

// NewPaymentGateway returns the configured gateway. Tests replace it with a stub.
var NewPaymentGateway = func() (PaymentGateway, error) {
	cfg := config.AppConfig
	if cfg == nil || cfg.RazorpayKey == "" || cfg.RazorpaySecret == "" {
		return nil, ErrPaymentsDisabled
	}
	return &razorpayGateway{client: razorpay.NewClient(cfg.RazorpayKey, cfg.RazorpaySecret)}, nil
}

// ToPaise converts a rupee amount to integer paise
func ToPaise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// NewReceipt returns receipt_<unix seconds>
func NewReceipt() string {
	return fmt.Sprintf("receipt_%d", time.Now().Unix())
}

// RazorpaySignature computes the checkout signature of order_id|payment_id
func RazorpaySignature(orderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyRazorpaySignature compares the checkout signature in constant time
func VerifyRazorpaySignature(orderID, paymentID, signature, secret string) bool {
	if secret == "" {
		return false
	}
	return hmac.Equal([]byte(RazorpaySignature(orderID, paymentID, secret)), []byte(signature))
}
