package utils

import (
	"strings"
	"testing"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRazorpaySignature(t *testing.T) {
	sig := RazorpaySignature("order_abc", "pay_xyz", "secret")
	assert.Len(t, sig, 64)
	assert.Equal(t, sig, RazorpaySignature("order_abc", "pay_xyz", "secret"))
	assert.NotEqual(t, sig, RazorpaySignature("order_abc", "pay_xyz", "other"))

	assert.True(t, VerifyRazorpaySignature("order_abc", "pay_xyz", sig, "secret"))
	assert.False(t, VerifyRazorpaySignature("order_abc", "pay_other", sig, "secret"))
	assert.False(t, VerifyRazorpaySignature("order_abc", "pay_xyz", sig, ""))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(49999), ToPaise(499.99))
	assert.Equal(t, int64(100), ToPaise(1))
	assert.Equal(t, int64(1999), ToPaise(19.985))
	assert.True(t, strings.HasPrefix(NewReceipt(), "receipt_"))
}

func TestNewPaymentGatewayNeedsCredentials(t *testing.T) {
	prev := config.AppConfig
	t.Cleanup(func() { config.AppConfig = prev })

	config.AppConfig = &config.Config{RazorpayKey: "rzp_test"}
	_, err := NewPaymentGateway()
	assert.ErrorIs(t, err, ErrPaymentsDisabled)

	config.AppConfig = &config.Config{RazorpayKey: "rzp_test", RazorpaySecret: "s3cret"}
	gw, err := NewPaymentGateway()
	require.NoError(t, err)
	assert.NotNil(t, gw)
}
