package utils

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"gopkg.in/gomail.v2"
)

// ErrMailDisabled is returned when SMTP is not configured
var ErrMailDisabled = errors.New("smtp is not configured")

// SendEmail sends an HTML email through the configured SMTP server
func SendEmail(to, subject, body string) error {
	cfg := config.AppConfig
	if cfg == nil || cfg.SMTPHost == "" {
		return ErrMailDisabled
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// sendInBackground mails without blocking the request; failures are only logged
func sendInBackground(to, subject, body string) {
	if to == "" {
		return
	}
	go func() {
		if err := SendEmail(to, subject, body); err != nil && !errors.Is(err, ErrMailDisabled) {
			LogError("Failed to send %q to %s: %v", subject, to, err)
		}
	}()
}

// SendOrderConfirmation mails the order summary to the shipping email
func SendOrderConfirmation(order *models.Order) {
	sendInBackground(order.ShippingAddress.Email, fmt.Sprintf("%s order %s confirmed", AppName, order.DisplayID),
		orderConfirmationBody(order))
}

func orderConfirmationBody(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.OrderItems {
		variant := ""
		if len(item.Variant) > 0 {
			variant = " (" + html.EscapeString(item.Variant.Label()) + ")"
		}
		fmt.Fprintf(&rows, "<tr><td>%s%s</td><td>%d</td><td>%.2f</td></tr>",
			html.EscapeString(item.Name), variant, item.Qty, item.Price)
	}
	return fmt.Sprintf(`
		<h2>Thank you for your order!</h2>
		<p>Your order <strong>%s</strong> has been received.</p>
		<table>%s</table>
		<p>Total: <strong>%.2f</strong> (%s)</p>
	`, order.DisplayID, rows.String(), order.TotalPrice, order.PaymentMethod)
}

// SendReturnUpdate tells the customer about a status change on their request
func SendReturnUpdate(to string, ret *models.ReturnRequest, note string) {
	body := fmt.Sprintf(`
		<h2>Update on your %s request</h2>
		<p>Request <strong>%s</strong> for %s is now <strong>%s</strong>.</p>
		<p>%s</p>
	`, strings.ToLower(ret.Type), ret.PublicID, html.EscapeString(ret.Product.Name), ret.Status, html.EscapeString(note))
	sendInBackground(to, fmt.Sprintf("%s request %s: %s", ret.Type, ret.PublicID, ret.Status), body)
}

// SendDeliveryOTP mails the code the courier asks for at the door
func SendDeliveryOTP(to, displayID, otp string) error {
	body := fmt.Sprintf(`
		<h2>Your delivery code</h2>
		<p>Share this code with the delivery agent to receive order <strong>%s</strong>:</p>
		<h1 style="color: #4CAF50; font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This code expires in %d minutes.</p>
	`, displayID, otp, DeliveryOTPTTLMin)
	return SendEmail(to, fmt.Sprintf("Delivery code for order %s", displayID), body)
}
