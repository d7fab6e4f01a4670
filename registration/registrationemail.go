package registration

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/Rhymond/go-money"
)

//go:embed templates
var templates embed.FS

// SendConfirmationEmail sends the single payment-confirmation email for a
// completed registration.
func SendConfirmationEmail(ctx context.Context, emailSender email.Sender, fromAddress string, reg Registration) error {
	htmlBody, err := renderEmailTemplate("payment-confirmation.tmpl", reg)
	if err != nil {
		return err
	}

	textOnlyBody, err := renderEmailTemplate("payment-confirmation-textonly.tmpl", reg)
	if err != nil {
		return err
	}

	return emailSender.SendEmail(ctx, email.Email{
		FromAddress: fromAddress,
		ToAddresses: []string{reg.RecipientEmail()},
		Subject:     fmt.Sprintf("Workshop registration confirmed - %q", reg.WorkshopTitle),
		HTMLBody:    htmlBody,
		TextBody:    textOnlyBody,
	})
}

// SendPaymentFailedEmail sends the single failure notice when a checkout
// expired or the payment was declined.
func SendPaymentFailedEmail(ctx context.Context, emailSender email.Sender, fromAddress string, reg Registration) error {
	htmlBody, err := renderEmailTemplate("payment-failed.tmpl", reg)
	if err != nil {
		return err
	}

	textOnlyBody, err := renderEmailTemplate("payment-failed-textonly.tmpl", reg)
	if err != nil {
		return err
	}

	return emailSender.SendEmail(ctx, email.Email{
		FromAddress: fromAddress,
		ToAddresses: []string{reg.RecipientEmail()},
		Subject:     fmt.Sprintf("Workshop payment unsuccessful - %q", reg.WorkshopTitle),
		HTMLBody:    htmlBody,
		TextBody:    textOnlyBody,
	})
}

func renderEmailTemplate(name string, reg Registration) (string, error) {
	tmpl, err := template.New(name).ParseFS(templates, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template %q: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Registration": reg,
		"Amount":       money.New(reg.WorkshopPrice, reg.PriceCurrency()).Display(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute email template %q: %w", name, err)
	}

	return buf.String(), nil
}
