package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
)

type emailService struct {
	client   *sendgrid.Client
	from     *mail.Email
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, from),
		fromName: fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, subject, body string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), body, "")
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *emailService) SendRegistrationConfirmation(ctx context.Context, email, name, opportunityTitle string) error {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}
	body := fmt.Sprintf("%s,\n\nYour registration for %q is confirmed. Thank you for volunteering.\n\nBest regards,\nThe Relief Coordination Team", greeting, opportunityTitle)
	return s.send(ctx, email, fmt.Sprintf("Registration confirmed: %s", opportunityTitle), body)
}

func (s *emailService) SendWithdrawalConfirmation(ctx context.Context, email, name, opportunityTitle string) error {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}
	body := fmt.Sprintf("%s,\n\nYour registration for %q has been withdrawn. Your slot is available to other volunteers again.\n\nBest regards,\nThe Relief Coordination Team", greeting, opportunityTitle)
	return s.send(ctx, email, fmt.Sprintf("Registration withdrawn: %s", opportunityTitle), body)
}

func (s *emailService) SendDonationDigest(ctx context.Context, email string, situations []domain.RiskSituation) error {
	var b strings.Builder
	b.WriteString("Hello,\n\nDonation progress across active risk situations:\n\n")
	for _, rs := range situations {
		if !rs.AcceptsDonations {
			continue
		}
		fmt.Fprintf(&b, "%s (%s)\n", rs.Name, rs.DisasterType)
		for _, items := range [][]domain.DonationItem{rs.EssentialItems, rs.EmergencyItems, rs.InKindItems} {
			for _, item := range items {
				if !item.Active {
					continue
				}
				if item.Quantifiable {
					fmt.Fprintf(&b, "  - %s: %d/%d %s\n", item.Name, item.Current, item.Limit, item.Unit)
				} else {
					fmt.Fprintf(&b, "  - %s: collecting\n", item.Name)
				}
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("Best regards,\nThe Relief Coordination Team")
	return s.send(ctx, email, "Daily donation digest", b.String())
}

// noopEmailService stands in when no provider key is configured, so local
// runs never attempt outbound mail.
type noopEmailService struct{}

func NewNoopEmailService() EmailService {
	return noopEmailService{}
}

func (noopEmailService) SendRegistrationConfirmation(ctx context.Context, email, name, opportunityTitle string) error {
	logger.Debug("email disabled, skipping registration confirmation", "to", email)
	return nil
}

func (noopEmailService) SendWithdrawalConfirmation(ctx context.Context, email, name, opportunityTitle string) error {
	logger.Debug("email disabled, skipping withdrawal confirmation", "to", email)
	return nil
}

func (noopEmailService) SendDonationDigest(ctx context.Context, email string, situations []domain.RiskSituation) error {
	logger.Debug("email disabled, skipping donation digest", "to", email)
	return nil
}
