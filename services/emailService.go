package services

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/ChurchWeb/models"
)

type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	sender     emailSender
	from       string
	churchName string
}

var emailService *EmailService

// InitEmailService initializes the email service with Resend API
func InitEmailService() {
	apiKey := os.Getenv("RESEND_API_KEY")

	if apiKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set. Email service will not be available.")
		return
	}

	client := resend.NewClient(apiKey)
	emailService = NewEmailService(client.Emails, os.Getenv("RESEND_FROM_EMAIL"), ChurchName())

	log.Println("Email service initialized successfully with Resend")
}

func NewEmailService(sender emailSender, from string, churchName string) *EmailService {
	return &EmailService{sender: sender, from: from, churchName: churchName}
}

// GetEmailService returns the singleton email service instance
func GetEmailService() *EmailService {
	return emailService
}

func SetEmailService(service *EmailService) *EmailService {
	previous := emailService
	emailService = service
	return previous
}

const emailStyles = `
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #d4af37;
        }
        .header h1 {
            color: #1e3a8a;
            margin: 0;
        }
        .content {
            padding: 30px 0;
        }
        .summary {
            background-color: #eff6ff;
            border-radius: 8px;
            padding: 20px;
            margin: 20px 0;
        }
        .footer {
            text-align: center;
            padding: 20px 0;
            border-top: 1px solid #ddd;
            font-size: 12px;
            color: #666;
        }`

// SendDonationReceipt thanks a named donor for a completed donation.
func (s *EmailService) SendDonationReceipt(donation models.Donation) error {
	if s.sender == nil {
		return fmt.Errorf("email service not initialized")
	}
	if donation.Anonymous || donation.Email == "" {
		return fmt.Errorf("donation %s has no donor email", donation.Payment_ID)
	}

	amount := formatRupees(donation.Amount)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>%s
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>

    <div class="content">
        <h2>Thank You!</h2>

        <p>Dear %s,</p>

        <p>Your donation has been received successfully. Your generous contribution helps us continue our ministry and serve our community.</p>

        <div class="summary">
            <p><strong>Amount:</strong> %s</p>
            <p><strong>Purpose:</strong> %s</p>
            <p><strong>Payment reference:</strong> %s</p>
        </div>

        <p>Blessings,<br>%s</p>
    </div>

    <div class="footer">
        <p>This is an automated message, please do not reply directly to this email.</p>
    </div>
</body>
</html>
`, emailStyles, html.EscapeString(s.churchName), html.EscapeString(donation.Donor_Name), amount,
		donation.Purpose.Label(), html.EscapeString(donation.Payment_ID), html.EscapeString(s.churchName))

	textBody := fmt.Sprintf(`
Thank You!

Dear %s,

Your donation has been received successfully.

Amount: %s
Purpose: %s
Payment reference: %s

Blessings,
%s
`, donation.Donor_Name, amount, donation.Purpose.Label(), donation.Payment_ID, s.churchName)

	return s.send(donation.Email, "Thank you for your donation", htmlBody, textBody)
}

// SendPrayerRequestNotice forwards a submitted prayer request to the prayer
// team inbox.
func (s *EmailService) SendPrayerRequestNotice(toEmail string, request models.PrayerRequest) error {
	if s.sender == nil {
		return fmt.Errorf("email service not initialized")
	}

	email := request.Email
	if email == "" {
		email = "not provided"
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>%s
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>

    <div class="content">
        <h2>New Prayer Request</h2>

        <div class="summary">
            <p><strong>From:</strong> %s</p>
            <p><strong>Email:</strong> %s</p>
        </div>

        <p>%s</p>
    </div>
</body>
</html>
`, emailStyles, html.EscapeString(s.churchName), html.EscapeString(request.Name), html.EscapeString(email),
		strings.ReplaceAll(html.EscapeString(request.Request), "\n", "<br>"))

	textBody := fmt.Sprintf(`
New Prayer Request

From: %s
Email: %s

%s
`, request.Name, email, request.Request)

	return s.send(toEmail, "New prayer request from "+request.Name, htmlBody, textBody)
}

func (s *EmailService) send(toEmail string, subject string, htmlBody string, textBody string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.sender.Send(params)
	if err != nil {
		log.Printf("Failed to send email %q to %s: %v", subject, toEmail, err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Successfully sent email %q to %s. Email ID: %s", subject, toEmail, sent.Id)
	return nil
}

func formatRupees(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("₹%d", int64(amount))
	}
	return fmt.Sprintf("₹%.2f", amount)
}
