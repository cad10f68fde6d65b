package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendWelcomeEmail(toEmail, toName string) error
	SendEnrollmentConfirmation(toEmail, toName string, receipt Receipt) error
}

// Receipt is the content of an enrollment confirmation.
type Receipt struct {
	PaymentReference string
	Courses          []string
	Total            string
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(toEmail, subject, htmlBody string) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.sendHTMLEmail
	return s
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Welcome to Course Store!</h2>
		<p>Hello {{.Name}},</p>
		<p>Your account is ready. Browse the catalog at <a href="{{.BaseURL}}/courses">{{.BaseURL}}/courses</a>.</p>
		<p>Best regards,<br>The Course Store Team</p>
	</div>
</body>
</html>`))

var enrollmentTemplate = template.Must(template.New("enrollment").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Enrollment confirmed</h2>
		<p>Hello {{.Name}},</p>
		<p>Thank you for your purchase. You are now enrolled in:</p>
		<ul>{{range .Receipt.Courses}}<li>{{.}}</li>{{end}}</ul>
		<p>Total paid: <strong>{{.Receipt.Total}}</strong></p>
		<p>Payment reference: {{.Receipt.PaymentReference}}</p>
		<p>Your courses are listed on your dashboard: <a href="{{.BaseURL}}/dashboard">{{.BaseURL}}/dashboard</a></p>
	</div>
</body>
</html>`))

// SendWelcomeEmail greets a newly registered student
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Msg("SMTP credentials not configured - welcome email not sent.")
		return nil
	}

	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, map[string]interface{}{
		"Name":    toName,
		"BaseURL": s.config.BaseURL,
	}); err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}

	return s.send(toEmail, "Welcome to Course Store", body.String())
}

// SendEnrollmentConfirmation sends the receipt of a completed checkout
func (s *EmailServiceImpl) SendEnrollmentConfirmation(toEmail, toName string, receipt Receipt) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("paymentReference", receipt.PaymentReference).
			Int("courses", len(receipt.Courses)).
			Msg("SMTP credentials not configured - enrollment confirmation not sent.")
		return nil
	}

	var body bytes.Buffer
	if err := enrollmentTemplate.Execute(&body, map[string]interface{}{
		"Name":    toName,
		"Receipt": receipt,
		"BaseURL": s.config.BaseURL,
	}); err != nil {
		return fmt.Errorf("failed to render enrollment email: %w", err)
	}

	return s.send(toEmail, "Your Course Store enrollment", body.String())
}

// buildMessage renders RFC 5322 headers in a stable order followed by the body.
func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, headers[k])
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}
