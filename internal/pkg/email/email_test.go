package email

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

func newCapturingService(cfg SMTPConfig) (*EmailServiceImpl, *[]sentMail) {
	svc := NewEmailService(cfg, zerolog.Nop())
	var sent []sentMail
	svc.send = func(to, subject, body string) error {
		sent = append(sent, sentMail{to, subject, body})
		return nil
	}
	return svc, &sent
}

func TestSendEnrollmentConfirmation_Unconfigured(t *testing.T) {
	svc, sent := newCapturingService(SMTPConfig{})

	err := svc.SendEnrollmentConfirmation("s@example.com", "Sam", Receipt{PaymentReference: "PAY_1_abc"})
	require.NoError(t, err)
	assert.Empty(t, *sent)
}

func TestSendEnrollmentConfirmation_RendersReceipt(t *testing.T) {
	svc, sent := newCapturingService(SMTPConfig{
		Host: "smtp.example.com", Username: "u", Password: "p", BaseURL: "https://shop.example.com",
	})

	err := svc.SendEnrollmentConfirmation("s@example.com", "<Sam>", Receipt{
		PaymentReference: "PAY_1700000000000_deadbeef",
		Courses:          []string{"Go Basics", "SQL Deep Dive"},
		Total:            "1998.00",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "s@example.com", mail.to)
	assert.Contains(t, mail.body, "<li>Go Basics</li><li>SQL Deep Dive</li>")
	assert.Contains(t, mail.body, "PAY_1700000000000_deadbeef")
	assert.Contains(t, mail.body, "&lt;Sam&gt;")
	assert.Contains(t, mail.body, "https://shop.example.com/dashboard")
}

func TestSendWelcomeEmail_PropagatesSendError(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "h", Username: "u", Password: "p"}, zerolog.Nop())
	svc.send = func(string, string, string) error { return errors.New("smtp down") }

	assert.EqualError(t, svc.SendWelcomeEmail("a@b.co", "A"), "smtp down")
}

func TestBuildMessage_HeadersSorted(t *testing.T) {
	svc := NewEmailService(SMTPConfig{FromName: "Course Store", FromEmail: "no-reply@example.com"}, zerolog.Nop())

	msg := string(svc.buildMessage("s@example.com", "Hi", "<p>x</p>"))
	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)
	assert.Equal(t, "<p>x</p>", body)
	assert.True(t, strings.HasPrefix(head, "Content-Type: text/html"))
	assert.Contains(t, head, "From: Course Store <no-reply@example.com>")
}
