package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"time"

	"charterly/internal/shared/config"
	"charterly/pkg/logger"
)

// EmailService delivers a rendered booking notification to one recipient.
type EmailService interface {
	SendNotification(ctx context.Context, notification *BookingNotification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

func SMTPConfigFrom(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

type smtpEmailService struct {
	config    *SMTPConfig
	templates map[Kind]*template.Template
	log       *logger.Logger
}

func NewSMTPEmailService(cfg *SMTPConfig, log *logger.Logger) (EmailService, error) {
	if err := validateSMTPConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	service := &smtpEmailService{
		config:    cfg,
		templates: make(map[Kind]*template.Template),
		log:       log,
	}
	service.loadTemplates()
	return service, nil
}

func validateSMTPConfig(cfg *SMTPConfig) error {
	if cfg == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if cfg.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (s *smtpEmailService) SendNotification(ctx context.Context, notification *BookingNotification) error {
	tmpl, exists := s.templates[notification.Kind]
	if !exists {
		return fmt.Errorf("no template for notification kind %s", notification.Kind)
	}

	var htmlBuf bytes.Buffer
	if err := tmpl.Execute(&htmlBuf, notification); err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	textBody := fmt.Sprintf("%s\n\nTour: %s\nDate: %s\nTotal: %.2f\nBooking reference: %s\n",
		notification.Subject(),
		notification.TourName,
		notification.Date,
		notification.TotalPrice,
		notification.BookingID.String(),
	)

	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject(), htmlBuf.String(), textBody)
}

func (s *smtpEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("Email sent", "to", to, "subject", subject)
	return nil
}

func (s *smtpEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{ServerName: s.config.Host}
	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil && s.config.Username != "" {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *smtpEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if textBody != "" {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		buf.WriteString(textBody + "\r\n")
	}
	if htmlBody != "" {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		buf.WriteString(htmlBody + "\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes()
}

func (s *smtpEmailService) loadTemplates() {
	s.templates[KindPending] = pendingTemplate
	s.templates[KindConfirmation] = confirmationTemplate
	s.templates[KindCancelled] = cancelledTemplate
}

var (
	pendingTemplate = template.Must(template.New("pending").Parse(`
<html><body>
<h2>We received your booking</h2>
<p>Hi {{.RecipientName}},</p>
<p>Your booking for <strong>{{.TourName}}</strong> on {{.Date}} is being reviewed.
We will confirm it shortly.</p>
{{if .GuestLine}}<p>{{.GuestLine}}</p>{{end}}
<p>Total: <strong>{{printf "%.2f" .TotalPrice}}</strong></p>
<p>Booking reference: {{.BookingID}}</p>
</body></html>`))

	confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<html><body>
<h2>Your booking is confirmed</h2>
<p>Hi {{.RecipientName}},</p>
<p>Your booking for <strong>{{.TourName}}</strong> on {{.Date}} is confirmed.
We look forward to welcoming you aboard.</p>
{{if .GuestLine}}<p>{{.GuestLine}}</p>{{end}}
<p>Total: <strong>{{printf "%.2f" .TotalPrice}}</strong></p>
<p>Booking reference: {{.BookingID}}</p>
</body></html>`))

	cancelledTemplate = template.Must(template.New("cancelled").Parse(`
<html><body>
<h2>Your booking has been cancelled</h2>
<p>Hi {{.RecipientName}},</p>
<p>Your booking for <strong>{{.TourName}}</strong> on {{.Date}} has been cancelled.</p>
<p>If you did not request this, please contact us.</p>
<p>Booking reference: {{.BookingID}}</p>
</body></html>`))
)
