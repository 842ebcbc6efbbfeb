package mail

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Mailer sends transactional mail. All sends are fire-and-forget: failures
// are logged and never surfaced to the request that triggered them.
type Mailer struct {
	addr   string
	from   string
	logger *zap.Logger
}

// NewMailer creates a mailer for the given SMTP endpoint.
func NewMailer(host string, port int, from string, logger *zap.Logger) *Mailer {
	return &Mailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		from:   from,
		logger: logger,
	}
}

// SendRegistration sends the post-signup welcome mail.
func (m *Mailer) SendRegistration(email, username string) {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Registration Successful\r\n\r\n"+
		"Hello %s,\r\n\r\nThank you for registering on MyKubera platform.\r\n",
		m.from, email, username)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{email}, []byte(body)); err != nil {
		m.logger.Warn("Failed to send registration email",
			zap.String("email", email),
			zap.Error(err),
		)
		return
	}
	m.logger.Info("Registration email sent", zap.String("email", email))
}
