package notify

import (
	"fmt"

	"github.com/finbase/eventhub/internal/logger"
)

// Mailer is a mock email sender. It only logs what would have been sent;
// there is no SMTP integration behind it.
type Mailer struct {
	from string
	log  *logger.Logger
}

func NewMailer(from string, log *logger.Logger) *Mailer {
	return &Mailer{from: from, log: log}
}

func (m *Mailer) Send(subject, message, to string) {
	m.log.Info("MAILER", fmt.Sprintf("to=%s from=%s subject=%q body=%q", to, m.from, subject, message))
}
