// Package logmail implements the Mailer port by logging instead of sending.
// It stands in for the hosted mail provider outside production.
package logmail

import (
	"context"
	"log/slog"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// Mailer logs outbound mail at info level.
type Mailer struct {
	logger *slog.Logger
}

// NewMailer creates a logging mailer. A nil logger uses slog.Default.
func NewMailer(logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{logger: logger.With("component", "mailer")}
}

// Send logs the message and always succeeds.
func (m *Mailer) Send(ctx context.Context, msg ports.MailMessage) error {
	m.logger.InfoContext(ctx, "outbound mail",
		"to", msg.To,
		"subject", msg.Subject,
		"body_len", len(msg.Body),
	)
	return nil
}

var _ ports.Mailer = (*Mailer)(nil)
