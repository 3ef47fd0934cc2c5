package email

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/domain/models"
)

// sendTimeout bounds the external mail transport call.
const sendTimeout = 10 * time.Second

// Sender is the injected mail-transport capability.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// Dispatcher formats and sends best-effort email for health alerts. Send
// failures are logged and reported as false; they never propagate into the
// orchestrator's control flow.
type Dispatcher struct {
	sender Sender
	logger *zap.Logger
}

// NewDispatcher wires a new email dispatcher.
func NewDispatcher(sender Sender, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sender: sender, logger: logger}
}

// MaybeEmail sends a formatted email for a health alert when the owner's
// preferences allow it and a recipient address is known. Returns whether an
// email went out.
func (d *Dispatcher) MaybeEmail(ctx context.Context, owner models.Owner, alert models.Alert, pref *models.NotificationPreference) bool {
	if alert.Type != models.AlertHealth {
		return false
	}
	if pref == nil || !pref.EmailEnabled {
		return false
	}
	if owner.Email == "" {
		d.logger.Warn("health alert email skipped, owner has no address",
			zap.String("owner_id", owner.ID))
		return false
	}

	subject, textBody, htmlBody := formatHealthEmail(owner, alert)

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.sender.SendEmail(sendCtx, owner.Email, subject, textBody, htmlBody); err != nil {
		d.logger.Warn("health alert email failed",
			zap.String("owner_id", owner.ID),
			zap.String("to", owner.Email),
			zap.Error(err))
		return false
	}

	d.logger.Info("health alert email sent",
		zap.String("owner_id", owner.ID), zap.String("to", owner.Email))
	return true
}

func formatHealthEmail(owner models.Owner, alert models.Alert) (subject, textBody, htmlBody string) {
	subject = fmt.Sprintf("[Aviary] %s", alert.Title)

	greeting := owner.Name
	if greeting == "" {
		greeting = "there"
	}

	textBody = fmt.Sprintf("Hi %s,\n\n%s\n\nOpen the app for details.\n", greeting, alert.Message)
	htmlBody = fmt.Sprintf(
		"<p>Hi %s,</p><p><strong>%s</strong></p><p>%s</p><p>Open the app for details.</p>",
		greeting, alert.Title, alert.Message)
	return subject, textBody, htmlBody
}
