package notification

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

// LogNotifier stands in for SMTP in development: it renders each message
// and writes the subject to the log.
type LogNotifier struct {
	log  *slog.Logger
	shop string
}

func NewLogNotifier(log *slog.Logger, shop string) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log, shop: shop}
}

func (n *LogNotifier) NotifyReceived(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result {
	return n.emit(ctx, KindReceived, ap, barber)
}

func (n *LogNotifier) NotifyConfirmed(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result {
	return n.emit(ctx, KindConfirmed, ap, barber)
}

func (n *LogNotifier) NotifyCancelled(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result {
	return n.emit(ctx, KindCancelled, ap, barber)
}

func (n *LogNotifier) emit(ctx context.Context, kind Kind, ap *models.Appointment, barber *models.Barber) Result {
	if barber == nil {
		return Skipped(kind, ap, ErrBarberMissing)
	}
	msg, err := BuildMessage(kind, n.shop, ap, barber)
	if err != nil {
		return Skipped(kind, ap, err)
	}
	n.log.InfoContext(ctx, "email (not sent)", "kind", kind, "to", msg.To, "subject", msg.Subject)
	return Result{Kind: kind, Recipient: msg.To}
}

var _ Notifier = (*LogNotifier)(nil)
