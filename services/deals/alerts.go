package deals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	watchRepo "voyago/database/repository/watch"
	"voyago/events"
	"voyago/models"
)

// AlertService consumes deal events and pushes alerts to connected clients
// when a deal satisfies at least one registered watch. Alerts go to every
// live session, not only the watch owner's; a deal worth knowing about is
// worth showing to the room.
type AlertService struct {
	Watches     watchRepo.WatchRepository
	Broadcaster Broadcaster
	Logger      *zap.Logger
}

// NewAlertService builds the alert stage over the given watch store and
// broadcast sink.
func NewAlertService(watches watchRepo.WatchRepository, b Broadcaster, logger *zap.Logger) *AlertService {
	return &AlertService{Watches: watches, Broadcaster: b, Logger: logger}
}

// Run consumes deal events until ctx is cancelled or the stream errors.
func (s *AlertService) Run(ctx context.Context, consumer events.Consumer) {
	s.Logger.Info("alert service started")
	for {
		raw, err := consumer.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.Logger.Info("alert service stopped")
			} else {
				s.Logger.Error("alert service lost its stream", zap.Error(err))
			}
			return
		}

		var deal models.DealEvent
		if err := json.Unmarshal(raw, &deal); err != nil {
			s.Logger.Warn("dropping malformed deal event", zap.Error(err))
			continue
		}
		s.Handle(deal)
	}
}

// Handle matches one deal against the registered watches and broadcasts an
// alert when any watch fires.
func (s *AlertService) Handle(deal models.DealEvent) {
	matches, err := s.Watches.FindMatching(deal.Destination, deal.Price)
	if err != nil {
		s.Logger.Warn("watch lookup failed",
			zap.String("destination", deal.Destination), zap.Error(err))
		return
	}
	if len(matches) == 0 {
		return
	}

	s.Broadcaster.Broadcast(FormatAlert(deal))
	s.Logger.Info("deal alert broadcast",
		zap.String("destination", deal.Destination),
		zap.Float64("price", deal.Price),
		zap.Int("watches", len(matches)))
}

// FormatAlert renders one deal as the alert text shown to clients.
func FormatAlert(deal models.DealEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔥 DEAL ALERT: %s for $%.2f (was $%.2f)", deal.Destination, deal.Price, deal.OriginalPrice)
	if len(deal.Tags) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(deal.Tags, ", "))
	}
	if deal.Details != "" {
		fmt.Fprintf(&b, " - %s", deal.Details)
	}
	return b.String()
}
