package notifier

import (
	"context"
	"log"

	"BistSentinel/internal/model"
)

// AlertSink delivers fired alert events to one channel.
type AlertSink interface {
	SendAlert(ctx context.Context, ev model.AlertEvent) error
	Name() string
}

// Dispatch sends every event to every sink. Failures are logged and skipped.
func Dispatch(ctx context.Context, sinks []AlertSink, events []model.AlertEvent) {
	for _, ev := range events {
		for _, s := range sinks {
			if err := s.SendAlert(ctx, ev); err != nil {
				log.Printf("[ERROR] %s alert %s/%s: %v", s.Name(), ev.Ticker, ev.Kind, err)
			}
		}
	}
}
