package notifier

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"BistSentinel/internal/model"
)

// multicaster is the subset of *messaging.Client used here.
type multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMNotifier pushes alert events to registered devices via Firebase Cloud Messaging.
type FCMNotifier struct {
	client multicaster
	tokens []string
}

// NewFCMNotifier initializes the Firebase app from a service-account file.
func NewFCMNotifier(ctx context.Context, credentialsFile string, tokens []string) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}
	log.Printf("[INFO] FCM initialized for %d device(s)", len(tokens))
	return &FCMNotifier{client: client, tokens: tokens}, nil
}

func (f *FCMNotifier) Name() string { return "fcm" }

// SendAlert multicasts the event; the sound name is forwarded for the client to play.
func (f *FCMNotifier) SendAlert(ctx context.Context, ev model.AlertEvent) error {
	if len(f.tokens) == 0 {
		return nil
	}
	msg := &messaging.MulticastMessage{
		Tokens: f.tokens,
		Notification: &messaging.Notification{
			Title: fmt.Sprintf("%s %s", ev.Ticker, ev.Kind),
			Body:  ev.Message,
		},
		Data: map[string]string{
			"ticker":   ev.Ticker,
			"kind":     string(ev.Kind),
			"bar_time": ev.BarTime.Format("2006-01-02T15:04:05Z07:00"),
			"sound":    string(ev.Sound),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bist_alerts",
				Priority:  messaging.PriorityHigh,
			},
		},
	}
	resp, err := f.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return fmt.Errorf("fcm multicast: %w", err)
	}
	if resp.FailureCount > 0 {
		log.Printf("[WARN] FCM delivered %d, failed %d", resp.SuccessCount, resp.FailureCount)
	}
	return nil
}
