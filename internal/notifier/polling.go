package notifier

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"
)

const (
	pollTimeout  = 30 // seconds, server side long-poll
	pollErrPause = 5 * time.Second
)

// CommandHandler is called when a user command is received. An empty reply sends nothing.
type CommandHandler func(ctx context.Context, command string) string

type update struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls getUpdates and answers slash commands from the
// configured chat. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		var updates []update
		err := t.call(ctx, "getUpdates", map[string]any{
			"offset":          offset,
			"timeout":         pollTimeout,
			"allowed_updates": []string{"message"},
		}, &updates)
		if ctx.Err() != nil {
			log.Println("[INFO] Telegram polling stopped")
			return
		}
		if err != nil {
			log.Printf("[WARN] getUpdates failed: %v", err)
			if !sleepCtx(ctx, pollErrPause) {
				return
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if cmd, ok := t.command(u); ok {
				log.Printf("[INFO] received command: %s", cmd)
				if reply := handler(ctx, cmd); reply != "" {
					if err := t.Send(ctx, reply); err != nil {
						log.Printf("[ERROR] send reply: %v", err)
					}
				}
			}
		}
	}
}

// command extracts a slash command sent from the configured chat.
func (t *TelegramNotifier) command(u update) (string, bool) {
	if u.Message == nil {
		return "", false
	}
	if t.ChatID != "" && strconv.FormatInt(u.Message.Chat.ID, 10) != t.ChatID {
		log.Printf("[WARN] ignoring message from chat %d", u.Message.Chat.ID)
		return "", false
	}
	text := strings.TrimSpace(u.Message.Text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	return text, true
}
