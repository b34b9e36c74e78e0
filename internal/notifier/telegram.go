package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"BistSentinel/internal/model"
)

const (
	telegramBaseURL = "https://api.telegram.org"
	// maxMessageLen is the Bot API limit for one sendMessage text.
	maxMessageLen = 4096
)

// TelegramNotifier talks to the Telegram Bot API for one chat.
type TelegramNotifier struct {
	BaseURL  string
	BotToken string
	ChatID   string
	Client   *http.Client
}

// APIError is a failed Bot API call. RetryAfter is set on flood control (429).
type APIError struct {
	Method      string
	Status      int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: status %d: %s", e.Method, e.Status, e.Description)
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BaseURL:  telegramBaseURL,
		BotToken: botToken,
		ChatID:   chatID,
		Client:   &http.Client{Timeout: 40 * time.Second, Transport: transport},
	}
}

// call posts payload to a Bot API method and decodes the result field into out.
func (t *TelegramNotifier) call(ctx context.Context, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.BotToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var env struct {
		OK          bool            `json:"ok"`
		Result      json.RawMessage `json:"result"`
		Description string          `json:"description"`
		Parameters  struct {
			RetryAfter int `json:"retry_after"`
		} `json:"parameters"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode != http.StatusOK || !env.OK {
		apiErr := &APIError{Method: method, Status: resp.StatusCode, Description: env.Description}
		if decodeErr != nil && apiErr.Description == "" {
			apiErr.Description = decodeErr.Error()
		}
		apiErr.RetryAfter = time.Duration(env.Parameters.RetryAfter) * time.Second
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s response: %w", method, decodeErr)
	}
	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

// Send posts an HTML message to the configured chat, split into chunks when
// it exceeds the Bot API length limit.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		payload := map[string]any{
			"chat_id":                  t.ChatID,
			"text":                     chunk,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		}
		if err := t.call(ctx, "sendMessage", payload, nil); err != nil {
			return err
		}
	}
	return nil
}

// SendWithRetry retries Send with exponential backoff, honouring flood-control waits.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = t.Send(ctx, text)
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		wait := time.Duration(1<<uint(attempt)) * time.Second
		if apiErr, ok := lastErr.(*APIError); ok && apiErr.RetryAfter > 0 {
			wait = apiErr.RetryAfter
		}
		log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", attempt+1, maxRetries+1, lastErr, wait)
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

func (t *TelegramNotifier) Name() string { return "telegram" }

// SendAlert delivers one alert event as a chat message.
func (t *TelegramNotifier) SendAlert(ctx context.Context, ev model.AlertEvent) error {
	return t.SendWithRetry(ctx, FormatAlert(ev), 1)
}

// splitMessage cuts text into pieces of at most limit bytes, preferring line breaks.
// A <pre> block cut in two is closed and reopened so each piece stays valid HTML.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var (
		chunks []string
		cur    strings.Builder
		inPre  bool
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		s := cur.String()
		if inPre {
			s += "</pre>"
		}
		chunks = append(chunks, s)
		cur.Reset()
		if inPre {
			cur.WriteString("<pre>")
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit-len("<pre></pre>") {
			flush()
			n := limit - len("<pre></pre>")
			cur.WriteString(line[:n])
			line = line[n:]
		}
		if cur.Len()+len(line)+len("</pre>") > limit {
			flush()
		}
		cur.WriteString(line)
		if strings.Contains(line, "<pre>") {
			inPre = true
		}
		if strings.Contains(line, "</pre>") {
			inPre = false
		}
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
