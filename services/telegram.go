// services/telegram.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"broker-intake-system/metrics"
	"broker-intake-system/models"
	"broker-intake-system/utils"
)

// TelegramNotifier delivers accepted submissions to the operator chat.
// Strictly best-effort: one attempt, no retry, and a failure is logged
// without ever touching workflow state. When token or chat id is missing
// the notifier is a silent no-op — not an error.
type TelegramNotifier struct {
	Token      string
	ChatID     string
	APIBase    string // overridable for tests; defaults to the public API
	HTTPClient *http.Client
	Display    DisplayConfig
}

func NewTelegramNotifier(token, chatID string, display DisplayConfig) *TelegramNotifier {
	return &TelegramNotifier{
		Token:      token,
		ChatID:     chatID,
		APIBase:    "https://api.telegram.org",
		HTTPClient: utils.HTTPClient,
		Display:    display,
	}
}

func (n *TelegramNotifier) Enabled() bool {
	return n.Token != "" && n.ChatID != ""
}

// BuildMessage formats the structured Markdown payload for the operator
// chat. Notes fall back to a literal "None" when absent.
func (n *TelegramNotifier) BuildMessage(broker *models.Broker, record *models.SubmissionRecord) string {
	notes := record.Draft.Notes
	if notes == "" {
		notes = "None"
	}

	var b strings.Builder
	b.WriteString("🆕 *New Request Submitted*\n")
	b.WriteString("-----------------------------\n")
	fmt.Fprintf(&b, "🆔 *ID:* `%s`\n", record.TransactionID)
	fmt.Fprintf(&b, "📌 *Type:* %s\n", strings.ToUpper(record.Type))
	fmt.Fprintf(&b, "🏢 *Broker:* %s\n", broker.Name)
	fmt.Fprintf(&b, "💰 *Amount:* $%s\n", record.Draft.Amount)
	fmt.Fprintf(&b, "👤 *Name:* %s\n", record.Draft.FullName)
	fmt.Fprintf(&b, "📱 *Phone:* %s %s\n", n.Display.CountryCode, record.Draft.PhoneNumber)
	fmt.Fprintf(&b, "💼 *Account:* `%s`\n", record.Draft.TradingAccount)
	fmt.Fprintf(&b, "📝 *Notes:* %s\n", notes)
	b.WriteString("-----------------------------")
	return b.String()
}

// Send issues the sendMessage call synchronously. Callers that must not
// block (the intake workflow) go through Dispatch instead.
func (n *TelegramNotifier) Send(ctx context.Context, broker *models.Broker, record *models.SubmissionRecord) error {
	if !n.Enabled() {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    n.ChatID,
		"text":       n.BuildMessage(broker, record),
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.APIBase, n.Token)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Dispatch fires the notification on a detached goroutine. The result is
// only logged; the workflow never joins it — a slow or failing call must
// not stall the visible flow.
func (n *TelegramNotifier) Dispatch(broker *models.Broker, record *models.SubmissionRecord) {
	if !n.Enabled() {
		metrics.NotificationSkipped.Inc()
		return
	}
	go func() {
		if err := n.Send(context.Background(), broker, record); err != nil {
			log.Printf("⚠️ [TELEGRAM] Notification for %s failed: %v", record.TransactionID, err)
			metrics.NotificationFailed.Inc()
			return
		}
		metrics.NotificationSent.Inc()
	}()
}
