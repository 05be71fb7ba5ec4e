// services/handoff.go
package services

import (
	"fmt"
	"net/url"
	"strings"

	"broker-intake-system/models"
)

// BuildHandoffLink builds the wa.me deep link shown on the success screen:
// the manual path for forwarding an accepted submission to a human
// operator. The message mirrors the notification payload minus contact
// details the operator already sees from the sender.
func BuildHandoffLink(cfg DisplayConfig, broker *models.Broker, record *models.SubmissionRecord) string {
	var b strings.Builder
	b.WriteString(cfg.handoffIntro())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "🆔 Transaction ID: %s\n", record.TransactionID)
	fmt.Fprintf(&b, "📌 Type: %s\n", strings.ToUpper(record.Type))
	fmt.Fprintf(&b, "💰 Amount: %s USD\n", record.Draft.Amount)
	fmt.Fprintf(&b, "🏢 Broker: %s\n", broker.Name)
	fmt.Fprintf(&b, "💼 Account: %s\n\n", record.Draft.TradingAccount)
	b.WriteString(cfg.handoffOutro())

	return "https://wa.me/" + cfg.WhatsAppNumber + "?text=" + url.QueryEscape(b.String())
}
