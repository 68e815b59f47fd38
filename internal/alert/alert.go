// Package alert emails low-stock notifications and keeps a daily event log in
// redis so a summary can be sent at end of day.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stockroom/internal/models"
)

const DailyLogKey = "lowstock:log:daily"

type Config struct {
	From         string // sender email
	To           string // receiver email
	SMTPHost     string // smtp.example.com
	SMTPPort     string // e.g., 587
	SMTPUser     string
	SMTPPassword string
	AuthDisabled bool
}

// Notifier sends the alerts. A nil redis client disables the daily log; an
// empty SMTP host disables email, leaving only the server log line.
type Notifier struct {
	rdb *redis.Client
	ctx context.Context
	cfg Config
}

func NewNotifier(rdb *redis.Client, cfg Config) *Notifier {
	return &Notifier{
		rdb: rdb,
		ctx: context.Background(),
		cfg: cfg,
	}
}

type logEntry struct {
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	Time        time.Time `json:"time"`
}

// LowStock records the event and emails an alert. The email is sent
// asynchronously; a failed send is logged, never propagated to the request
// that triggered it.
func (n *Notifier) LowStock(p models.Product) {
	n.logEvent(p)

	subject := fmt.Sprintf("⚠️ LOW STOCK: %s (%s)", p.Name, p.SKU)
	body := fmt.Sprintf("Product: %s\nSKU: %s\nQuantity: %d\nMin quantity: %d\nLocation: %s\nTime: %s",
		p.Name, p.SKU, p.Quantity, p.MinQuantity, p.Location, time.Now().Format(time.RFC3339))

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", n.cfg.From, n.cfg.To, subject, body)
	n.send(subject, []byte(msg))
}

func (n *Notifier) logEvent(p models.Product) {
	if n.rdb == nil {
		return
	}
	entry := logEntry{
		SKU:         p.SKU,
		Name:        p.Name,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		Time:        time.Now(),
	}
	data, _ := json.Marshal(entry)
	_ = n.rdb.RPush(n.ctx, DailyLogKey, data).Err()
}

func (n *Notifier) send(subject string, msg []byte) {
	if n.cfg.SMTPHost == "" {
		return
	}

	addr := fmt.Sprintf("%s:%s", n.cfg.SMTPHost, n.cfg.SMTPPort)
	auth := smtp.PlainAuth("", n.cfg.SMTPUser, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	if n.cfg.AuthDisabled {
		auth = nil
	}

	go func() {
		if err := smtp.SendMail(addr, auth, n.cfg.From, []string{n.cfg.To}, msg); err != nil {
			log.Printf("Failed to send alert email (%s): %v", subject, err)
		}
	}()
}

// StartDailySummary sends the accumulated low-stock events at the end of each
// day. Meant to run in its own goroutine.
func (n *Notifier) StartDailySummary(interval time.Duration) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(interval)
		}
		time.Sleep(time.Until(next))
		n.SendDailySummary()
	}
}

func (n *Notifier) SendDailySummary() {
	if n.rdb == nil {
		return
	}

	entries, err := n.rdb.LRange(n.ctx, DailyLogKey, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return
	}
	_ = n.rdb.Del(n.ctx, DailyLogKey).Err() // clear after reading

	var logs []logEntry
	skuCounts := make(map[string]int)
	for _, item := range entries {
		var entry logEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			logs = append(logs, entry)
			skuCounts[entry.SKU]++
		}
	}

	var sb strings.Builder
	sb.WriteString("<h2>📊 Daily Low-Stock Summary</h2>")
	sb.WriteString(fmt.Sprintf("<p>Total events: <strong>%d</strong></p>", len(logs)))

	sb.WriteString("<h3>📦 By SKU</h3><ul>")
	for sku, count := range skuCounts {
		sb.WriteString(fmt.Sprintf("<li><code>%s</code>: %d</li>", sku, count))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>📋 Full Log</h3><ul>")
	for _, entry := range logs {
		sb.WriteString(fmt.Sprintf("<li><b>%s</b> (%s) qty %d / min %d at %s</li>",
			entry.Name, entry.SKU, entry.Quantity, entry.MinQuantity, entry.Time.Format(time.RFC822)))
	}
	sb.WriteString("</ul>")

	subject := "📊 Daily Low-Stock Report"
	msg := strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + n.cfg.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		sb.String(),
	}, "\r\n")

	n.send(subject, []byte(msg))
}
