package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/acamposr/devjobs-be/internal/models"
)

// Notifier delivers transactional messages to a user. Kept behind an
// interface so the delivery channel (log, queue, SMTP relay) can change.
type Notifier interface {
	Send(ctx context.Context, user models.User, subject, resetURL, template string) error
}

// LogNotifier writes the notification to the application log. Useful in
// development and as a fallback when no mail pipeline is configured.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Send logs the notification instead of delivering it.
func (n *LogNotifier) Send(_ context.Context, user models.User, subject, resetURL, template string) error {
	log.Info().
		Str("to", user.Email).
		Str("subject", subject).
		Str("template", template).
		Str("url", resetURL).
		Msg("Notification")
	return nil
}

// emailChannel is the Redis channel the external mail worker consumes.
const emailChannel = "notifications:email"

// emailMessage is the payload published for the mail worker.
type emailMessage struct {
	To       string `json:"to"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	ResetURL string `json:"resetUrl"`
	Template string `json:"template"`
}

// RedisNotifier publishes notifications to a Redis channel for an external
// mail worker to render and send.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier creates a RedisNotifier.
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// Send publishes the notification payload. A publish failure surfaces as
// ErrNotifierUnavailable so the caller can abort its flow.
func (n *RedisNotifier) Send(ctx context.Context, user models.User, subject, resetURL, template string) error {
	payload, err := json.Marshal(emailMessage{
		To:       user.Email,
		Name:     user.Name,
		Subject:  subject,
		ResetURL: resetURL,
		Template: template,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := n.rdb.Publish(ctx, emailChannel, payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrNotifierUnavailable, err)
	}
	return nil
}
