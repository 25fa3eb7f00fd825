package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// multicaster is the slice of messaging.Client the sender uses. Narrow so
// tests can fake the transport.
type multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMSender sends push notifications directly to Firebase Cloud Messaging.
// Credentials are the service-account triple the console is deployed with;
// a JSON key blob is assembled from them rather than read from disk.
type FCMSender struct {
	client multicaster
	logger *slog.Logger
}

// NewFCMSender initializes the Firebase app and messaging client from
// service-account fields. Private keys arriving through env vars carry
// literal "\n" sequences; they are unescaped here.
func NewFCMSender(ctx context.Context, projectID, clientEmail, privateKey string, logger *slog.Logger) (*FCMSender, error) {
	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   projectID,
		"client_email": clientEmail,
		"private_key":  strings.ReplaceAll(privateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, fmt.Errorf("fcm: marshal credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("fcm: init app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm: init messaging client: %w", err)
	}

	return &FCMSender{client: client, logger: logger}, nil
}

// SendMulticast sends one multicast message to all tokens and returns the
// aggregate counts from the batch response. Per-token responses are not
// inspected further.
func (s *FCMSender) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (success, failed int, err error) {
	resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("fcm: multicast: %w", err)
	}
	s.logger.Debug("fcm multicast sent",
		"tokens", len(tokens),
		"success", resp.SuccessCount,
		"failure", resp.FailureCount)
	return resp.SuccessCount, resp.FailureCount, nil
}
