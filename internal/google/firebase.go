package google

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"chatzilla-notification-server/internal/config"
	"chatzilla-notification-server/internal/models"
)

const (
	providerName = "fcm"
	// FCM multicast limit
	maxBatchSize = 500
)

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type FirebaseService struct {
	client           multicastSender
	androidChannelID string
}

type TokenResult struct {
	Token     string `json:"token"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type BatchResult struct {
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	Results      []TokenResult `json:"results"`
}

func NewFirebaseService(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseService, error) {
	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.ProjectID,
	}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return newFirebaseService(client, cfg.AndroidChannelID), nil
}

func newFirebaseService(client multicastSender, androidChannelID string) *FirebaseService {
	return &FirebaseService{client: client, androidChannelID: androidChannelID}
}

// Send treats subscription ids as FCM registration tokens.
func (f *FirebaseService) Send(ctx context.Context, n models.Notification) (any, error) {
	result := &BatchResult{Results: make([]TokenResult, 0, len(n.SubscriptionIDs))}

	for start := 0; start < len(n.SubscriptionIDs); start += maxBatchSize {
		end := min(start+maxBatchSize, len(n.SubscriptionIDs))
		tokens := n.SubscriptionIDs[start:end]

		response, err := f.client.SendEachForMulticast(ctx, f.buildMessage(tokens, n))
		if err != nil {
			return nil, &models.ProviderError{
				Provider: providerName,
				Details:  err.Error(),
				Err:      fmt.Errorf("error sending batch: %w", err),
			}
		}
		result.add(tokens, response)
	}

	if len(result.Results) > 0 && result.SuccessCount == 0 {
		return nil, &models.ProviderError{Provider: providerName, Details: result}
	}
	return result, nil
}

func (f *FirebaseService) buildMessage(tokens []string, n models.Notification) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: f.androidChannelID,
			},
		},
	}
}

func (r *BatchResult) add(tokens []string, response *messaging.BatchResponse) {
	for i, token := range tokens {
		tr := TokenResult{Token: token}
		switch {
		case response == nil || i >= len(response.Responses) || response.Responses[i] == nil:
			tr.Error = "no response for token"
		case response.Responses[i].Success:
			tr.MessageID = response.Responses[i].MessageID
		case response.Responses[i].Error != nil:
			tr.Error = response.Responses[i].Error.Error()
		default:
			tr.Error = "unknown error"
		}

		if tr.Error == "" {
			r.SuccessCount++
		} else {
			r.FailureCount++
		}
		r.Results = append(r.Results, tr)
	}
}
