package onesignal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"chatzilla-notification-server/internal/config"
	"chatzilla-notification-server/internal/models"
)

const providerName = "onesignal"

type LocalizedText struct {
	En string `json:"en"`
}

type Payload struct {
	AppID                  string        `json:"app_id"`
	IncludeSubscriptionIDs []string      `json:"include_subscription_ids"`
	Headings               LocalizedText `json:"headings"`
	Contents               LocalizedText `json:"contents"`
	AndroidChannelID       string        `json:"android_channel_id"`
}

type Client struct {
	cfg    config.OneSignalConfig
	poster Poster
}

func NewClient(cfg config.OneSignalConfig, poster Poster) *Client {
	return &Client{cfg: cfg, poster: poster}
}

func (c *Client) BuildPayload(n models.Notification) Payload {
	return Payload{
		AppID:                  c.cfg.AppID,
		IncludeSubscriptionIDs: n.SubscriptionIDs,
		Headings:               LocalizedText{En: n.Title},
		Contents:               LocalizedText{En: n.Body},
		AndroidChannelID:       c.cfg.AndroidChannelID,
	}
}

// Send posts the notification once and returns the decoded OneSignal response.
func (c *Client) Send(ctx context.Context, n models.Notification) (any, error) {
	body, err := c.poster.PostJSON(ctx, c.cfg.APIURL, c.BuildPayload(n), c.authorization())
	if err != nil {
		return nil, toProviderError(err)
	}

	if len(body) == 0 {
		return map[string]any{}, nil
	}
	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		return string(body), nil
	}
	return result, nil
}

func (c *Client) authorization() string {
	return strings.TrimSpace(c.cfg.AuthScheme + " " + c.cfg.RestAPIKey)
}

func toProviderError(err error) *models.ProviderError {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return &models.ProviderError{Provider: providerName, Details: err.Error(), Err: err}
	}

	var details any
	switch {
	case len(statusErr.Body) == 0:
		details = http.StatusText(statusErr.StatusCode)
	case json.Unmarshal(statusErr.Body, &details) != nil:
		details = string(statusErr.Body)
	}

	return &models.ProviderError{
		Provider:   providerName,
		StatusCode: statusErr.StatusCode,
		Details:    details,
		Err:        err,
	}
}
