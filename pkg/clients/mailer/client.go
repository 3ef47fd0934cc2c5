package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mbodji/aviary/internal/config"
)

// Client exposes the mail transport operation used by the application.
type Client interface {
	SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// APIClient is a resty-backed client for an HTTP mail transport API.
type APIClient struct {
	httpClient *resty.Client
	sender     string
}

// NewClient builds a mail API client from the provided configuration values.
func NewClient(cfg config.MailerConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		sender:     cfg.Sender,
	}
}

type sendResponse struct {
	ID string `json:"id"`
}

// apiError represents the mail API error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendEmail posts one message to the transport API.
func (c *APIClient) SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) error {
	payload := map[string]any{
		"from":    c.sender,
		"to":      to,
		"subject": subject,
		"text":    textBody,
	}
	if htmlBody != "" {
		payload["html"] = htmlBody
	}

	result := new(sendResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Error.Message
			if apiErr.Error.Code != 0 {
				code = apiErr.Error.Code
			}
		}
		return fmt.Errorf("mail api error: code=%d, message=%s", code, message)
	}

	return nil
}
