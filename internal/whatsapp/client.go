package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/netbill/netbill/internal/config"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
)

// Client talks to the WhatsApp gateway sidecar over HTTP. Every request has
// a bounded timeout; a slow gateway delays a sweep but cannot stall it
// forever.
type Client struct {
	baseURL        string
	internalSecret string
	httpClient     *http.Client
	logger         *logger.Logger
}

// NewClient builds a gateway client from configuration.
func NewClient(cfg *config.Configuration, log *logger.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.WhatsApp.RetryMax
	retryClient.HTTPClient.Timeout = cfg.WhatsApp.Timeout
	retryClient.Logger = log.GetRetryableHTTPLogger()

	return &Client{
		baseURL:        strings.TrimRight(cfg.WhatsApp.BaseURL, "/"),
		internalSecret: cfg.WhatsApp.InternalSecret,
		httpClient:     retryClient.StandardClient(),
		logger:         log,
	}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type sendResponse struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// SendMessage delivers text to a phone number.
func (c *Client) SendMessage(ctx context.Context, phone, text string) (*SendResult, error) {
	if phone == "" {
		return nil, ierr.NewError("recipient phone is required").
			Mark(ierr.ErrValidation)
	}

	var resp sendResponse
	status, err := c.do(ctx, http.MethodPost, "/send", sendRequest{Phone: phone, Message: text}, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		msg := resp.Error
		if msg == "" {
			msg = fmt.Sprintf("gateway returned status %d", status)
		}
		return nil, ierr.NewError(msg).
			WithHint("WhatsApp gateway rejected the message").
			WithReportableDetails(map[string]interface{}{
				"phone":  phone,
				"status": status,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Debugw("gateway accepted message", "phone", phone, "message_id", resp.ID)
	return &SendResult{MessageID: resp.ID, Accepted: true}, nil
}

// CheckRecipient reports whether a phone number is registered on WhatsApp.
func (c *Client) CheckRecipient(ctx context.Context, phone string) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	status, err := c.do(ctx, http.MethodGet, "/check/"+url.PathEscape(phone), nil, &resp)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, ierr.NewErrorf("gateway recipient check returned status %d", status).
			Mark(ierr.ErrHTTPClient)
	}
	return resp.Exists, nil
}

// MessageStatus polls the delivery status of a sent message.
func (c *Client) MessageStatus(ctx context.Context, messageID string) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	status, err := c.do(ctx, http.MethodGet, "/message/"+url.PathEscape(messageID)+"/status", nil, &resp)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", ierr.NewErrorf("gateway status check returned status %d", status).
			WithReportableDetails(map[string]interface{}{"message_id": messageID}).
			Mark(ierr.ErrHTTPClient)
	}
	if resp.Status == "" {
		return MessageStatusUnknown, nil
	}
	return resp.Status, nil
}

// Status reports the gateway's session state. Unreachable gateways report
// DISCONNECTED instead of an error so health checks stay cheap.
func (c *Client) Status(ctx context.Context) (*GatewayStatus, error) {
	var resp GatewayStatus
	status, err := c.do(ctx, http.MethodGet, "/status", nil, &resp)
	if err != nil {
		return &GatewayStatus{Status: "DISCONNECTED", Error: "service unreachable"}, nil
	}
	if status != http.StatusOK {
		return &GatewayStatus{Status: "DISCONNECTED", Error: fmt.Sprintf("status %d", status)}, nil
	}
	return &resp, nil
}

// do performs one request and decodes the JSON response body into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to encode gateway request").
				Mark(ierr.ErrInternal)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to build gateway request").
			Mark(ierr.ErrInternal)
	}
	req.Header.Set("Authorization", "Bearer "+c.internalSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("WhatsApp gateway unreachable").
			WithReportableDetails(map[string]interface{}{"path": path}).
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return resp.StatusCode, ierr.WithError(err).
				WithHint("Failed to decode gateway response").
				WithReportableDetails(map[string]interface{}{"path": path}).
				Mark(ierr.ErrHTTPClient)
		}
	}
	return resp.StatusCode, nil
}
