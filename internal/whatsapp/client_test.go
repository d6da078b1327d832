package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/netbill/netbill/internal/config"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.GetDefaultConfig()
	cfg.WhatsApp.BaseURL = server.URL
	cfg.WhatsApp.InternalSecret = "secret-123"
	cfg.WhatsApp.Timeout = 2 * time.Second
	cfg.WhatsApp.RetryMax = 0

	return NewClient(cfg, logger.NewNopLogger()), server
}

func TestSendMessage(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/send", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Phone   string `json:"phone"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "6281234567890", req.Phone)
		assert.Equal(t, "halo", req.Message)

		json.NewEncoder(w).Encode(map[string]string{"id": "wa-42"})
	}))

	result, err := client.SendMessage(context.Background(), "6281234567890", "halo")
	require.NoError(t, err)
	assert.Equal(t, "wa-42", result.MessageID)
	assert.True(t, result.Accepted)
	assert.Equal(t, "Bearer secret-123", gotAuth)
}

func TestSendMessageRejection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "number not on whatsapp"})
	}))

	_, err := client.SendMessage(context.Background(), "6281234567890", "halo")
	require.Error(t, err)
	assert.True(t, ierr.IsHTTPClient(err))
}

func TestSendMessageRequiresPhone(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway must not be called")
	}))

	_, err := client.SendMessage(context.Background(), "", "halo")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestCheckRecipient(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/check/6281234567890", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]bool{"exists": true})
	}))

	exists, err := client.CheckRecipient(context.Background(), "6281234567890")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMessageStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/message/wa-42/status", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "DELIVERED"})
	}))

	status, err := client.MessageStatus(context.Background(), "wa-42")
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", status)
}

func TestMessageStatusEmptyMeansUnknown(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	status, err := client.MessageStatus(context.Background(), "wa-42")
	require.NoError(t, err)
	assert.Equal(t, MessageStatusUnknown, status)
}

func TestStatusUnreachableGateway(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DISCONNECTED", status.Status)
	assert.NotEmpty(t, status.Error)
}

func TestParseMessageStatus(t *testing.T) {
	for raw, expected := range map[string]string{
		"SENT":      "SENT",
		"DELIVERED": "DELIVERED",
		"READ":      "READ",
		"FAILED":    "FAILED",
	} {
		status, ok := ParseMessageStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, expected, string(status))
	}

	_, ok := ParseMessageStatus("PENDING")
	assert.False(t, ok)
	_, ok = ParseMessageStatus(MessageStatusUnknown)
	assert.False(t, ok)
}
