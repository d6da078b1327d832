package whatsapp

import (
	"context"

	"github.com/netbill/netbill/internal/types"
)

// Gateway is the outbound messaging surface the dispatcher and sweeps depend
// on. The HTTP client implements it; tests substitute a scripted fake.
type Gateway interface {
	// SendMessage delivers text to a phone number and returns the gateway's
	// delivery ID.
	SendMessage(ctx context.Context, phone, text string) (*SendResult, error)

	// CheckRecipient reports whether the phone number is reachable on
	// WhatsApp.
	CheckRecipient(ctx context.Context, phone string) (bool, error)

	// MessageStatus returns the current delivery status of a previously sent
	// message, or MessageStatusUnknown when the gateway cannot tell.
	MessageStatus(ctx context.Context, messageID string) (string, error)

	// Status reports the gateway session state.
	Status(ctx context.Context) (*GatewayStatus, error)
}

// SendResult is the gateway's response to a send request.
type SendResult struct {
	MessageID string `json:"id"`
	Accepted  bool   `json:"accepted"`
}

// GatewayStatus describes the gateway's WhatsApp session.
type GatewayStatus struct {
	Status string `json:"status"`
	Device string `json:"device,omitempty"`
	Error  string `json:"error,omitempty"`
}

// MessageStatusUnknown is returned when the gateway has no status for a
// message; callers must not persist it.
const MessageStatusUnknown = "UNKNOWN"

// ParseMessageStatus maps a gateway status string to a MessageStatus, with
// ok=false for UNKNOWN or unrecognized values.
func ParseMessageStatus(s string) (types.MessageStatus, bool) {
	switch s {
	case string(types.MessageStatusSent):
		return types.MessageStatusSent, true
	case string(types.MessageStatusDelivered):
		return types.MessageStatusDelivered, true
	case string(types.MessageStatusRead):
		return types.MessageStatusRead, true
	case string(types.MessageStatusFailed):
		return types.MessageStatusFailed, true
	default:
		return "", false
	}
}
