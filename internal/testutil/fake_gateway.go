package testutil

import (
	"context"
	"fmt"
	"sync"

	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/whatsapp"
)

// SentMessage records one SendMessage call against the fake gateway.
type SentMessage struct {
	Phone   string
	Message string
}

// FakeGateway implements whatsapp.Gateway for tests. Sends succeed and are
// recorded unless a failure is scripted; delivery statuses are looked up from
// the scripted map.
type FakeGateway struct {
	mu sync.Mutex

	sent     []SentMessage
	nextID   int
	sendErr  error
	statuses map[string]string
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		statuses: make(map[string]string),
	}
}

// FailSends makes every subsequent SendMessage return err. Pass nil to
// restore successful sends.
func (g *FakeGateway) FailSends(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sendErr = err
}

// SetStatus scripts the delivery status returned for a gateway message ID.
func (g *FakeGateway) SetStatus(messageID, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[messageID] = status
}

// Sent returns a copy of the recorded sends.
func (g *FakeGateway) Sent() []SentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]SentMessage, len(g.sent))
	copy(out, g.sent)
	return out
}

func (g *FakeGateway) SendCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

func (g *FakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = nil
	g.nextID = 0
	g.sendErr = nil
	g.statuses = make(map[string]string)
}

func (g *FakeGateway) SendMessage(ctx context.Context, phone, message string) (*whatsapp.SendResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sendErr != nil {
		return nil, g.sendErr
	}

	g.nextID++
	g.sent = append(g.sent, SentMessage{Phone: phone, Message: message})
	return &whatsapp.SendResult{
		MessageID: fmt.Sprintf("fake-%d", g.nextID),
		Accepted:  true,
	}, nil
}

func (g *FakeGateway) CheckRecipient(ctx context.Context, phone string) (bool, error) {
	return phone != "", nil
}

func (g *FakeGateway) MessageStatus(ctx context.Context, messageID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if status, ok := g.statuses[messageID]; ok {
		return status, nil
	}
	return whatsapp.MessageStatusUnknown, nil
}

func (g *FakeGateway) Status(ctx context.Context) (*whatsapp.GatewayStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sendErr != nil {
		return nil, ierr.NewError("gateway unavailable").Mark(ierr.ErrHTTPClient)
	}
	return &whatsapp.GatewayStatus{Status: "CONNECTED"}, nil
}
