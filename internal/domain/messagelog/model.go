package messagelog

import (
	"time"

	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/types"
)

// MessageLog is the durable record of one outbound (or incoming) WhatsApp
// message. The dedup guard and status tracking both read from here, so the
// table is append-only except for delivery-status updates.
type MessageLog struct {
	ID        int64                  `json:"id" gorm:"primaryKey;autoIncrement"`
	Recipient string                 `json:"recipient" gorm:"not null;index"`
	UserID    *int64                 `json:"user_id,omitempty" gorm:"index"`
	BillID    *int64                 `json:"bill_id,omitempty" gorm:"index"`
	Message   string                 `json:"message" gorm:"not null"`
	Kind      types.NotificationKind `json:"kind" gorm:"column:kind;default:OTHER;index"`
	Status    types.MessageStatus    `json:"status" gorm:"default:SENT;index"`

	// WAMessageID is the gateway's delivery ID, used to poll and apply
	// delivery-status transitions.
	WAMessageID *string `json:"wa_message_id,omitempty" gorm:"uniqueIndex"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (m *MessageLog) Validate() error {
	if m.Recipient == "" {
		return ierr.NewError("message log recipient is required").Mark(ierr.ErrValidation)
	}
	if !m.Kind.Validate() {
		return ierr.NewErrorf("invalid notification kind: %s", m.Kind).
			Mark(ierr.ErrValidation)
	}
	return nil
}
