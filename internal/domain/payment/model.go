package payment

import (
	"time"

	"github.com/netbill/netbill/internal/types"
)

// Payment records one settlement against a bill. Gateway payments carry the
// gateway's payment type and issuer, used for the receipt's method label.
type Payment struct {
	ID     int64               `json:"id" gorm:"primaryKey;autoIncrement"`
	BillID int64               `json:"bill_id" gorm:"not null;index"`
	Amount int64               `json:"amount" gorm:"not null"`
	Method types.PaymentMethod `json:"method" gorm:"not null"`

	// Gateway fields; empty for CASH / MANUAL_TRANSFER.
	TransactionID *string `json:"transaction_id,omitempty" gorm:"uniqueIndex"`
	PaymentType   string  `json:"payment_type,omitempty"`
	Issuer        string  `json:"issuer,omitempty"`
	GatewayStatus string  `json:"gateway_status,omitempty"`
	Currency      string  `json:"currency,omitempty" gorm:"default:IDR"`

	Status types.PaymentStatus `json:"status" gorm:"default:PENDING;index"`
	PaidAt time.Time           `json:"paid_at" gorm:"autoCreateTime"`
}
