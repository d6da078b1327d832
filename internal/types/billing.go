package types

// BillStatus is the lifecycle state of a bill. Bills are never hard-deleted;
// payment events move them from UNPAID to PAID.
type BillStatus string

const (
	BillStatusUnpaid BillStatus = "UNPAID"
	BillStatusPaid   BillStatus = "PAID"
)

func (s BillStatus) String() string {
	return string(s)
}

// UserStatus marks a subscriber as billable or not. Inactive users are
// excluded from bill generation and every notification sweep.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

func (s UserStatus) String() string {
	return string(s)
}

// PaymentMethod is the raw method code recorded on a payment row.
type PaymentMethod string

const (
	PaymentMethodCash           PaymentMethod = "CASH"
	PaymentMethodManualTransfer PaymentMethod = "MANUAL_TRANSFER"
	PaymentMethodMidtrans       PaymentMethod = "MIDTRANS"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus tracks admin verification of manual payments. Gateway
// payments arrive already VERIFIED.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusVerified PaymentStatus = "VERIFIED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)
