package types

// NotificationKind identifies the kind of outbound message recorded in the
// message log. INCOMING and OTHER exist for rows written by the gateway
// webhook, outside the dispatcher's send paths.
type NotificationKind string

const (
	NotificationKindBill     NotificationKind = "BILL"
	NotificationKindReceipt  NotificationKind = "RECEIPT"
	NotificationKindReminder NotificationKind = "REMINDER"
	NotificationKindIncoming NotificationKind = "INCOMING"
	NotificationKindOther    NotificationKind = "OTHER"
)

func (k NotificationKind) String() string {
	return string(k)
}

func (k NotificationKind) Validate() bool {
	switch k {
	case NotificationKindBill, NotificationKindReceipt, NotificationKindReminder,
		NotificationKindIncoming, NotificationKindOther:
		return true
	}
	return false
}

// MessageStatus is the delivery status of a message log row. SENT, DELIVERED
// and READ all count as a successful delivery for dedup purposes.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "SENT"
	MessageStatusDelivered MessageStatus = "DELIVERED"
	MessageStatusRead      MessageStatus = "READ"
	MessageStatusFailed    MessageStatus = "FAILED"
)

func (s MessageStatus) String() string {
	return string(s)
}

// IsSuccessful reports whether the status counts as a delivered message.
func (s MessageStatus) IsSuccessful() bool {
	switch s {
	case MessageStatusSent, MessageStatusDelivered, MessageStatusRead:
		return true
	}
	return false
}

// NotificationOutcome is the terminal result of one dispatcher invocation.
// AlreadySent and Held are valid non-error outcomes the caller must
// distinguish from both Sent and failure.
type NotificationOutcome string

const (
	// OutcomeSent means the gateway accepted the message.
	OutcomeSent NotificationOutcome = "SENT"

	// OutcomeAlreadySent means the dedup guard found a prior successful send.
	OutcomeAlreadySent NotificationOutcome = "ALREADY_SENT"

	// OutcomeHeld means the send was deferred by quiet hours and must be
	// retried by the periodic sweep.
	OutcomeHeld NotificationOutcome = "HELD"

	// OutcomeSkipped means the relevant toggles are off; a no-op, not an error.
	OutcomeSkipped NotificationOutcome = "SKIPPED"
)

func (o NotificationOutcome) String() string {
	return string(o)
}
