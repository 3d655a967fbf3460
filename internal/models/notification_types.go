package models

import "time"

// Email notification statuses. Rows start pending and are transitioned by the
// dispatch worker.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// EmailNotification is the model for the 'email_notifications' table.
// Rows are queued by other handlers (order placement) and drained by the
// dispatch worker; the order transaction only guarantees insertion.
type EmailNotification struct {
	ID       int64  `json:"id" db:"id"`
	UserID   int64  `json:"user_id" db:"user_id"`
	Email    string `json:"email" db:"email"`
	Type     string `json:"type" db:"type"` // e.g. order_confirmation
	Subject  string `json:"subject" db:"subject"`
	Body     string `json:"body" db:"body"`
	OrderID  *int64 `json:"order_id,omitempty" db:"order_id"`
	Metadata string `json:"metadata" db:"metadata"` // free-form JSON
	Status   string `json:"status" db:"status"`

	SentAt    *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
