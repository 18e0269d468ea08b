package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationWithdrawalStatus = "withdrawal_status"
	NotificationAnnouncement     = "announcement"
	NotificationLinkFlagged      = "link_flagged"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
