package models

import (
	"time"

	"github.com/google/uuid"
)

// Link statuses
const (
	LinkStatusActive   = "active"
	LinkStatusDisabled = "disabled"
)

type Link struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Alias     string    `json:"alias"`
	TargetURL string    `json:"target_url"`
	Title     *string   `json:"title,omitempty"`
	AdLevel   int       `json:"ad_level"`
	Status    string    `json:"status"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
