package domain

import "time"

type Notification struct {
	ID         int32             `json:"id"`
	MemberID   int32             `json:"member_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IsRead     bool              `json:"is_read"`
	CreatedAt  time.Time         `json:"created_at"`
}
