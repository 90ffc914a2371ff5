package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery statuses. A message starts as "sent" and moves forward only.
const (
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliverySeen      = "seen"
)

var deliveryOrder = map[string]int{
	DeliverySent:      0,
	DeliveryDelivered: 1,
	DeliverySeen:      2,
}

func IsValidDeliveryTransition(from, to string) bool {
	a, okA := deliveryOrder[from]
	b, okB := deliveryOrder[to]
	return okA && okB && b == a+1
}

type Conversation struct {
	ID             uuid.UUID `json:"id"`
	BusinessUserID uuid.UUID `json:"business_user_id"`
	CreatorUserID  uuid.UUID `json:"creator_user_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Denormalized for listing
	ParticipantName string  `json:"participant_name,omitempty"`
	LastMessage     *string `json:"last_message,omitempty"`
	UnreadCount     int     `json:"unread_count"`
}

type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderUserID   uuid.UUID `json:"sender_user_id"`
	Text           string    `json:"text"`
	// ClientRef carries the sender's temporary id so the client can reconcile
	// its optimistic copy with the server-assigned id.
	ClientRef      *string   `json:"client_ref,omitempty"`
	DeliveryStatus string    `json:"delivery_status"`
	CreatedAt      time.Time `json:"created_at"`
}
