package events

import "context"

// Event types
const (
	EventMessageCreated  = "message_created"
	EventCreatorInvited  = "creator_invited"
	EventInviteStatusSet = "invite_status_set"
	EventPaymentVerified = "payment_verified"
)

// Pub/sub channels. One per surface so the websocket hub can subscribe
// selectively.
const (
	ChannelChat     = "events:chat"
	ChannelInvites  = "events:invites"
	ChannelPayments = "events:payments"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(Event)) error
}
