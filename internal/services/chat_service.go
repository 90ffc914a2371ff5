package services

import (
	"context"

	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService struct {
	messages  *repositories.MessageRepo
	users     *repositories.UserRepo
	publisher events.Publisher
	log       *zap.Logger
}

func NewChatService(
	messages *repositories.MessageRepo,
	users *repositories.UserRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *ChatService {
	return &ChatService{
		messages:  messages,
		users:     users,
		publisher: publisher,
		log:       log,
	}
}

// StartConversation opens (or returns) the conversation between the caller
// and the other party. The business side is always stored first.
func (s *ChatService) StartConversation(ctx context.Context, callerID, otherID uuid.UUID) (*models.Conversation, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, ErrNotFound
	}
	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, ErrNotFound
	}
	if caller.Role == other.Role {
		return nil, &ValidationError{Field: "participant", Reason: "conversations pair a business with a creator"}
	}

	businessID, creatorID := callerID, otherID
	if caller.Role == models.RoleCreator {
		businessID, creatorID = otherID, callerID
	}
	return s.messages.GetOrCreateConversation(ctx, businessID, creatorID)
}

func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	return s.messages.ListConversations(ctx, userID)
}

func (s *ChatService) participant(conv *models.Conversation, userID uuid.UUID) bool {
	return conv.BusinessUserID == userID || conv.CreatorUserID == userID
}

// Messages returns a page of the conversation and marks the counterpart's
// messages delivered for the reader.
func (s *ChatService) Messages(ctx context.Context, conversationID, userID uuid.UUID, limit, offset int) ([]models.Message, error) {
	conv, err := s.messages.GetConversation(ctx, conversationID)
	if err != nil || !s.participant(conv, userID) {
		return nil, ErrNotFound
	}

	if err := s.messages.MarkDelivered(ctx, conversationID, userID); err != nil {
		s.log.Warn("mark delivered failed", zap.Error(err))
	}
	return s.messages.ListMessages(ctx, conversationID, limit, offset)
}

// Send persists a message and pushes a message-created event. clientRef is
// the sender's temporary id, echoed back so the optimistic local copy can be
// reconciled with the server-assigned id.
func (s *ChatService) Send(ctx context.Context, conversationID, senderID uuid.UUID, text string, clientRef *string) (*models.Message, error) {
	if text == "" {
		return nil, &ValidationError{Field: "text", Reason: "required"}
	}

	conv, err := s.messages.GetConversation(ctx, conversationID)
	if err != nil || !s.participant(conv, senderID) {
		return nil, ErrNotFound
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderUserID:   senderID,
		Text:           text,
		ClientRef:      clientRef,
		DeliveryStatus: models.DeliverySent,
	}
	if err := s.messages.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"message_id":      msg.ID.String(),
		"conversation_id": conversationID.String(),
		"sender_id":       senderID.String(),
		"text":            text,
	}
	if clientRef != nil {
		payload["client_ref"] = *clientRef
	}
	recipient := conv.BusinessUserID
	if senderID == conv.BusinessUserID {
		recipient = conv.CreatorUserID
	}
	payload["recipient_id"] = recipient.String()

	_ = s.publisher.Publish(ctx, events.ChannelChat, events.Event{
		Type:    events.EventMessageCreated,
		Payload: payload,
	})

	return msg, nil
}

// MarkRead advances all counterpart messages to "seen".
func (s *ChatService) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	conv, err := s.messages.GetConversation(ctx, conversationID)
	if err != nil || !s.participant(conv, userID) {
		return ErrNotFound
	}
	return s.messages.MarkRead(ctx, conversationID, userID)
}
