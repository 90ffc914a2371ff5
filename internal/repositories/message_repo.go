package repositories

import (
	"context"

	"github.com/creator-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// GetOrCreateConversation returns the conversation between a business and a
// creator, creating it on first contact.
func (r *MessageRepo) GetOrCreateConversation(ctx context.Context, businessUserID, creatorUserID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (business_user_id, creator_user_id)
		VALUES ($1, $2)
		ON CONFLICT (business_user_id, creator_user_id)
		DO UPDATE SET business_user_id = EXCLUDED.business_user_id
		RETURNING id, business_user_id, creator_user_id, created_at
	`, businessUserID, creatorUserID).Scan(&conv.ID, &conv.BusinessUserID,
		&conv.CreatorUserID, &conv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepo) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id, business_user_id, creator_user_id, created_at
		FROM conversations WHERE id = $1
	`, id).Scan(&conv.ID, &conv.BusinessUserID, &conv.CreatorUserID, &conv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns the user's conversations with the counterpart's
// name, the latest message and the unread count denormalized in.
func (r *MessageRepo) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.business_user_id, c.creator_user_id, c.created_at,
			u.name,
			(SELECT m.text FROM messages m WHERE m.conversation_id = c.id
				ORDER BY m.created_at DESC LIMIT 1),
			(SELECT count(*) FROM messages m WHERE m.conversation_id = c.id
				AND m.sender_user_id <> $1 AND m.delivery_status <> 'seen')
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.business_user_id = $1 THEN c.creator_user_id ELSE c.business_user_id END
		WHERE c.business_user_id = $1 OR c.creator_user_id = $1
		ORDER BY c.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.BusinessUserID, &c.CreatorUserID, &c.CreatedAt,
			&c.ParticipantName, &c.LastMessage, &c.UnreadCount); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *MessageRepo) InsertMessage(ctx context.Context, m *models.Message) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_user_id, text, client_ref, delivery_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.ConversationID, m.SenderUserID, m.Text, m.ClientRef, m.DeliveryStatus,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepo) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_user_id, text, client_ref, delivery_status, created_at
		FROM messages WHERE conversation_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderUserID, &m.Text,
			&m.ClientRef, &m.DeliveryStatus, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MarkRead advances every counterpart message in the conversation to "seen".
func (r *MessageRepo) MarkRead(ctx context.Context, conversationID, readerUserID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE messages SET delivery_status = 'seen'
		WHERE conversation_id = $1 AND sender_user_id <> $2 AND delivery_status <> 'seen'
	`, conversationID, readerUserID)
	return err
}

// MarkDelivered advances "sent" counterpart messages to "delivered".
func (r *MessageRepo) MarkDelivered(ctx context.Context, conversationID, recipientUserID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE messages SET delivery_status = 'delivered'
		WHERE conversation_id = $1 AND sender_user_id <> $2 AND delivery_status = 'sent'
	`, conversationID, recipientUserID)
	return err
}
