package services

import (
	"context"

	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService struct {
	payments  *repositories.PaymentRepo
	gateway   *PaymentClient
	audit     Auditor
	publisher events.Publisher
	log       *zap.Logger
}

func NewPaymentService(
	payments *repositories.PaymentRepo,
	gateway *PaymentClient,
	audit Auditor,
	publisher events.Publisher,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		gateway:   gateway,
		audit:     audit,
		publisher: publisher,
		log:       log,
	}
}

// VerifyAndRecord checks the reference with the gateway and persists the
// outcome. Re-verifying an already verified reference is a no-op success.
func (s *PaymentService) VerifyAndRecord(ctx context.Context, userID uuid.UUID, campaignID *uuid.UUID, reference string) (*models.Payment, error) {
	if reference == "" {
		return nil, &ValidationError{Field: "reference", Reason: "required"}
	}

	existing, err := s.payments.GetByReference(ctx, reference)
	if err == nil && existing.Status == models.PaymentStatusVerified {
		return existing, nil
	}
	if err != nil {
		p := &models.Payment{
			UserID:     userID,
			CampaignID: campaignID,
			Reference:  reference,
			Status:     models.PaymentStatusPending,
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return nil, err
		}
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !result.Verified {
		if err := s.payments.MarkFailed(ctx, reference); err != nil {
			return nil, err
		}
		return s.payments.GetByReference(ctx, reference)
	}

	if err := s.payments.MarkVerified(ctx, reference, result.Amount, result.Currency); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "payment_verified",
		EntityType:  "payment",
		Meta:        map[string]any{"reference": reference},
	})
	_ = s.publisher.Publish(ctx, events.ChannelPayments, events.Event{
		Type: events.EventPaymentVerified,
		Payload: map[string]any{
			"user_id":   userID.String(),
			"reference": reference,
		},
	})

	return s.payments.GetByReference(ctx, reference)
}

func (s *PaymentService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	return s.payments.ListByUser(ctx, userID, limit, offset)
}
