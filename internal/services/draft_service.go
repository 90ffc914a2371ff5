package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/creator-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DraftService keeps the campaign wizard state per business user in redis so
// a session survives reconnects. The draft is deleted on submit or cancel.
type DraftService struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewDraftService(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *DraftService {
	return &DraftService{rdb: rdb, ttl: ttl, log: log}
}

func draftKey(userID uuid.UUID) string {
	return fmt.Sprintf("draft:%s", userID)
}

// Get returns the user's draft; a closed empty draft when none is stored.
func (s *DraftService) Get(ctx context.Context, userID uuid.UUID) (*models.CampaignDraft, error) {
	data, err := s.rdb.Get(ctx, draftKey(userID)).Bytes()
	if err == redis.Nil {
		return &models.CampaignDraft{}, nil
	}
	if err != nil {
		return nil, err
	}

	var draft models.CampaignDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		// A corrupt draft is not worth failing the wizard over.
		s.log.Warn("discarding unreadable draft", zap.String("user_id", userID.String()), zap.Error(err))
		return &models.CampaignDraft{}, nil
	}
	return &draft, nil
}

func (s *DraftService) save(ctx context.Context, userID uuid.UUID, draft *models.CampaignDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, draftKey(userID), data, s.ttl).Err()
}

// Open starts the wizard at the Details step, preserving any stored fields.
func (s *DraftService) Open(ctx context.Context, userID uuid.UUID) (*models.CampaignDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft.Step == models.StepClosed {
		draft.Step = models.StepDetails
	}
	if err := s.save(ctx, userID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Update merges field values into the stored draft without moving the step.
func (s *DraftService) Update(ctx context.Context, userID uuid.UUID, fields models.CampaignDraft) (*models.CampaignDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft.Step == models.StepClosed {
		return nil, &ValidationError{Field: "step", Reason: "wizard is not open"}
	}

	step := draft.Step
	merge(draft, fields)
	draft.Step = step

	if err := s.save(ctx, userID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func merge(dst *models.CampaignDraft, src models.CampaignDraft) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Budget != "" {
		dst.Budget = src.Budget
	}
	if src.StartDate != "" {
		dst.StartDate = src.StartDate
	}
	if src.EndDate != "" {
		dst.EndDate = src.EndDate
	}
	if src.BriefText != "" {
		dst.BriefText = src.BriefText
	}
	if src.Niche != "" {
		dst.Niche = src.Niche
	}
	if src.Platform != "" {
		dst.Platform = src.Platform
	}
	if src.Reach != "" {
		dst.Reach = src.Reach
	}
	if src.Location != "" {
		dst.Location = src.Location
	}
}

// Advance moves the wizard forward, honoring the Details-step guard. The
// guard failing leaves the stored step unchanged.
func (s *DraftService) Advance(ctx context.Context, userID uuid.UUID) (*models.CampaignDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !draft.Advance() {
		if draft.Step == models.StepDetails {
			return nil, &ValidationError{Field: "draft", Reason: "title and budget are required"}
		}
		return nil, &ValidationError{Field: "step", Reason: "no next step"}
	}
	if err := s.save(ctx, userID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Back moves one step toward Details; stored field values are kept.
func (s *DraftService) Back(ctx context.Context, userID uuid.UUID) (*models.CampaignDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !draft.Back() {
		return nil, &ValidationError{Field: "step", Reason: "no previous step"}
	}
	if err := s.save(ctx, userID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Discard closes the wizard and deletes the stored draft.
func (s *DraftService) Discard(ctx context.Context, userID uuid.UUID) error {
	return s.rdb.Del(ctx, draftKey(userID)).Err()
}
