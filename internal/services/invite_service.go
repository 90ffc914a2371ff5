package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// LinkStore is the campaign-membership slice of the repository layer.
type LinkStore interface {
	Add(ctx context.Context, campaignID, creatorID uuid.UUID) (bool, error)
	AddMany(ctx context.Context, campaignID uuid.UUID, creatorIDs []uuid.UUID) (int, error)
	Remove(ctx context.Context, campaignID, creatorID uuid.UUID) (bool, error)
	GetByCampaignAndCreator(ctx context.Context, campaignID, creatorID uuid.UUID) (*models.CampaignCreator, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignCreator, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.CampaignCreator, error)
	UpdateStatus(ctx context.Context, campaignID, creatorID uuid.UUID, status string) error
}

type InviteService struct {
	links     LinkStore
	campaigns CampaignStore
	creators  CreatorSearcher
	audit     Auditor
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewInviteService(
	links LinkStore,
	campaigns CampaignStore,
	creators CreatorSearcher,
	audit Auditor,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *InviteService {
	return &InviteService{
		links:     links,
		campaigns: campaigns,
		creators:  creators,
		audit:     audit,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

func (s *InviteService) ownedCampaign(ctx context.Context, campaignID, businessUserID uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.BusinessUserID != businessUserID {
		return nil, ErrNotFound
	}
	return c, nil
}

// SuggestionPage is one page of candidates for a campaign, guaranteed not to
// overlap with the campaign's current membership.
type SuggestionPage struct {
	Creators []Candidate `json:"creators"`
	HasMore  bool        `json:"has_more"`
	Offset   int         `json:"offset"`
}

// Suggestions pages through creators matching the campaign's stored filters,
// excluding everyone already linked to the campaign.
func (s *InviteService) Suggestions(ctx context.Context, campaignID, businessUserID uuid.UUID, offset, limit int) (*SuggestionPage, error) {
	campaign, err := s.ownedCampaign(ctx, campaignID, businessUserID)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, &ValidationError{Field: "offset", Reason: "must be >= 0"}
	}
	if limit <= 0 {
		limit = s.cfg.SuggestionPageSize
	}

	niche := ""
	if len(campaign.NicheIDs) > 0 {
		for _, n := range models.Niches {
			if n.ID == campaign.NicheIDs[0] {
				niche = n.Label
				break
			}
		}
	}
	location := ""
	if campaign.Location != nil {
		location = *campaign.Location
	}

	profiles, hasMore, err := s.creators.Search(ctx, repositories.CreatorFilter{
		MinFollowers:      campaign.MinFollowers,
		MaxFollowers:      campaign.MaxFollowers,
		Niche:             niche,
		Location:          location,
		MinEngagementRate: campaign.EngagementRate,
		ExcludeCampaignID: &campaignID,
		Limit:             limit,
		Offset:            offset,
	})
	if err != nil {
		return nil, err
	}

	return &SuggestionPage{
		Creators: CandidatesFromProfiles(profiles),
		HasMore:  hasMore,
		Offset:   offset,
	}, nil
}

// FilterAgainstMembers drops every candidate whose id is already in the
// member set. Used to de-duplicate externally sourced candidates, which the
// repository-side exclusion cannot cover.
func FilterAgainstMembers(candidates []Candidate, members []models.CampaignCreator) []Candidate {
	if len(members) == 0 {
		return candidates
	}
	taken := make(map[string]struct{}, len(members))
	for _, m := range members {
		taken[m.CreatorID.String()] = struct{}{}
	}
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := taken[c.ID]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Add links one creator to the campaign with status "invited".
func (s *InviteService) Add(ctx context.Context, campaignID, businessUserID, creatorID uuid.UUID) (*models.CampaignCreator, error) {
	if _, err := s.ownedCampaign(ctx, campaignID, businessUserID); err != nil {
		return nil, err
	}

	added, err := s.links.Add(ctx, campaignID, creatorID)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, fmt.Errorf("creator is already part of this campaign")
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &businessUserID,
		ActorType:   "user",
		Action:      "creator_added",
		EntityType:  "campaign",
		EntityID:    &campaignID,
		Meta:        map[string]any{"creator_id": creatorID.String()},
	})
	_ = s.publisher.Publish(ctx, events.ChannelInvites, events.Event{
		Type: events.EventCreatorInvited,
		Payload: map[string]any{
			"campaign_id": campaignID.String(),
			"creator_id":  creatorID.String(),
		},
	})

	return s.links.GetByCampaignAndCreator(ctx, campaignID, creatorID)
}

// Remove unlinks a creator. The caller is expected to re-fetch suggestions
// from offset 0 afterwards; the removed creator becomes eligible again.
func (s *InviteService) Remove(ctx context.Context, campaignID, businessUserID, creatorID uuid.UUID) error {
	if _, err := s.ownedCampaign(ctx, campaignID, businessUserID); err != nil {
		return err
	}

	removed, err := s.links.Remove(ctx, campaignID, creatorID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &businessUserID,
		ActorType:   "user",
		Action:      "creator_removed",
		EntityType:  "campaign",
		EntityID:    &campaignID,
		Meta:        map[string]any{"creator_id": creatorID.String()},
	})
	return nil
}

// Invite bulk-invites the selected creators. An empty selection is rejected;
// duplicates already on the campaign are skipped silently.
func (s *InviteService) Invite(ctx context.Context, campaignID, businessUserID uuid.UUID, creatorIDs []uuid.UUID) (int, error) {
	if len(creatorIDs) == 0 {
		return 0, &ValidationError{Field: "creator_ids", Reason: "selection is empty"}
	}
	if _, err := s.ownedCampaign(ctx, campaignID, businessUserID); err != nil {
		return 0, err
	}

	added, err := s.links.AddMany(ctx, campaignID, creatorIDs)
	if err != nil {
		return 0, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &businessUserID,
		ActorType:   "user",
		Action:      "creators_invited",
		EntityType:  "campaign",
		EntityID:    &campaignID,
		Meta:        map[string]any{"count": added},
	})
	for _, creatorID := range creatorIDs {
		_ = s.publisher.Publish(ctx, events.ChannelInvites, events.Event{
			Type: events.EventCreatorInvited,
			Payload: map[string]any{
				"campaign_id": campaignID.String(),
				"creator_id":  creatorID.String(),
			},
		})
	}

	return added, nil
}

// Members returns the campaign's current creator links.
func (s *InviteService) Members(ctx context.Context, campaignID, businessUserID uuid.UUID) ([]models.CampaignCreator, error) {
	if _, err := s.ownedCampaign(ctx, campaignID, businessUserID); err != nil {
		return nil, err
	}
	return s.links.ListByCampaign(ctx, campaignID)
}

// MyInvites lists the invitations addressed to a creator.
func (s *InviteService) MyInvites(ctx context.Context, creatorID uuid.UUID) ([]models.CampaignCreator, error) {
	return s.links.ListByCreator(ctx, creatorID)
}

// Respond lets a creator accept or decline an invitation. Transitions are
// validated against the link state machine.
func (s *InviteService) Respond(ctx context.Context, campaignID, creatorID uuid.UUID, status string) error {
	link, err := s.links.GetByCampaignAndCreator(ctx, campaignID, creatorID)
	if err != nil {
		return ErrNotFound
	}
	if !models.IsValidLinkTransition(link.Status, status) {
		return fmt.Errorf("invalid status transition from %s to %s", link.Status, status)
	}

	if err := s.links.UpdateStatus(ctx, campaignID, creatorID, status); err != nil {
		return err
	}

	_ = s.publisher.Publish(ctx, events.ChannelInvites, events.Event{
		Type: events.EventInviteStatusSet,
		Payload: map[string]any{
			"campaign_id": campaignID.String(),
			"creator_id":  creatorID.String(),
			"status":      status,
		},
	})
	return nil
}
