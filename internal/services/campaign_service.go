package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CampaignStore is the slice of the campaign repository the service needs.
type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetBriefFileURL(ctx context.Context, id uuid.UUID, url string) error
	SetCampaignImage(ctx context.Context, id uuid.UUID, url string) error
}

// CreatorSearcher matches creators against campaign filters.
type CreatorSearcher interface {
	Search(ctx context.Context, f repositories.CreatorFilter) ([]models.CreatorProfile, bool, error)
}

// Recommender is the external fallback used when the internal match set
// comes back empty.
type Recommender interface {
	Fetch(ctx context.Context, f RecommendFilter) (*RecommendPage, error)
}

// FileUploader stores campaign attachments.
type FileUploader interface {
	UploadCampaignFile(ctx context.Context, campaignID uuid.UUID, kind, filename, contentType string, body io.Reader) (string, error)
}

// Auditor records best-effort audit entries.
type Auditor interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

type CampaignService struct {
	campaigns   CampaignStore
	creators    CreatorSearcher
	recommender Recommender
	uploader    FileUploader
	audit       Auditor
	cfg         *config.Config
	log         *zap.Logger
}

func NewCampaignService(
	campaigns CampaignStore,
	creators CreatorSearcher,
	recommender Recommender,
	uploader FileUploader,
	audit Auditor,
	cfg *config.Config,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaigns:   campaigns,
		creators:    creators,
		recommender: recommender,
		uploader:    uploader,
		audit:       audit,
		cfg:         cfg,
		log:         log,
	}
}

// UploadFile is an attachment handed to Submit.
type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// SubmitResult is the unified outcome of a draft submission. Warnings carry
// non-fatal step failures (uploads) so the caller can surface them; the
// campaign itself exists whenever err is nil.
type SubmitResult struct {
	Campaign        *models.Campaign `json:"campaign"`
	Recommendations []Candidate      `json:"recommendations"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// DeriveFollowerRange maps a coarse audience-size label to a follower range.
// Unrecognized labels map to [0,0], which disables follower filtering.
func DeriveFollowerRange(reach string) (int, int) {
	switch reach {
	case "1k-10k":
		return 1000, 10000
	case "10k-100k":
		return 10000, 100000
	case "100k-1M":
		return 100000, 1000000
	default:
		return 0, 0
	}
}

// Submit runs the whole submission sequence: validate, create, best-effort
// uploads, recommendation fallback. Steps after creation never fail the
// submission; a creation failure aborts everything that follows.
func (s *CampaignService) Submit(ctx context.Context, businessUserID uuid.UUID, draft models.CampaignDraft, briefFile, coverImage *UploadFile) (*SubmitResult, error) {
	// Step 1: local validation, no I/O.
	if draft.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "required"}
	}
	if draft.Budget == "" {
		return nil, &ValidationError{Field: "budget", Reason: "required"}
	}
	if draft.Niche == "" {
		return nil, &ValidationError{Field: "niche", Reason: "required"}
	}
	budget, err := strconv.ParseInt(draft.Budget, 10, 64)
	if err != nil || budget <= 0 {
		return nil, &ValidationError{Field: "budget", Reason: "must be a positive integer"}
	}

	// Step 2: derive filters.
	minFollowers, maxFollowers := DeriveFollowerRange(draft.Reach)
	nicheID := models.NicheID(draft.Niche)
	if nicheID == 0 {
		return nil, &ValidationError{Field: "niche", Reason: fmt.Sprintf("unknown niche %q", draft.Niche)}
	}

	brief := draft.BriefText
	if brief == "" {
		brief = " "
	}

	campaign := &models.Campaign{
		BusinessUserID: businessUserID,
		Title:          draft.Title,
		Description:    draft.Description,
		Brief:          brief,
		Budget:         budget,
		StartDate:      parseDraftDate(draft.StartDate),
		EndDate:        parseDraftDate(draft.EndDate),
		MinFollowers:   minFollowers,
		MaxFollowers:   maxFollowers,
		EngagementRate: s.cfg.EngagementThreshold,
		NicheIDs:       []int{nicheID},
		Status:         "active",
	}
	if draft.Location != "" {
		campaign.Location = &draft.Location
	}

	// Step 3: create. A failure here aborts the sequence.
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, &CreationError{Err: err}
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &businessUserID,
		ActorType:   "user",
		Action:      "campaign_created",
		EntityType:  "campaign",
		EntityID:    &campaign.ID,
	})

	result := &SubmitResult{Campaign: campaign}

	// Steps 4-5: best-effort uploads against the new campaign id.
	if briefFile != nil {
		if warn := s.uploadAttachment(ctx, campaign, "brief", briefFile); warn != nil {
			result.Warnings = append(result.Warnings, warn.Error())
		}
	}
	if coverImage != nil {
		if warn := s.uploadAttachment(ctx, campaign, "cover", coverImage); warn != nil {
			result.Warnings = append(result.Warnings, warn.Error())
		}
	}

	// Step 6: embedded recommendations from the internal pool; one external
	// fallback call when empty. Neither failure is fatal — the picker just
	// opens with an empty suggestion set.
	result.Recommendations = s.recommendForCampaign(ctx, campaign, draft.Platform)

	return result, nil
}

func (s *CampaignService) uploadAttachment(ctx context.Context, campaign *models.Campaign, kind string, f *UploadFile) error {
	if s.uploader == nil {
		return &UploadWarning{Kind: kind, Err: fmt.Errorf("file storage is not configured")}
	}

	url, err := s.uploader.UploadCampaignFile(ctx, campaign.ID, kind, f.Name, f.ContentType, f.Body)
	if err == nil {
		// Only reflect the URL on the campaign once it is persisted.
		switch kind {
		case "brief":
			if err = s.campaigns.SetBriefFileURL(ctx, campaign.ID, url); err == nil {
				campaign.BriefFileURL = &url
			}
		case "cover":
			if err = s.campaigns.SetCampaignImage(ctx, campaign.ID, url); err == nil {
				campaign.CampaignImage = &url
			}
		}
	}
	if err != nil {
		s.log.Warn("campaign attachment upload failed",
			zap.String("campaign_id", campaign.ID.String()),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return &UploadWarning{Kind: kind, Err: err}
	}
	return nil
}

func (s *CampaignService) recommendForCampaign(ctx context.Context, campaign *models.Campaign, platform string) []Candidate {
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

	profiles, _, err := s.creators.Search(ctx, repositories.CreatorFilter{
		MinFollowers:      campaign.MinFollowers,
		MaxFollowers:      campaign.MaxFollowers,
		Niche:             niche,
		Platform:          platform,
		Location:          location,
		MinEngagementRate: campaign.EngagementRate,
		ExcludeCampaignID: &campaign.ID,
		Limit:             s.cfg.FallbackLimit,
	})
	if err != nil {
		s.log.Warn("internal creator match failed", zap.Error(err))
	}
	if len(profiles) > 0 {
		return CandidatesFromProfiles(profiles)
	}

	// Fallback: a single external query with the same derived filters.
	if s.recommender == nil {
		return []Candidate{}
	}
	nicheID := 0
	if len(campaign.NicheIDs) > 0 {
		nicheID = campaign.NicheIDs[0]
	}
	page, err := s.recommender.Fetch(ctx, RecommendFilter{
		MinFollowers: campaign.MinFollowers,
		MaxFollowers: campaign.MaxFollowers,
		NicheID:      nicheID,
		Platform:     platform,
		Location:     location,
		Limit:        s.cfg.FallbackLimit,
	})
	if err != nil {
		s.log.Warn("recommendation fallback unavailable", zap.Error(err))
		return []Candidate{}
	}
	return page.Candidates
}

// CandidatesFromProfiles converts stored creator profiles into the canonical
// candidate shape.
func CandidatesFromProfiles(profiles []models.CreatorProfile) []Candidate {
	out := make([]Candidate, 0, len(profiles))
	for _, p := range profiles {
		c := Candidate{
			ID:             p.ID.String(),
			Name:           p.Name,
			FollowersCount: p.FollowersCount,
			EngagementRate: p.EngagementRate,
			Niches:         p.Niches,
		}
		if p.Image != nil {
			c.Image = *p.Image
		}
		if p.Bio != nil {
			c.Bio = *p.Bio
		}
		if p.Platform != nil {
			c.Platform = *p.Platform
		}
		out = append(out, c)
	}
	return out
}

func parseDraftDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (s *CampaignService) GetByID(ctx context.Context, id, businessUserID uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
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

func (s *CampaignService) List(ctx context.Context, businessUserID uuid.UUID, f repositories.CampaignFilter) ([]models.Campaign, error) {
	f.BusinessUserID = &businessUserID
	return s.campaigns.List(ctx, f)
}

func (s *CampaignService) Delete(ctx context.Context, id, businessUserID uuid.UUID) error {
	if _, err := s.GetByID(ctx, id, businessUserID); err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &businessUserID,
		ActorType:   "user",
		Action:      "campaign_deleted",
		EntityType:  "campaign",
		EntityID:    &id,
	})
	return nil
}

// UploadAttachment serves the standalone brief/cover upload endpoints.
func (s *CampaignService) UploadAttachment(ctx context.Context, id, businessUserID uuid.UUID, kind string, f *UploadFile) (string, error) {
	campaign, err := s.GetByID(ctx, id, businessUserID)
	if err != nil {
		return "", err
	}
	if kind != "brief" && kind != "cover" {
		return "", &ValidationError{Field: "kind", Reason: "must be brief or cover"}
	}
	if err := s.uploadAttachment(ctx, campaign, kind, f); err != nil {
		return "", err
	}
	if kind == "brief" && campaign.BriefFileURL != nil {
		return *campaign.BriefFileURL, nil
	}
	if campaign.CampaignImage != nil {
		return *campaign.CampaignImage, nil
	}
	return "", nil
}
