package models

import (
	"time"

	"github.com/google/uuid"
)

type Campaign struct {
	ID              uuid.UUID  `json:"id"`
	BusinessUserID  uuid.UUID  `json:"business_user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Brief           string     `json:"brief"`
	Budget          int64      `json:"budget"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	BriefFileURL    *string    `json:"brief_file_url,omitempty"`
	CampaignImage   *string    `json:"campaign_image,omitempty"`
	Location        *string    `json:"location,omitempty"`
	MinFollowers    int        `json:"min_followers"`
	MaxFollowers    int        `json:"max_followers"`
	EngagementRate  float64    `json:"engagement_rate"`
	NicheIDs        []int      `json:"niche_ids"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Invitation link statuses. The initial status is always "invited";
// accepted/declined are set by the creator side.
const (
	LinkStatusInvited  = "invited"
	LinkStatusAccepted = "accepted"
	LinkStatusDeclined = "declined"
)

var ValidLinkTransitions = map[string][]string{
	LinkStatusInvited:  {LinkStatusAccepted, LinkStatusDeclined},
	LinkStatusAccepted: {},
	LinkStatusDeclined: {},
}

func IsValidLinkTransition(from, to string) bool {
	for _, s := range ValidLinkTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CampaignCreator is the many-to-many link between a campaign and an
// invited creator.
type CampaignCreator struct {
	ID          uuid.UUID `json:"id"`
	CampaignID  uuid.UUID `json:"campaign_id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	CreatorName string    `json:"creator_name"`
	Status      string    `json:"status"`
	InvitedAt   time.Time `json:"invited_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
