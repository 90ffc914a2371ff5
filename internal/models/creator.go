package models

import (
	"time"

	"github.com/google/uuid"
)

type CreatorProfile struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Bio            *string   `json:"bio,omitempty"`
	Image          *string   `json:"image,omitempty"`
	Platform       *string   `json:"platform,omitempty"`
	ProfileURL     *string   `json:"profile_url,omitempty"`
	Location       *string   `json:"location,omitempty"`
	FollowersCount int       `json:"followers_count"`
	// Fraction in [0,1]; formatted as a percentage only at render time.
	EngagementRate float64   `json:"engagement_rate"`
	Niches         []string  `json:"niches"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreatorStatsSnapshot is one observation of a creator's public profile
// numbers, written by the stats worker.
type CreatorStatsSnapshot struct {
	ID             uuid.UUID `json:"id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	FetchedAt      time.Time `json:"fetched_at"`
	Followers      *int      `json:"followers,omitempty"`
	Posts          *int      `json:"posts,omitempty"`
	AvgLikes       *int      `json:"avg_likes,omitempty"`
	EngagementRate *float64  `json:"engagement_rate,omitempty"`
	Source         string    `json:"source"`
}
