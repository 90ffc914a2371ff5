package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/creator-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CreatorRepo struct {
	pool *pgxpool.Pool
}

func NewCreatorRepo(pool *pgxpool.Pool) *CreatorRepo {
	return &CreatorRepo{pool: pool}
}

const creatorColumns = `id, user_id, name, bio, image, platform, profile_url, location,
	followers_count, engagement_rate, niches, created_at, updated_at`

func scanCreator(row interface{ Scan(...any) error }) (*models.CreatorProfile, error) {
	var p models.CreatorProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Bio, &p.Image, &p.Platform,
		&p.ProfileURL, &p.Location, &p.FollowersCount, &p.EngagementRate,
		&p.Niches, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CreatorRepo) Create(ctx context.Context, p *models.CreatorProfile) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO creator_profiles (user_id, name, bio, image, platform, profile_url, location,
			followers_count, engagement_rate, niches)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Name, p.Bio, p.Image, p.Platform, p.ProfileURL, p.Location,
		p.FollowersCount, p.EngagementRate, p.Niches,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *CreatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CreatorProfile, error) {
	return scanCreator(r.pool.QueryRow(ctx,
		`SELECT `+creatorColumns+` FROM creator_profiles WHERE id = $1`, id))
}

func (r *CreatorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	return scanCreator(r.pool.QueryRow(ctx,
		`SELECT `+creatorColumns+` FROM creator_profiles WHERE user_id = $1`, userID))
}

func (r *CreatorRepo) Update(ctx context.Context, p *models.CreatorProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE creator_profiles SET name = $1, bio = $2, image = $3, platform = $4,
			profile_url = $5, location = $6, niches = $7, updated_at = now()
		WHERE id = $8
	`, p.Name, p.Bio, p.Image, p.Platform, p.ProfileURL, p.Location, p.Niches, p.ID)
	return err
}

func (r *CreatorRepo) UpdateStats(ctx context.Context, id uuid.UUID, followers int, engagementRate float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE creator_profiles SET followers_count = $1, engagement_rate = $2, updated_at = now()
		WHERE id = $3
	`, followers, engagementRate, id)
	return err
}

// CreatorFilter narrows a suggestion query. ExcludeCampaignID removes
// creators already linked to that campaign, so suggestions never overlap
// with current membership.
type CreatorFilter struct {
	MinFollowers      int
	MaxFollowers      int
	Niche             string
	Platform          string
	Location          string
	MinEngagementRate float64
	ExcludeCampaignID *uuid.UUID
	Limit             int
	Offset            int
}

// Search returns one page of matching creators plus a has-more flag,
// derived by fetching limit+1 rows.
func (r *CreatorRepo) Search(ctx context.Context, f CreatorFilter) ([]models.CreatorProfile, bool, error) {
	query := `SELECT ` + creatorColumns + ` FROM creator_profiles`
	args := []any{}
	argIdx := 1
	var where []string

	if f.MinFollowers > 0 {
		where = append(where, fmt.Sprintf("followers_count >= $%d", argIdx))
		args = append(args, f.MinFollowers)
		argIdx++
	}
	if f.MaxFollowers > 0 {
		where = append(where, fmt.Sprintf("followers_count <= $%d", argIdx))
		args = append(args, f.MaxFollowers)
		argIdx++
	}
	if f.Niche != "" {
		where = append(where, fmt.Sprintf("$%d = ANY(niches)", argIdx))
		args = append(args, f.Niche)
		argIdx++
	}
	if f.Platform != "" {
		where = append(where, fmt.Sprintf("platform = $%d", argIdx))
		args = append(args, f.Platform)
		argIdx++
	}
	if f.Location != "" {
		where = append(where, fmt.Sprintf("location = $%d", argIdx))
		args = append(args, f.Location)
		argIdx++
	}
	if f.MinEngagementRate > 0 {
		where = append(where, fmt.Sprintf("engagement_rate >= $%d", argIdx))
		args = append(args, f.MinEngagementRate)
		argIdx++
	}
	if f.ExcludeCampaignID != nil {
		where = append(where, fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM campaign_creators cc WHERE cc.campaign_id = $%d AND cc.creator_id = creator_profiles.id)", argIdx))
		args = append(args, *f.ExcludeCampaignID)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	// Fetch one extra row to derive has_more without a count query.
	query += fmt.Sprintf(" ORDER BY followers_count DESC, id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit+1, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var creators []models.CreatorProfile
	for rows.Next() {
		p, err := scanCreator(rows)
		if err != nil {
			return nil, false, err
		}
		creators = append(creators, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	hasMore := len(creators) > limit
	if hasMore {
		creators = creators[:limit]
	}
	return creators, hasMore, nil
}

// ListWithProfileURL returns creators whose public profile page can be
// polled by the stats worker.
func (r *CreatorRepo) ListWithProfileURL(ctx context.Context) ([]models.CreatorProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+creatorColumns+` FROM creator_profiles WHERE profile_url IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creators []models.CreatorProfile
	for rows.Next() {
		p, err := scanCreator(rows)
		if err != nil {
			return nil, err
		}
		creators = append(creators, *p)
	}
	return creators, rows.Err()
}

func (r *CreatorRepo) InsertStatsSnapshot(ctx context.Context, s *models.CreatorStatsSnapshot) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO creator_stats_snapshots (creator_id, followers, posts, avg_likes, engagement_rate, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, fetched_at
	`, s.CreatorID, s.Followers, s.Posts, s.AvgLikes, s.EngagementRate, s.Source,
	).Scan(&s.ID, &s.FetchedAt)
}
