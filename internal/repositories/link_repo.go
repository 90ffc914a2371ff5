package repositories

import (
	"context"

	"github.com/creator-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LinkRepo manages the campaign ↔ creator membership table.
type LinkRepo struct {
	pool *pgxpool.Pool
}

func NewLinkRepo(pool *pgxpool.Pool) *LinkRepo {
	return &LinkRepo{pool: pool}
}

// Add links a creator to a campaign with the initial "invited" status.
// The insert is idempotent; re-adding an existing member reports false.
func (r *LinkRepo) Add(ctx context.Context, campaignID, creatorID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO campaign_creators (campaign_id, creator_id)
		VALUES ($1, $2)
		ON CONFLICT (campaign_id, creator_id) DO NOTHING
	`, campaignID, creatorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AddMany bulk-invites a set of creators; duplicates are skipped. Returns
// the number of new links created.
func (r *LinkRepo) AddMany(ctx context.Context, campaignID uuid.UUID, creatorIDs []uuid.UUID) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	added := 0
	for _, creatorID := range creatorIDs {
		tag, err := tx.Exec(ctx, `
			INSERT INTO campaign_creators (campaign_id, creator_id)
			VALUES ($1, $2)
			ON CONFLICT (campaign_id, creator_id) DO NOTHING
		`, campaignID, creatorID)
		if err != nil {
			return 0, err
		}
		added += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return added, nil
}

func (r *LinkRepo) Remove(ctx context.Context, campaignID, creatorID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM campaign_creators WHERE campaign_id = $1 AND creator_id = $2
	`, campaignID, creatorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *LinkRepo) GetByCampaignAndCreator(ctx context.Context, campaignID, creatorID uuid.UUID) (*models.CampaignCreator, error) {
	var l models.CampaignCreator
	err := r.pool.QueryRow(ctx, `
		SELECT cc.id, cc.campaign_id, cc.creator_id, cp.name, cc.status, cc.invited_at, cc.updated_at
		FROM campaign_creators cc
		JOIN creator_profiles cp ON cp.id = cc.creator_id
		WHERE cc.campaign_id = $1 AND cc.creator_id = $2
	`, campaignID, creatorID).Scan(&l.ID, &l.CampaignID, &l.CreatorID,
		&l.CreatorName, &l.Status, &l.InvitedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LinkRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignCreator, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cc.id, cc.campaign_id, cc.creator_id, cp.name, cc.status, cc.invited_at, cc.updated_at
		FROM campaign_creators cc
		JOIN creator_profiles cp ON cp.id = cc.creator_id
		WHERE cc.campaign_id = $1
		ORDER BY cc.invited_at
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.CampaignCreator
	for rows.Next() {
		var l models.CampaignCreator
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.CreatorID, &l.CreatorName,
			&l.Status, &l.InvitedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// ListByCreator returns the campaigns a creator has been invited to.
func (r *LinkRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.CampaignCreator, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cc.id, cc.campaign_id, cc.creator_id, cp.name, cc.status, cc.invited_at, cc.updated_at
		FROM campaign_creators cc
		JOIN creator_profiles cp ON cp.id = cc.creator_id
		WHERE cc.creator_id = $1
		ORDER BY cc.invited_at DESC
	`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.CampaignCreator
	for rows.Next() {
		var l models.CampaignCreator
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.CreatorID, &l.CreatorName,
			&l.Status, &l.InvitedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *LinkRepo) UpdateStatus(ctx context.Context, campaignID, creatorID uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaign_creators SET status = $1, updated_at = now()
		WHERE campaign_id = $2 AND creator_id = $3
	`, status, campaignID, creatorID)
	return err
}
