package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/creator-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `id, business_user_id, title, description, brief, budget,
	start_date, end_date, brief_file_url, campaign_image, location,
	min_followers, max_followers, engagement_rate, niche_ids, status,
	created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(&c.ID, &c.BusinessUserID, &c.Title, &c.Description, &c.Brief,
		&c.Budget, &c.StartDate, &c.EndDate, &c.BriefFileURL, &c.CampaignImage,
		&c.Location, &c.MinFollowers, &c.MaxFollowers, &c.EngagementRate,
		&c.NicheIDs, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (business_user_id, title, description, brief, budget,
			start_date, end_date, location, min_followers, max_followers,
			engagement_rate, niche_ids, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, c.BusinessUserID, c.Title, c.Description, c.Brief, c.Budget,
		c.StartDate, c.EndDate, c.Location, c.MinFollowers, c.MaxFollowers,
		c.EngagementRate, c.NicheIDs, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
}

type CampaignFilter struct {
	BusinessUserID *uuid.UUID
	Status         *string
	Limit          int
	Offset         int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	var where []string

	if f.BusinessUserID != nil {
		where = append(where, fmt.Sprintf("business_user_id = $%d", argIdx))
		args = append(args, *f.BusinessUserID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return err
}

func (r *CampaignRepo) SetBriefFileURL(ctx context.Context, id uuid.UUID, url string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET brief_file_url = $1, updated_at = now() WHERE id = $2`, url, id)
	return err
}

func (r *CampaignRepo) SetCampaignImage(ctx context.Context, id uuid.UUID, url string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET campaign_image = $1, updated_at = now() WHERE id = $2`, url, id)
	return err
}
