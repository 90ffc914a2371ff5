package repositories

import (
	"context"

	"github.com/creator-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

func (r *PaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO payments (user_id, campaign_id, reference, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.UserID, p.CampaignID, p.Reference, p.Amount, p.Currency, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepo) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var p models.Payment
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, campaign_id, reference, amount, currency, status, verified_at, created_at
		FROM payments WHERE reference = $1
	`, reference).Scan(&p.ID, &p.UserID, &p.CampaignID, &p.Reference,
		&p.Amount, &p.Currency, &p.Status, &p.VerifiedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) MarkVerified(ctx context.Context, reference string, amount *int64, currency *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE payments SET status = 'verified', amount = COALESCE($2, amount),
			currency = COALESCE($3, currency), verified_at = now()
		WHERE reference = $1
	`, reference, amount, currency)
	return err
}

func (r *PaymentRepo) MarkFailed(ctx context.Context, reference string) error {
	_, err := r.pool.Exec(ctx, `UPDATE payments SET status = 'failed' WHERE reference = $1`, reference)
	return err
}

func (r *PaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, campaign_id, reference, amount, currency, status, verified_at, created_at
		FROM payments WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.CampaignID, &p.Reference,
			&p.Amount, &p.Currency, &p.Status, &p.VerifiedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
