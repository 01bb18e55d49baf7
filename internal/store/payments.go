package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rewardplay-bot/internal/models"
)

// ClaimPayment records a completed payment in the ledger. It returns false
// when the charge id was already recorded.
func (s *Store) ClaimPayment(ctx context.Context, rec *models.PaymentRecord) (bool, error) {
	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO processed_payments
			(charge_id, provider_charge_id, user_id, catalog, product_id, currency, total_amount, shipping_address, status)
		VALUES
			(:charge_id, :provider_charge_id, :user_id, :catalog, :product_id, :currency, :total_amount, :shipping_address, :status)
		ON CONFLICT (charge_id) DO NOTHING`, rec)
	if err != nil {
		return false, fmt.Errorf("failed to record payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdatePaymentStatus moves a ledger row to a new status
func (s *Store) UpdatePaymentStatus(ctx context.Context, chargeID, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE processed_payments SET status = $1, updated_at = NOW() WHERE charge_id = $2",
		status, chargeID)
	return err
}

// GetPayment retrieves a ledger row by charge id
func (s *Store) GetPayment(ctx context.Context, chargeID string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := s.db.GetContext(ctx, &rec, "SELECT * FROM processed_payments WHERE charge_id = $1", chargeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment not found: %s", chargeID)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
