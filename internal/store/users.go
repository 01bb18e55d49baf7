package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rewardplay-bot/internal/models"
)

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, coins, created_at, updated_at FROM users WHERE id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IncrementCoins adds amount to the user's coin balance in a single statement
func (s *Store) IncrementCoins(ctx context.Context, userID string, amount int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET coins = coins + $1, updated_at = NOW() WHERE id = $2",
		amount, userID)
	if err != nil {
		return fmt.Errorf("failed to increment coins: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return nil
}

// IncrementPurchasedSpins adds amount to the user's spin record, creating
// the record on first purchase
func (s *Store) IncrementPurchasedSpins(ctx context.Context, userID string, amount int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spin_data (user_id, purchased_spins_remaining)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			purchased_spins_remaining = spin_data.purchased_spins_remaining + EXCLUDED.purchased_spins_remaining,
			updated_at = NOW()`,
		userID, amount)
	if err != nil {
		return fmt.Errorf("failed to increment spins: %w", err)
	}
	return nil
}

// GetSpinData retrieves the user's spin record
func (s *Store) GetSpinData(ctx context.Context, userID string) (*models.SpinData, error) {
	var data models.SpinData
	err := s.db.GetContext(ctx, &data,
		"SELECT user_id, purchased_spins_remaining, updated_at FROM spin_data WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// DebitCoinsIfSufficient subtracts amount from the balance only when the
// balance covers it. The row stays locked between the check and the write,
// so concurrent debits for one user serialize.
func (s *Store) DebitCoinsIfSufficient(ctx context.Context, userID string, amount int64) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var coins int64
	err = tx.GetContext(ctx, &coins,
		"SELECT coins FROM users WHERE id = $1 FOR UPDATE", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock user: %w", err)
	}

	if coins < amount {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET coins = coins - $1, updated_at = NOW() WHERE id = $2",
		amount, userID)
	if err != nil {
		return false, fmt.Errorf("failed to debit coins: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
