package payment_transaction_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/shared_models"
)

// PaymentTransaction records a manual bank-transfer payment for a booking.
// It is created (or updated) when the tenant approves the uploaded proof.
type PaymentTransaction struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	Amount    int64     `json:"amount"`
	Method    string    `json:"method"`
	ProofURL  *string   `json:"proof_url,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const MethodManualTransfer = "manual_transfer"

// ErrTransactionNotFound is returned when a booking has no payment
// transaction yet (nothing approved so far).
var ErrTransactionNotFound = errors.New("payment transaction not found")

// NewPaymentTransaction creates a transaction record for a booking.
func NewPaymentTransaction(bookingID uuid.UUID, amount int64, proofURL *string, status string) (*PaymentTransaction, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for payment transaction: %w", err)
	}
	now := time.Now()
	return &PaymentTransaction{
		ID:        id,
		BookingID: bookingID,
		Amount:    amount,
		Method:    MethodManualTransfer,
		ProofURL:  proofURL,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpsertForBooking writes the transaction keyed by booking: tenant approval
// is idempotent, a re-approval updates the same record.
func UpsertForBooking(ctx context.Context, db *pgxpool.Pool, tx *PaymentTransaction) (*PaymentTransaction, error) {
	query := `
		INSERT INTO payment_transactions (id, booking_id, amount, method, proof_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (booking_id)
		DO UPDATE SET amount = EXCLUDED.amount,
		              proof_url = EXCLUDED.proof_url,
		              status = EXCLUDED.status,
		              updated_at = EXCLUDED.updated_at
		RETURNING id, booking_id, amount, method, proof_url, status, created_at, updated_at
	`

	saved := &PaymentTransaction{}
	err := db.QueryRow(ctx, query,
		tx.ID, tx.BookingID, tx.Amount, tx.Method, tx.ProofURL, tx.Status, time.Now(),
	).Scan(
		&saved.ID, &saved.BookingID, &saved.Amount, &saved.Method,
		&saved.ProofURL, &saved.Status, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to upsert payment transaction for booking %s: %v", tx.BookingID, err)
		return nil, fmt.Errorf("failed to save payment transaction: %w", err)
	}

	logger.InfoLogger.Infof("Payment transaction %s saved for booking %s", saved.ID, saved.BookingID)
	return saved, nil
}

// GetByBookingID fetches the transaction for a booking, if any.
func GetByBookingID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*PaymentTransaction, error) {
	query := `
		SELECT id, booking_id, amount, method, proof_url, status, created_at, updated_at
		FROM payment_transactions
		WHERE booking_id = $1
	`

	tx := &PaymentTransaction{}
	err := db.QueryRow(ctx, query, bookingID).Scan(
		&tx.ID, &tx.BookingID, &tx.Amount, &tx.Method,
		&tx.ProofURL, &tx.Status, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch payment transaction for booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("database error fetching payment transaction: %w", err)
	}
	return tx, nil
}
