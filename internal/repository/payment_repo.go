package repository

import (
	"context"
	"fmt"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

const paymentColumns = `id, booking_id, user_id, coach_id, amount_cents, platform_fee_cents,
	coach_earnings_cents, status, payment_method, external_ref, processed_at, created_at`

type CreatePaymentInput struct {
	BookingID          int64
	UserID             int64
	CoachID            int64
	AmountCents        int64
	PlatformFeeCents   int64
	CoachEarningsCents int64
	Status             string
	PaymentMethod      *string
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	query := fmt.Sprintf(`
		INSERT INTO payments (booking_id, user_id, coach_id, amount_cents, platform_fee_cents,
			coach_earnings_cents, status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`, paymentColumns)
	return r.scanOne(r.db.QueryRow(ctx, query,
		input.BookingID,
		input.UserID,
		input.CoachID,
		input.AmountCents,
		input.PlatformFeeCents,
		input.CoachEarningsCents,
		input.Status,
		input.PaymentMethod,
	))
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE booking_id = $1
		ORDER BY id DESC
		LIMIT 1
	`, paymentColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, bookingID))
}

func (r *PaymentRepository) GetByBookingIDForUpdate(ctx context.Context, bookingID int64) (*models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE booking_id = $1
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE
	`, paymentColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, bookingID))
}

func (r *PaymentRepository) ListByBookingIDs(ctx context.Context, bookingIDs []int64) (map[int64]models.Payment, error) {
	payments := make(map[int64]models.Payment, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return payments, nil
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT ON (booking_id) %s
		FROM payments
		WHERE booking_id = ANY($1)
		ORDER BY booking_id, id DESC
	`, paymentColumns)

	rows, err := r.db.Query(ctx, query, bookingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var payment models.Payment
		if err := r.scanRow(rows, &payment); err != nil {
			return nil, err
		}
		payments[payment.BookingID] = payment
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

// Complete marks a pending payment completed. processed_at is stamped on
// the first completion only and survives any later edit.
func (r *PaymentRepository) Complete(ctx context.Context, paymentID int64, method, externalRef *string) (*models.Payment, error) {
	query := fmt.Sprintf(`
		UPDATE payments
		SET status = 'completed',
			processed_at = COALESCE(processed_at, NOW()),
			payment_method = COALESCE($2, payment_method),
			external_ref = COALESCE($3, external_ref)
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, paymentColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, paymentID, method, externalRef))
}

func (r *PaymentRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	paymentID int64,
	currentStatus string,
	nextStatus string,
) (*models.Payment, error) {
	query := fmt.Sprintf(`
		UPDATE payments
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, paymentColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, paymentID, currentStatus, nextStatus))
}

// UpdateAmount rewrites the amount together with its derived fields.
// Completed payments are immutable; the WHERE clause makes an edit on one
// report pgx.ErrNoRows instead of silently shifting a settled fee basis.
func (r *PaymentRepository) UpdateAmount(
	ctx context.Context,
	paymentID int64,
	amountCents, platformFeeCents, coachEarningsCents int64,
) (*models.Payment, error) {
	query := fmt.Sprintf(`
		UPDATE payments
		SET amount_cents = $2,
			platform_fee_cents = $3,
			coach_earnings_cents = $4
		WHERE id = $1 AND status <> 'completed' AND status <> 'refunded'
		RETURNING %s
	`, paymentColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, paymentID, amountCents, platformFeeCents, coachEarningsCents))
}

func (r *PaymentRepository) scanOne(row interface{ Scan(dest ...any) error }) (*models.Payment, error) {
	var payment models.Payment
	if err := r.scanRow(row, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) scanRow(row interface{ Scan(dest ...any) error }, payment *models.Payment) error {
	return row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.UserID,
		&payment.CoachID,
		&payment.AmountCents,
		&payment.PlatformFeeCents,
		&payment.CoachEarningsCents,
		&payment.Status,
		&payment.PaymentMethod,
		&payment.ExternalRef,
		&payment.ProcessedAt,
		&payment.CreatedAt,
	)
}
