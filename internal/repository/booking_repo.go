package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

const bookingColumns = `id, user_id, coach_id, scheduled_at, duration_minutes, status,
	total_amount_cents, video_link, notes, created_at, updated_at`

type CreateBookingInput struct {
	UserID           int64
	CoachID          int64
	ScheduledAt      time.Time
	DurationMinutes  int
	TotalAmountCents int64
	Notes            *string
}

type BookingListFilter struct {
	ActorID   int64
	Role      string
	Status    string
	Timeframe string
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	query := fmt.Sprintf(`
		INSERT INTO bookings (user_id, coach_id, scheduled_at, duration_minutes, status, total_amount_cents, notes)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6)
		RETURNING %s
	`, bookingColumns)
	return r.scanOne(r.db.QueryRow(ctx, query,
		input.UserID,
		input.CoachID,
		input.ScheduledAt,
		input.DurationMinutes,
		input.TotalAmountCents,
		input.Notes,
	))
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE id = $1
	`, bookingColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, bookingID))
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`, bookingColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, bookingID))
}

func (r *BookingRepository) List(ctx context.Context, filter BookingListFilter) ([]models.Booking, error) {
	actorColumn := "user_id"
	if filter.Role == models.RoleCoach {
		actorColumn = "coach_id"
	}

	args := []any{filter.ActorID}
	whereParts := []string{fmt.Sprintf("%s = $1", actorColumn)}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	switch strings.TrimSpace(filter.Timeframe) {
	case "upcoming":
		whereParts = append(
			whereParts,
			"(scheduled_at + (duration_minutes * INTERVAL '1 minute')) > NOW()",
		)
	case "past":
		whereParts = append(
			whereParts,
			"(scheduled_at + (duration_minutes * INTERVAL '1 minute')) <= NOW()",
		)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE %s
		ORDER BY scheduled_at ASC, id ASC
	`, bookingColumns, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		if err := r.scanRow(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListUpcomingForUser returns the caller's next pending/confirmed sessions
// with the coach reference expanded. The INNER JOIN drops bookings whose
// coach profile is gone instead of surfacing them half-populated.
func (r *BookingRepository) ListUpcomingForUser(ctx context.Context, userID int64, limit int) ([]models.UpcomingBooking, error) {
	query := `
		SELECT b.id, b.user_id, b.coach_id, b.scheduled_at, b.duration_minutes, b.status,
			   b.total_amount_cents, b.video_link, b.notes, b.created_at, b.updated_at,
			   cp.user_id, COALESCE(cp.full_name, ''), COALESCE(cp.image_url, '')
		FROM bookings b
		JOIN coach_profiles cp ON cp.user_id = b.coach_id
		WHERE b.user_id = $1
		  AND b.status IN ('pending', 'confirmed')
		  AND b.scheduled_at >= NOW()
		ORDER BY b.scheduled_at ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.UpcomingBooking, 0)
	for rows.Next() {
		var item models.UpcomingBooking
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.CoachID,
			&item.ScheduledAt,
			&item.DurationMinutes,
			&item.Status,
			&item.TotalAmountCents,
			&item.VideoLink,
			&item.Notes,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Coach.ID,
			&item.Coach.Name,
			&item.Coach.ImageURL,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) CountCompletedForUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND status = 'completed'`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	bookingID int64,
	currentStatus string,
	nextStatus string,
) (*models.Booking, error) {
	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, bookingColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, bookingID, currentStatus, nextStatus))
}

func (r *BookingRepository) SetVideoLink(ctx context.Context, bookingID int64, videoLink string) error {
	query := `UPDATE bookings SET video_link = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, bookingID, videoLink)
	return err
}

func (r *BookingRepository) HasConflict(
	ctx context.Context,
	coachID int64,
	requestedTime time.Time,
	durationMinutes int,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE coach_id = $1
			  AND status <> 'cancelled'
			  AND scheduled_at < ($2::timestamptz + ($3::int * INTERVAL '1 minute'))
			  AND (scheduled_at + (duration_minutes * INTERVAL '1 minute')) > $2::timestamptz
		)
	`
	var hasConflict bool
	if err := r.db.QueryRow(ctx, query, coachID, requestedTime, durationMinutes).Scan(&hasConflict); err != nil {
		return false, err
	}
	return hasConflict, nil
}

func (r *BookingRepository) HasCompletedBookingWith(ctx context.Context, userID, coachID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND coach_id = $2 AND status = 'completed'
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, coachID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BookingRepository) scanOne(row interface{ Scan(dest ...any) error }) (*models.Booking, error) {
	var booking models.Booking
	if err := r.scanRow(row, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) scanRow(row interface{ Scan(dest ...any) error }, booking *models.Booking) error {
	return row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CoachID,
		&booking.ScheduledAt,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.TotalAmountCents,
		&booking.VideoLink,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
}
