package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/careerlift/CareerLiftBack/internal/mail"
	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/careerlift/CareerLiftBack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidDuration        = errors.New("duration must be 30 or 60 minutes")
	ErrCoachNotFound          = errors.New("coach not found")
)

type coachProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type BookingService struct {
	db          *pgxpool.Pool
	bookingRepo *repository.BookingRepository
	paymentRepo *repository.PaymentRepository
	userRepo    userReader
	coachRepo   coachProfileReader
	mailer      mail.Mailer
}

func NewBookingService(
	db *pgxpool.Pool,
	bookingRepo *repository.BookingRepository,
	paymentRepo *repository.PaymentRepository,
	userRepo userReader,
	coachRepo coachProfileReader,
	mailer mail.Mailer,
) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		coachRepo:   coachRepo,
		mailer:      mailer,
	}
}

type CreateBookingInput struct {
	CoachID         int64
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           *string
}

func validDuration(minutes int) bool {
	for _, allowed := range models.AllowedDurations {
		if minutes == allowed {
			return true
		}
	}
	return false
}

func (s *BookingService) CreateBooking(
	ctx context.Context,
	userID int64,
	input CreateBookingInput,
) (*models.BookingDetail, error) {
	if input.CoachID <= 0 {
		return nil, ErrInvalidInput
	}
	if !validDuration(input.DurationMinutes) {
		return nil, ErrInvalidDuration
	}
	if input.ScheduledAt.Before(time.Now().Add(-1 * time.Minute)) {
		return nil, ErrInvalidInput
	}
	if userID == input.CoachID {
		return nil, ErrInvalidInput
	}
	if input.Notes != nil && utf8.RuneCountInString(*input.Notes) > 500 {
		return nil, ErrInvalidInput
	}

	coach, err := s.userRepo.GetByID(ctx, input.CoachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if coach.Role != models.RoleCoach || !coach.IsActive {
		return nil, ErrInvalidInput
	}

	coachProfile, err := s.coachRepo.GetByUserID(ctx, input.CoachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if coachProfile.HourlyRateCents == nil || *coachProfile.HourlyRateCents <= 0 {
		return nil, ErrInvalidInput
	}

	amount := SessionAmountCents(*coachProfile.HourlyRateCents, input.DurationMinutes)
	split := DerivePayment(amount)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBookingRepo := repository.NewBookingRepository(tx)
	txPaymentRepo := repository.NewPaymentRepository(tx)

	// Serialize bookings per coach so two clients cannot take the same slot.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", input.CoachID); err != nil {
		return nil, err
	}

	hasConflict, err := txBookingRepo.HasConflict(
		ctx,
		input.CoachID,
		input.ScheduledAt.UTC(),
		input.DurationMinutes,
	)
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, ErrConflict
	}

	booking, err := txBookingRepo.Create(ctx, repository.CreateBookingInput{
		UserID:           userID,
		CoachID:          input.CoachID,
		ScheduledAt:      input.ScheduledAt.UTC(),
		DurationMinutes:  input.DurationMinutes,
		TotalAmountCents: amount,
		Notes:            input.Notes,
	})
	if err != nil {
		return nil, err
	}

	payment, err := txPaymentRepo.Create(ctx, repository.CreatePaymentInput{
		BookingID:          booking.ID,
		UserID:             userID,
		CoachID:            input.CoachID,
		AmountCents:        split.AmountCents,
		PlatformFeeCents:   split.PlatformFeeCents,
		CoachEarningsCents: split.CoachEarningsCents,
		Status:             models.PaymentStatusPending,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.BookingDetail{
		Booking: *booking,
		Payment: payment,
	}, nil
}

func (s *BookingService) ListBookings(
	ctx context.Context,
	actorID int64,
	role string,
	filter repository.BookingListFilter,
) ([]models.BookingDetail, error) {
	bookings, err := s.bookingRepo.List(ctx, repository.BookingListFilter{
		ActorID:   actorID,
		Role:      role,
		Status:    filter.Status,
		Timeframe: filter.Timeframe,
	})
	if err != nil {
		return nil, err
	}

	bookingIDs := make([]int64, 0, len(bookings))
	for _, booking := range bookings {
		bookingIDs = append(bookingIDs, booking.ID)
	}

	paymentsByBooking, err := s.paymentRepo.ListByBookingIDs(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.BookingDetail, 0, len(bookings))
	for _, booking := range bookings {
		detail := models.BookingDetail{Booking: booking}
		if payment, ok := paymentsByBooking[booking.ID]; ok {
			paymentCopy := payment
			detail.Payment = &paymentCopy
		}
		details = append(details, detail)
	}

	return details, nil
}

// UpcomingForUser feeds the client dashboard: the next sessions plus the
// caller's completed-session count.
func (s *BookingService) UpcomingForUser(
	ctx context.Context,
	userID int64,
) ([]models.UpcomingBooking, int, error) {
	bookings, err := s.bookingRepo.ListUpcomingForUser(ctx, userID, 10)
	if err != nil {
		return nil, 0, err
	}
	completed, err := s.bookingRepo.CountCompletedForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return bookings, completed, nil
}

func (s *BookingService) GetBooking(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
) (*models.BookingDetail, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canAccessBooking(role, actorID, booking) {
		return nil, ErrForbidden
	}

	detail := &models.BookingDetail{Booking: *booking}
	payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		detail.Payment = payment
	}
	return detail, nil
}

func (s *BookingService) UpdateStatus(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
	requestedStatus string,
) (*models.BookingDetail, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canAccessBooking(role, actorID, booking) {
		return nil, ErrForbidden
	}

	nextStatus, err := normalizeRequestedStatus(requestedStatus)
	if err != nil {
		return nil, err
	}
	if err := validateStatusTransition(role, actorID, booking, nextStatus, time.Now().UTC()); err != nil {
		return nil, err
	}
	if nextStatus == models.BookingStatusConfirmed {
		payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrInvalidStateTransition
			}
			return nil, err
		}
		if payment.Status != models.PaymentStatusCompleted {
			return nil, ErrInvalidStateTransition
		}
	}

	updated, err := s.bookingRepo.UpdateStatusIfCurrent(ctx, bookingID, booking.Status, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return s.GetBooking(ctx, actorID, role, updated.ID)
}

// Pay settles the pending payment for a booking and confirms it. Completing
// the payment stamps processed_at exactly once; paying an already-paid
// booking is a no-op that returns the current state.
func (s *BookingService) Pay(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
	method *string,
) (*models.BookingDetail, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBookingRepo := repository.NewBookingRepository(tx)
	txPaymentRepo := repository.NewPaymentRepository(tx)

	booking, err := txBookingRepo.GetByIDForUpdate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleClient || booking.UserID != actorID {
		return nil, ErrForbidden
	}
	payment, err := txPaymentRepo.GetByBookingIDForUpdate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusCompleted {
		return s.GetBooking(ctx, actorID, role, bookingID)
	}
	if booking.Status != models.BookingStatusPending {
		return nil, ErrInvalidStateTransition
	}
	if !booking.ScheduledAt.After(time.Now().UTC()) {
		return nil, ErrInvalidStateTransition
	}

	if _, err := txPaymentRepo.Complete(ctx, payment.ID, method, nil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	if _, err := txBookingRepo.UpdateStatusIfCurrent(
		ctx, bookingID, models.BookingStatusPending, models.BookingStatusConfirmed,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	videoLink := fmt.Sprintf("https://meet.careerlift.io/session-%d", bookingID)
	if err := txBookingRepo.SetVideoLink(ctx, bookingID, videoLink); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, actorID, booking)

	return s.GetBooking(ctx, actorID, role, bookingID)
}

// RefundPayment moves a settled payment to refunded. Admin only;
// processed_at is left untouched.
func (s *BookingService) RefundPayment(
	ctx context.Context,
	role string,
	bookingID int64,
) (*models.Payment, error) {
	if role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	refunded, err := s.paymentRepo.UpdateStatusIfCurrent(
		ctx, payment.ID, models.PaymentStatusCompleted, models.PaymentStatusRefunded,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return refunded, nil
}

// UpdatePaymentAmount rewrites a pending payment's amount; the fee split is
// re-derived in the same write so the stored fields can never drift from
// the amount. Settled payments are refused.
func (s *BookingService) UpdatePaymentAmount(
	ctx context.Context,
	role string,
	bookingID int64,
	amountCents int64,
) (*models.Payment, error) {
	if role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if amountCents < 0 {
		return nil, ErrInvalidInput
	}
	payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	split := DerivePayment(amountCents)
	updated, err := s.paymentRepo.UpdateAmount(
		ctx, payment.ID, split.AmountCents, split.PlatformFeeCents, split.CoachEarningsCents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

func (s *BookingService) sendConfirmation(ctx context.Context, userID int64, booking *models.Booking) {
	if s.mailer == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("booking confirmation: lookup user %d: %v", userID, err)
		return
	}
	coachName := ""
	if profile, err := s.coachRepo.GetByUserID(ctx, booking.CoachID); err == nil && profile.FullName != nil {
		coachName = *profile.FullName
	}
	if err := s.mailer.SendBookingConfirmation(ctx, user.Email, coachName, booking.ScheduledAt); err != nil {
		log.Printf("booking confirmation: send to %s: %v", user.Email, err)
	}
}

func canAccessBooking(role string, actorID int64, booking *models.Booking) bool {
	switch role {
	case models.RoleClient:
		return booking.UserID == actorID
	case models.RoleCoach:
		return booking.CoachID == actorID
	case models.RoleAdmin:
		return true
	}
	return false
}

func normalizeRequestedStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "confirm", "confirmed":
		return models.BookingStatusConfirmed, nil
	case "complete", "completed":
		return models.BookingStatusCompleted, nil
	case "cancel", "cancelled", "canceled":
		return models.BookingStatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

func validateStatusTransition(
	role string,
	actorID int64,
	booking *models.Booking,
	nextStatus string,
	now time.Time,
) error {
	switch role {
	case models.RoleClient:
		if booking.UserID != actorID || nextStatus != models.BookingStatusCancelled {
			return ErrForbidden
		}
		if booking.Status == models.BookingStatusCompleted || booking.Status == models.BookingStatusCancelled {
			return ErrInvalidStateTransition
		}
		return nil
	case models.RoleCoach, models.RoleAdmin:
		if role == models.RoleCoach && booking.CoachID != actorID {
			return ErrForbidden
		}
		switch nextStatus {
		case models.BookingStatusConfirmed:
			if booking.Status != models.BookingStatusPending {
				return ErrInvalidStateTransition
			}
		case models.BookingStatusCompleted:
			if booking.Status != models.BookingStatusConfirmed {
				return ErrInvalidStateTransition
			}
			sessionEnd := booking.ScheduledAt.UTC().Add(time.Duration(booking.DurationMinutes) * time.Minute)
			if sessionEnd.After(now) {
				return ErrInvalidStateTransition
			}
		case models.BookingStatusCancelled:
			if booking.Status == models.BookingStatusCompleted || booking.Status == models.BookingStatusCancelled {
				return ErrInvalidStateTransition
			}
		default:
			return ErrInvalidStatus
		}
		return nil
	default:
		return ErrForbidden
	}
}
