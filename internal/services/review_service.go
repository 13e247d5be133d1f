package services

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/careerlift/CareerLiftBack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrReviewNotAllowed = errors.New("no completed session with this coach")

type ReviewService struct {
	db          *pgxpool.Pool
	reviewRepo  *repository.ReviewRepository
	bookingRepo *repository.BookingRepository
	userRepo    userReader
	coachRepo   coachProfileReader
}

func NewReviewService(
	db *pgxpool.Pool,
	reviewRepo *repository.ReviewRepository,
	bookingRepo *repository.BookingRepository,
	userRepo userReader,
	coachRepo coachProfileReader,
) *ReviewService {
	return &ReviewService{
		db:          db,
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		coachRepo:   coachRepo,
	}
}

type CreateReviewInput struct {
	CoachID     int64
	Rating      int
	Comment     string
	SessionDate time.Time
}

// CreateReview records feedback for a coach. The review is verified when a
// completed session between the pair backs it; without one the review is
// refused. The coach's aggregate rating is refreshed in the same
// transaction as the insert.
func (s *ReviewService) CreateReview(
	ctx context.Context,
	userID int64,
	input CreateReviewInput,
) (*models.Review, error) {
	if input.CoachID <= 0 || input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(input.Comment) > 1000 {
		return nil, ErrInvalidInput
	}

	if _, err := s.coachRepo.GetByUserID(ctx, input.CoachID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}

	completed, err := s.bookingRepo.HasCompletedBookingWith(ctx, userID, input.CoachID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, ErrReviewNotAllowed
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txReviewRepo := repository.NewReviewRepository(tx)
	txCoachRepo := repository.NewCoachRepository(tx)

	review, err := txReviewRepo.Create(ctx, repository.CreateReviewInput{
		CoachID:     input.CoachID,
		UserID:      userID,
		UserName:    user.Name,
		Rating:      input.Rating,
		Comment:     input.Comment,
		SessionDate: input.SessionDate,
		IsVerified:  true,
	})
	if err != nil {
		return nil, err
	}

	if err := txCoachRepo.RefreshRating(ctx, input.CoachID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListByCoach(ctx context.Context, coachID int64, offset, limit int) ([]models.Review, int, error) {
	return s.reviewRepo.ListByCoach(ctx, coachID, offset, limit)
}
