package repository

import (
	"context"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

type CreateReviewInput struct {
	CoachID     int64
	UserID      int64
	UserName    string
	AvatarURL   *string
	Rating      int
	Comment     string
	SessionDate time.Time
	IsVerified  bool
}

type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, input CreateReviewInput) (*models.Review, error) {
	query := `
		INSERT INTO reviews (coach_id, user_id, user_name, avatar_url, rating, comment, session_date, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, coach_id, user_id, user_name, avatar_url, rating, comment, session_date, is_verified, created_at
	`
	var review models.Review
	err := r.db.QueryRow(ctx, query,
		input.CoachID,
		input.UserID,
		input.UserName,
		input.AvatarURL,
		input.Rating,
		input.Comment,
		input.SessionDate,
		input.IsVerified,
	).Scan(
		&review.ID,
		&review.CoachID,
		&review.UserID,
		&review.UserName,
		&review.AvatarURL,
		&review.Rating,
		&review.Comment,
		&review.SessionDate,
		&review.IsVerified,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ListByCoach(ctx context.Context, coachID int64, offset, limit int) ([]models.Review, int, error) {
	query := `
		SELECT id, coach_id, user_id, user_name, avatar_url, rating, comment, session_date, is_verified, created_at,
			   COUNT(*) OVER() AS total
		FROM reviews
		WHERE coach_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, coachID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	total := 0
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID,
			&review.CoachID,
			&review.UserID,
			&review.UserName,
			&review.AvatarURL,
			&review.Rating,
			&review.Comment,
			&review.SessionDate,
			&review.IsVerified,
			&review.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}
