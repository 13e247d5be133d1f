package repository

import (
	"context"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

const subscriberColumns = `id, email, first_name, last_name, verification_token,
	is_verified, is_active, subscribed_at, verified_at, created_at`

type NewsletterRepository struct {
	db DBTX
}

func NewNewsletterRepository(db DBTX) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	query := `
		SELECT ` + subscriberColumns + `
		FROM newsletter_subscribers
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *NewsletterRepository) Create(ctx context.Context, email, token string, firstName, lastName *string) (*models.NewsletterSubscriber, error) {
	query := `
		INSERT INTO newsletter_subscribers (email, first_name, last_name, verification_token, is_verified, is_active)
		VALUES ($1, $2, $3, $4, FALSE, FALSE)
		RETURNING ` + subscriberColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, email, firstName, lastName, token))
}

// RotateToken replaces the verification token of an unverified subscriber,
// optionally refreshing the name fields.
func (r *NewsletterRepository) RotateToken(ctx context.Context, email, token string, firstName, lastName *string) (*models.NewsletterSubscriber, error) {
	query := `
		UPDATE newsletter_subscribers
		SET verification_token = $2,
			first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name)
		WHERE email = $1 AND is_verified = FALSE
		RETURNING ` + subscriberColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, email, token, firstName, lastName))
}

// Verify flips the matching unverified record to verified/active, stamps
// both timestamps and clears the token in one statement, so a token replay
// finds no row.
func (r *NewsletterRepository) Verify(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	query := `
		UPDATE newsletter_subscribers
		SET is_verified = TRUE,
			is_active = TRUE,
			verified_at = NOW(),
			subscribed_at = NOW(),
			verification_token = NULL
		WHERE verification_token = $1 AND is_verified = FALSE
		RETURNING ` + subscriberColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, token))
}

func (r *NewsletterRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM newsletter_subscribers WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *NewsletterRepository) scanOne(row interface{ Scan(dest ...any) error }) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	err := row.Scan(
		&sub.ID,
		&sub.Email,
		&sub.FirstName,
		&sub.LastName,
		&sub.VerificationToken,
		&sub.IsVerified,
		&sub.IsActive,
		&sub.SubscribedAt,
		&sub.VerifiedAt,
		&sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
