package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/careerlift/CareerLiftBack/internal/mail"
	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrAlreadySubscribed = errors.New("email already subscribed")
	ErrTokenNotFound     = errors.New("verification token not found")
	ErrDispatchFailed    = errors.New("verification email could not be sent")
)

type newsletterRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	Create(ctx context.Context, email, token string, firstName, lastName *string) (*models.NewsletterSubscriber, error)
	RotateToken(ctx context.Context, email, token string, firstName, lastName *string) (*models.NewsletterSubscriber, error)
	Verify(ctx context.Context, token string) (*models.NewsletterSubscriber, error)
	DeleteByID(ctx context.Context, id int64) error
}

type NewsletterService struct {
	repo    newsletterRepository
	mailer  mail.Mailer
	baseURL string
}

func NewNewsletterService(repo newsletterRepository, mailer mail.Mailer, baseURL string) *NewsletterService {
	return &NewsletterService{
		repo:    repo,
		mailer:  mailer,
		baseURL: baseURL,
	}
}

// Subscribe runs the double-opt-in entry transition. A new address gets an
// unverified record and one verification dispatch; an unverified address
// gets its token rotated and one more dispatch; a verified address is a
// conflict. The returned bool reports the resend case.
func (s *NewsletterService) Subscribe(
	ctx context.Context,
	email string,
	firstName, lastName *string,
) (*models.NewsletterSubscriber, bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	token := uuid.NewString()

	if existing != nil {
		if existing.IsVerified {
			return nil, false, ErrAlreadySubscribed
		}
		sub, err := s.repo.RotateToken(ctx, email, token, firstName, lastName)
		if err != nil {
			return nil, false, err
		}
		if err := s.mailer.SendNewsletterVerification(ctx, email, s.verifyURL(token)); err != nil {
			// The rotated token stays valid; the caller can retry.
			log.Printf("newsletter: resend verification to %s: %v", email, err)
			return nil, false, ErrDispatchFailed
		}
		return sub, true, nil
	}

	sub, err := s.repo.Create(ctx, email, token, firstName, lastName)
	if err != nil {
		return nil, false, err
	}
	if err := s.mailer.SendNewsletterVerification(ctx, email, s.verifyURL(token)); err != nil {
		// Compensate: an unverified subscriber that will never receive its
		// token is an orphan.
		log.Printf("newsletter: send verification to %s: %v", email, err)
		if delErr := s.repo.DeleteByID(ctx, sub.ID); delErr != nil {
			log.Printf("newsletter: rollback subscriber %d: %v", sub.ID, delErr)
		}
		return nil, false, ErrDispatchFailed
	}
	return sub, false, nil
}

// VerifyToken consumes a verification token. Tokens are single-use; a
// replay finds no unverified record and reports not-found.
func (s *NewsletterService) VerifyToken(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	sub, err := s.repo.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *NewsletterService) verifyURL(token string) string {
	return fmt.Sprintf("%s/api/newsletter/verify?token=%s", s.baseURL, token)
}
