package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type stubNewsletterRepo struct {
	byEmail map[string]*models.NewsletterSubscriber

	created   *models.NewsletterSubscriber
	rotated   string
	deletedID int64
}

func newStubNewsletterRepo() *stubNewsletterRepo {
	return &stubNewsletterRepo{byEmail: map[string]*models.NewsletterSubscriber{}}
}

func (s *stubNewsletterRepo) GetByEmail(_ context.Context, email string) (*models.NewsletterSubscriber, error) {
	if sub, ok := s.byEmail[email]; ok {
		return sub, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubNewsletterRepo) Create(_ context.Context, email, token string, firstName, lastName *string) (*models.NewsletterSubscriber, error) {
	sub := &models.NewsletterSubscriber{
		ID:                int64(len(s.byEmail) + 1),
		Email:             email,
		FirstName:         firstName,
		LastName:          lastName,
		VerificationToken: &token,
	}
	s.byEmail[email] = sub
	s.created = sub
	return sub, nil
}

func (s *stubNewsletterRepo) RotateToken(_ context.Context, email, token string, firstName, lastName *string) (*models.NewsletterSubscriber, error) {
	sub, ok := s.byEmail[email]
	if !ok || sub.IsVerified {
		return nil, pgx.ErrNoRows
	}
	sub.VerificationToken = &token
	s.rotated = token
	return sub, nil
}

func (s *stubNewsletterRepo) Verify(_ context.Context, token string) (*models.NewsletterSubscriber, error) {
	for _, sub := range s.byEmail {
		if sub.VerificationToken != nil && *sub.VerificationToken == token && !sub.IsVerified {
			now := time.Now()
			sub.IsVerified = true
			sub.IsActive = true
			sub.VerifiedAt = &now
			sub.SubscribedAt = &now
			sub.VerificationToken = nil
			return sub, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubNewsletterRepo) DeleteByID(_ context.Context, id int64) error {
	s.deletedID = id
	for email, sub := range s.byEmail {
		if sub.ID == id {
			delete(s.byEmail, email)
		}
	}
	return nil
}

type stubMailer struct {
	verificationErr error
	sentTo          []string
	lastVerifyURL   string
}

func (s *stubMailer) SendNewsletterVerification(_ context.Context, to, verifyURL string) error {
	if s.verificationErr != nil {
		return s.verificationErr
	}
	s.sentTo = append(s.sentTo, to)
	s.lastVerifyURL = verifyURL
	return nil
}

func (s *stubMailer) SendBookingConfirmation(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}

func TestSubscribeNewAddress(t *testing.T) {
	repo := newStubNewsletterRepo()
	mailer := &stubMailer{}
	svc := NewNewsletterService(repo, mailer, "https://careerlift.io")

	sub, resent, err := svc.Subscribe(context.Background(), "new@example.com", nil, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if resent {
		t.Fatal("first subscribe should not report resent")
	}
	if sub.IsVerified {
		t.Fatal("new subscriber must start unverified")
	}
	if len(mailer.sentTo) != 1 || mailer.sentTo[0] != "new@example.com" {
		t.Fatalf("expected one verification mail, got %v", mailer.sentTo)
	}
	if mailer.lastVerifyURL == "" || repo.created.VerificationToken == nil {
		t.Fatal("verification token missing")
	}
}

func TestSubscribeUnverifiedRotatesAndResends(t *testing.T) {
	repo := newStubNewsletterRepo()
	mailer := &stubMailer{}
	svc := NewNewsletterService(repo, mailer, "https://careerlift.io")

	if _, _, err := svc.Subscribe(context.Background(), "pending@example.com", nil, nil); err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}
	firstToken := *repo.byEmail["pending@example.com"].VerificationToken

	_, resent, err := svc.Subscribe(context.Background(), "pending@example.com", nil, nil)
	if err != nil {
		t.Fatalf("second Subscribe: %v", err)
	}
	if !resent {
		t.Fatal("second subscribe should report resent")
	}
	if repo.rotated == "" || repo.rotated == firstToken {
		t.Fatalf("token was not rotated: %q", repo.rotated)
	}
	if len(mailer.sentTo) != 2 {
		t.Fatalf("expected two dispatches, got %d", len(mailer.sentTo))
	}
}

func TestSubscribeVerifiedIsConflict(t *testing.T) {
	repo := newStubNewsletterRepo()
	repo.byEmail["done@example.com"] = &models.NewsletterSubscriber{
		ID: 1, Email: "done@example.com", IsVerified: true, IsActive: true,
	}
	svc := NewNewsletterService(repo, &stubMailer{}, "https://careerlift.io")

	_, _, err := svc.Subscribe(context.Background(), "done@example.com", nil, nil)
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestSubscribeDispatchFailureDeletesNewRecord(t *testing.T) {
	repo := newStubNewsletterRepo()
	mailer := &stubMailer{verificationErr: errors.New("ses down")}
	svc := NewNewsletterService(repo, mailer, "https://careerlift.io")

	_, _, err := svc.Subscribe(context.Background(), "orphan@example.com", nil, nil)
	if !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("expected ErrDispatchFailed, got %v", err)
	}
	if repo.deletedID == 0 {
		t.Fatal("failed dispatch must delete the new subscriber")
	}
	if _, ok := repo.byEmail["orphan@example.com"]; ok {
		t.Fatal("subscriber should be gone after compensating delete")
	}
}

func TestSubscribeDispatchFailureKeepsRotatedToken(t *testing.T) {
	repo := newStubNewsletterRepo()
	mailer := &stubMailer{}
	svc := NewNewsletterService(repo, mailer, "https://careerlift.io")

	if _, _, err := svc.Subscribe(context.Background(), "retry@example.com", nil, nil); err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}

	mailer.verificationErr = errors.New("ses down")
	_, _, err := svc.Subscribe(context.Background(), "retry@example.com", nil, nil)
	if !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("expected ErrDispatchFailed, got %v", err)
	}
	if _, ok := repo.byEmail["retry@example.com"]; !ok {
		t.Fatal("existing unverified subscriber must survive a failed resend")
	}
	if repo.deletedID != 0 {
		t.Fatal("resend failure must not delete the subscriber")
	}
}

func TestVerifyTokenIsSingleUse(t *testing.T) {
	repo := newStubNewsletterRepo()
	mailer := &stubMailer{}
	svc := NewNewsletterService(repo, mailer, "https://careerlift.io")

	if _, _, err := svc.Subscribe(context.Background(), "verify@example.com", nil, nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	token := *repo.byEmail["verify@example.com"].VerificationToken

	sub, err := svc.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if !sub.IsVerified || !sub.IsActive {
		t.Fatalf("subscriber not flipped: %+v", sub)
	}
	if sub.VerifiedAt == nil || sub.SubscribedAt == nil {
		t.Fatal("verification timestamps missing")
	}

	if _, err := svc.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("replay should report ErrTokenNotFound, got %v", err)
	}
}

func TestVerifyUnknownToken(t *testing.T) {
	svc := NewNewsletterService(newStubNewsletterRepo(), &stubMailer{}, "https://careerlift.io")
	if _, err := svc.VerifyToken(context.Background(), "nope"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}
