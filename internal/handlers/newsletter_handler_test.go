package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/careerlift/CareerLiftBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type memNewsletterRepo struct {
	byEmail map[string]*models.NewsletterSubscriber
}

func newMemNewsletterRepo() *memNewsletterRepo {
	return &memNewsletterRepo{byEmail: map[string]*models.NewsletterSubscriber{}}
}

func (m *memNewsletterRepo) GetByEmail(_ context.Context, email string) (*models.NewsletterSubscriber, error) {
	if sub, ok := m.byEmail[email]; ok {
		return sub, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memNewsletterRepo) Create(_ context.Context, email, token string, firstName, lastName *string) (*models.NewsletterSubscriber, error) {
	sub := &models.NewsletterSubscriber{
		ID:                int64(len(m.byEmail) + 1),
		Email:             email,
		FirstName:         firstName,
		LastName:          lastName,
		VerificationToken: &token,
	}
	m.byEmail[email] = sub
	return sub, nil
}

func (m *memNewsletterRepo) RotateToken(_ context.Context, email, token string, _, _ *string) (*models.NewsletterSubscriber, error) {
	sub, ok := m.byEmail[email]
	if !ok || sub.IsVerified {
		return nil, pgx.ErrNoRows
	}
	sub.VerificationToken = &token
	return sub, nil
}

func (m *memNewsletterRepo) Verify(_ context.Context, token string) (*models.NewsletterSubscriber, error) {
	for _, sub := range m.byEmail {
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

func (m *memNewsletterRepo) DeleteByID(_ context.Context, id int64) error {
	for email, sub := range m.byEmail {
		if sub.ID == id {
			delete(m.byEmail, email)
		}
	}
	return nil
}

type recordingMailer struct {
	err  error
	sent int
}

func (r *recordingMailer) SendNewsletterVerification(_ context.Context, _, _ string) error {
	if r.err != nil {
		return r.err
	}
	r.sent++
	return nil
}

func (r *recordingMailer) SendBookingConfirmation(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}

func newNewsletterApp(repo *memNewsletterRepo, mailer *recordingMailer) *fiber.App {
	svc := services.NewNewsletterService(repo, mailer, "https://careerlift.io")
	handler := NewNewsletterHandler(svc)

	app := fiber.New()
	newsletter := app.Group("/api/newsletter")
	newsletter.Post("/", handler.Subscribe)
	newsletter.Post("/subscribe", handler.Subscribe)
	newsletter.Get("/verify", handler.Verify)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, payload string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestSubscribeFlow(t *testing.T) {
	repo := newMemNewsletterRepo()
	mailer := &recordingMailer{}
	app := newNewsletterApp(repo, mailer)

	// First subscribe creates an unverified record.
	resp := postJSON(t, app, "/api/newsletter/subscribe", `{"email":"Jane@Example.com"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	sub, ok := repo.byEmail["jane@example.com"]
	if !ok {
		t.Fatal("email was not lowercased before storage")
	}
	if sub.IsVerified {
		t.Fatal("subscriber must start unverified")
	}
	if mailer.sent != 1 {
		t.Fatalf("expected one dispatch, got %d", mailer.sent)
	}

	// Second subscribe rotates the token and reports resent.
	resp2 := postJSON(t, app, "/api/newsletter/subscribe", `{"email":"jane@example.com"}`)
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for resend, got %d", resp2.StatusCode)
	}
	var resendBody struct {
		Resent bool `json:"resent"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&resendBody); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !resendBody.Resent {
		t.Fatal("resend response missing resent flag")
	}

	// Verify consumes the token.
	token := *repo.byEmail["jane@example.com"].VerificationToken
	resp3, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/newsletter/verify?token="+token, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp3.StatusCode)
	}

	// A verified address now conflicts.
	resp4 := postJSON(t, app, "/api/newsletter/subscribe", `{"email":"jane@example.com"}`)
	defer resp4.Body.Close()
	if resp4.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp4.StatusCode)
	}

	// Token replay is gone.
	resp5, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/newsletter/verify?token="+token, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp5.Body.Close()
	if resp5.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on replay, got %d", resp5.StatusCode)
	}
}

func TestSubscribeOnGroupRoot(t *testing.T) {
	repo := newMemNewsletterRepo()
	mailer := &recordingMailer{}
	app := newNewsletterApp(repo, mailer)

	resp := postJSON(t, app, "/api/newsletter", `{"email":"jane@example.com"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if _, ok := repo.byEmail["jane@example.com"]; !ok {
		t.Fatal("subscriber was not stored")
	}
}

func TestSubscribeRejectsBadEmail(t *testing.T) {
	app := newNewsletterApp(newMemNewsletterRepo(), &recordingMailer{})

	resp := postJSON(t, app, "/api/newsletter/subscribe", `{"email":"not-an-email"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSubscribeDispatchFailureIsBadGateway(t *testing.T) {
	repo := newMemNewsletterRepo()
	app := newNewsletterApp(repo, &recordingMailer{err: errors.New("ses down")})

	resp := postJSON(t, app, "/api/newsletter/subscribe", `{"email":"jane@example.com"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if _, ok := repo.byEmail["jane@example.com"]; ok {
		t.Fatal("failed dispatch must roll back the new subscriber")
	}
}

func TestVerifyRequiresToken(t *testing.T) {
	app := newNewsletterApp(newMemNewsletterRepo(), &recordingMailer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/newsletter/verify", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
