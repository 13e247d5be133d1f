package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/careerlift/CareerLiftBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type stubCoachDirectoryRepo struct {
	coaches    []models.CoachProfile
	total      int
	listFilter repository.CoachListFilter
	listErr    error

	detailCoach *models.CoachProfile
	detailErr   error
	slots       []time.Time

	topRated []models.CoachProfile
}

func (s *stubCoachDirectoryRepo) List(_ context.Context, filter repository.CoachListFilter) ([]models.CoachProfile, int, error) {
	s.listFilter = filter
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.coaches, s.total, nil
}

func (s *stubCoachDirectoryRepo) GetByUserID(_ context.Context, _ int64) (*models.CoachProfile, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.detailCoach, nil
}

func (s *stubCoachDirectoryRepo) ListTopRated(_ context.Context, _ int) ([]models.CoachProfile, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.topRated, nil
}

func (s *stubCoachDirectoryRepo) GetAvailableSlots(_ context.Context, _ int64, _ int) ([]time.Time, error) {
	return s.slots, nil
}

func (s *stubCoachDirectoryRepo) UpdatePartial(_ context.Context, _ int64, _ repository.UpdateCoachProfileInput) (*models.CoachProfile, error) {
	return s.detailCoach, nil
}

func (s *stubCoachDirectoryRepo) UpdateImage(_ context.Context, _ int64, _ string) error {
	return nil
}

type stubRecommender struct {
	coaches   []models.CoachWithScore
	interests []string
	limit     int
}

func (s *stubRecommender) GetRecommendedCoaches(_ context.Context, interests []string, limit int) ([]models.CoachWithScore, error) {
	s.interests = interests
	s.limit = limit
	return s.coaches, nil
}

func sampleCoach(userID int64) models.CoachProfile {
	fullName := "Coach Dana"
	expertise := []string{"interview_prep"}
	rating := 4.7
	experience := 6
	rate := int64(12000)
	return models.CoachProfile{
		UserID:          userID,
		FullName:        &fullName,
		Expertise:       &expertise,
		Rating:          &rating,
		ExperienceYears: &experience,
		HourlyRateCents: &rate,
		TotalReviews:    12,
	}
}

func TestListCoachesAppliesFiltersAndPagination(t *testing.T) {
	repo := &stubCoachDirectoryRepo{
		coaches: []models.CoachProfile{sampleCoach(91)},
		total:   11,
	}
	handler := NewCoachHandler(repo, &stubRecommender{}, nil, nil)

	app := fiber.New()
	app.Get("/api/coaches", handler.ListCoaches)

	req := httptest.NewRequest(http.MethodGet,
		"/api/coaches?expertise=interview_prep&min_price=50&max_price=200&min_rating=4.5&page=2&limit=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Coaches    []models.CoachListResponse `json:"coaches"`
		Pagination models.PaginationMeta      `json:"pagination"`
		Degraded   bool                       `json:"degraded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if repo.listFilter.Expertise != "interview_prep" {
		t.Fatalf("expertise filter not applied: %+v", repo.listFilter)
	}
	if repo.listFilter.MinPriceCents == nil || *repo.listFilter.MinPriceCents != 5000 {
		t.Fatalf("min_price not converted to cents: %+v", repo.listFilter.MinPriceCents)
	}
	if repo.listFilter.MaxPriceCents == nil || *repo.listFilter.MaxPriceCents != 20000 {
		t.Fatalf("max_price not converted to cents: %+v", repo.listFilter.MaxPriceCents)
	}
	if repo.listFilter.MinRating == nil || *repo.listFilter.MinRating != 4.5 {
		t.Fatalf("min_rating not applied: %+v", repo.listFilter.MinRating)
	}
	if repo.listFilter.Offset != 5 || repo.listFilter.Limit != 5 {
		t.Fatalf("pagination not applied: %+v", repo.listFilter)
	}
	if body.Degraded {
		t.Fatal("healthy listing must not be degraded")
	}
	if len(body.Coaches) != 1 || body.Coaches[0].ID != "91" {
		t.Fatalf("unexpected coaches: %+v", body.Coaches)
	}
	if body.Coaches[0].HourlyRateCents != 12000 || body.Coaches[0].TotalReviews != 12 {
		t.Fatalf("coach fields not mapped: %+v", body.Coaches[0])
	}
	if body.Pagination.TotalCoaches != 11 || body.Pagination.TotalPages != 3 || body.Pagination.CurrentPage != 2 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
	if !body.Pagination.HasNextPage || !body.Pagination.HasPrevPage {
		t.Fatalf("unexpected pagination flags: %+v", body.Pagination)
	}
}

func TestListCoachesRejectsBadPriceFilter(t *testing.T) {
	handler := NewCoachHandler(&stubCoachDirectoryRepo{}, &stubRecommender{}, nil, nil)

	app := fiber.New()
	app.Get("/api/coaches", handler.ListCoaches)

	req := httptest.NewRequest(http.MethodGet, "/api/coaches?min_price=abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListCoachesDegradesOnStoreFailure(t *testing.T) {
	repo := &stubCoachDirectoryRepo{listErr: errors.New("connection refused")}
	handler := NewCoachHandler(repo, &stubRecommender{}, nil, nil)

	app := fiber.New()
	app.Get("/api/coaches", handler.ListCoaches)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/coaches", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("degraded listing must still be 200, got %d", resp.StatusCode)
	}

	var body struct {
		Coaches  []models.CoachListResponse `json:"coaches"`
		Degraded bool                       `json:"degraded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !body.Degraded {
		t.Fatal("degraded flag missing")
	}
	if len(body.Coaches) == 0 {
		t.Fatal("fallback list must not be empty")
	}
}

func TestGetCoachDetailNotFound(t *testing.T) {
	repo := &stubCoachDirectoryRepo{detailErr: pgx.ErrNoRows}
	handler := NewCoachHandler(repo, &stubRecommender{}, nil, nil)

	app := fiber.New()
	app.Get("/api/coaches/:id", handler.GetCoachDetail)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/coaches/42", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetCoachDetailIncludesSlots(t *testing.T) {
	coach := sampleCoach(7)
	slot := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	repo := &stubCoachDirectoryRepo{detailCoach: &coach, slots: []time.Time{slot}}
	handler := NewCoachHandler(repo, &stubRecommender{}, nil, nil)

	app := fiber.New()
	app.Get("/api/coaches/:id", handler.GetCoachDetail)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/coaches/7", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Coach models.CoachDetailResponse `json:"coach"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Coach.ID != "7" {
		t.Fatalf("unexpected coach: %+v", body.Coach)
	}
	if len(body.Coach.AvailableSlots) != 1 || body.Coach.AvailableSlots[0] != "2026-09-01T10:00:00Z" {
		t.Fatalf("unexpected slots: %v", body.Coach.AvailableSlots)
	}
}

func TestGetRecommendedCoachesParsesInterests(t *testing.T) {
	recommender := &stubRecommender{coaches: []models.CoachWithScore{
		{CoachProfile: sampleCoach(3), MatchScore: 80},
	}}
	handler := NewCoachHandler(&stubCoachDirectoryRepo{}, recommender, nil, nil)

	app := fiber.New()
	app.Get("/api/coaches/recommended", func(c *fiber.Ctx) error {
		c.Locals("user_id", "5")
		c.Locals("role", "client")
		return c.Next()
	}, handler.GetRecommendedCoaches)

	req := httptest.NewRequest(http.MethodGet,
		"/api/coaches/recommended?interests=interview,%20leadership,&limit=3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if len(recommender.interests) != 2 ||
		recommender.interests[0] != "interview" || recommender.interests[1] != "leadership" {
		t.Fatalf("interests not parsed: %v", recommender.interests)
	}
	if recommender.limit != 3 {
		t.Fatalf("limit not applied: %d", recommender.limit)
	}

	var body struct {
		Coaches []models.CoachListResponse `json:"coaches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Coaches) != 1 || body.Coaches[0].MatchScore != 80 {
		t.Fatalf("unexpected recommendations: %+v", body.Coaches)
	}
}
