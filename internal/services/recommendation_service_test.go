package services

import (
	"context"
	"testing"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

type stubCoachLister struct {
	coaches []models.CoachProfile
}

func (s *stubCoachLister) ListAll(_ context.Context) ([]models.CoachProfile, error) {
	return s.coaches, nil
}

func coachWith(userID int64, expertise []string, rating float64, years int, certs []string) models.CoachProfile {
	return models.CoachProfile{
		UserID:          userID,
		Expertise:       &expertise,
		Rating:          &rating,
		ExperienceYears: &years,
		Certifications:  &certs,
	}
}

func TestGetRecommendedCoachesOrdersByScore(t *testing.T) {
	lister := &stubCoachLister{coaches: []models.CoachProfile{
		coachWith(1, []string{"leadership"}, 3.5, 2, nil),
		coachWith(2, []string{"interview_prep", "leadership"}, 4.8, 10, []string{"ICF PCC"}),
		coachWith(3, []string{"resume_review"}, 4.9, 5, nil),
	}}
	svc := NewRecommendationService(lister)

	matched, err := svc.GetRecommendedCoaches(context.Background(), []string{"interview", "leadership"}, 10)
	if err != nil {
		t.Fatalf("GetRecommendedCoaches: %v", err)
	}
	if len(matched) != 3 {
		t.Fatalf("expected 3 coaches, got %d", len(matched))
	}

	// Coach 2 matches both interests plus rating, experience and
	// certification bonuses: 40+40+20+15+10.
	if matched[0].UserID != 2 || matched[0].MatchScore != 125 {
		t.Fatalf("unexpected top match: id=%d score=%d", matched[0].UserID, matched[0].MatchScore)
	}
	// Coach 1 matches leadership only: 40.
	if matched[1].UserID != 1 || matched[1].MatchScore != 40 {
		t.Fatalf("unexpected second match: id=%d score=%d", matched[1].UserID, matched[1].MatchScore)
	}
	// Coach 3 matches no interest; rating, experience bonuses only.
	if matched[2].UserID != 3 || matched[2].MatchScore != 35 {
		t.Fatalf("unexpected third match: id=%d score=%d", matched[2].UserID, matched[2].MatchScore)
	}
}

func TestGetRecommendedCoachesAliasesInterests(t *testing.T) {
	lister := &stubCoachLister{coaches: []models.CoachProfile{
		coachWith(1, []string{"cv_review"}, 0, 0, nil),
		coachWith(2, []string{"mock_interviews"}, 0, 0, nil),
	}}
	svc := NewRecommendationService(lister)

	matched, err := svc.GetRecommendedCoaches(context.Background(), []string{"cv", "interview"}, 10)
	if err != nil {
		t.Fatalf("GetRecommendedCoaches: %v", err)
	}
	for _, m := range matched {
		if m.MatchScore != 40 {
			t.Fatalf("coach %d: alias did not match, score %d", m.UserID, m.MatchScore)
		}
	}
}

func TestGetRecommendedCoachesNoInterestsFallsBackToRating(t *testing.T) {
	lister := &stubCoachLister{coaches: []models.CoachProfile{
		coachWith(1, nil, 3.0, 0, nil),
		coachWith(2, nil, 4.9, 0, nil),
	}}
	svc := NewRecommendationService(lister)

	matched, err := svc.GetRecommendedCoaches(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("GetRecommendedCoaches: %v", err)
	}
	// Same match score; coach 2 gets the rating bonus and sorts first.
	if matched[0].UserID != 2 {
		t.Fatalf("expected coach 2 first, got %d", matched[0].UserID)
	}
}

func TestGetRecommendedCoachesAppliesLimit(t *testing.T) {
	lister := &stubCoachLister{coaches: []models.CoachProfile{
		coachWith(1, nil, 1, 0, nil),
		coachWith(2, nil, 2, 0, nil),
		coachWith(3, nil, 3, 0, nil),
	}}
	svc := NewRecommendationService(lister)

	matched, err := svc.GetRecommendedCoaches(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("GetRecommendedCoaches: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 coaches, got %d", len(matched))
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Interview Prep": "interview_prep",
		" career-change": "career_change",
		"LEADERSHIP":     "leadership",
		"":               "",
	}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Fatalf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
