package services

import (
	"context"
	"sort"
	"strings"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

type coachLister interface {
	ListAll(ctx context.Context) ([]models.CoachProfile, error)
}

type RecommendationService struct {
	coachRepo coachLister
}

func NewRecommendationService(coachRepo coachLister) *RecommendationService {
	return &RecommendationService{coachRepo: coachRepo}
}

// GetRecommendedCoaches scores every coach against the client's stated
// interests and returns the best matches. With no interests the ordering
// falls back to rating.
func (s *RecommendationService) GetRecommendedCoaches(
	ctx context.Context,
	interests []string,
	limit int,
) ([]models.CoachWithScore, error) {
	coaches, err := s.coachRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.CoachWithScore, 0, len(coaches))
	for _, coach := range coaches {
		matched = append(matched, models.CoachWithScore{
			CoachProfile: coach,
			MatchScore:   calculateMatchScore(interests, &coach),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MatchScore == matched[j].MatchScore {
			return floatValue(matched[i].Rating) > floatValue(matched[j].Rating)
		}
		return matched[i].MatchScore > matched[j].MatchScore
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func calculateMatchScore(interests []string, coach *models.CoachProfile) int {
	score := 0
	coachTags := normalizeValues(coach.Expertise)

	for _, aliases := range interestAliases(interests) {
		for _, alias := range aliases {
			if _, ok := coachTags[alias]; ok {
				score += 40
				break
			}
		}
	}

	if floatValue(coach.Rating) > 4.0 {
		score += 20
	}
	if intValue(coach.ExperienceYears) > 3 {
		score += 15
	}
	if len(sliceValue(coach.Certifications)) > 0 {
		score += 10
	}

	return score
}

// interestAliases widens common career goals so near-synonym expertise tags
// still match.
func interestAliases(interests []string) map[string][]string {
	mapped := make(map[string][]string, len(interests))
	for _, interest := range interests {
		switch normalize(interest) {
		case "interview", "interview_prep", "interviewing":
			mapped["interview_prep"] = []string{"interview_prep", "interviewing", "mock_interviews"}
		case "career_change", "career_transition":
			mapped["career_change"] = []string{"career_change", "career_transition", "career_pivot"}
		case "leadership", "management":
			mapped["leadership"] = []string{"leadership", "management", "executive_coaching"}
		case "resume", "resume_review", "cv":
			mapped["resume_review"] = []string{"resume_review", "resume_writing", "cv_review"}
		case "salary", "negotiation", "salary_negotiation":
			mapped["salary_negotiation"] = []string{"salary_negotiation", "negotiation"}
		default:
			if key := normalize(interest); key != "" {
				mapped[key] = []string{key}
			}
		}
	}
	return mapped
}

func normalizeValues(values *[]string) map[string]struct{} {
	normalized := make(map[string]struct{})
	for _, value := range sliceValue(values) {
		if key := normalize(value); key != "" {
			normalized[key] = struct{}{}
		}
	}
	return normalized
}

func normalize(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}

func sliceValue(values *[]string) []string {
	if values == nil {
		return nil
	}
	return *values
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func intValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
