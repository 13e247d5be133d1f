package models

import "time"

type CoachProfile struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	FullName        *string     `json:"full_name"`
	ImageURL        *string     `json:"image_url"`
	Bio             *string     `json:"bio"`
	Expertise       *[]string   `json:"expertise"`
	Certifications  *[]string   `json:"certifications"`
	Languages       *[]string   `json:"languages"`
	ExperienceYears *int        `json:"experience_years"`
	HourlyRateCents *int64      `json:"hourly_rate_cents"`
	Rating          *float64    `json:"rating"`
	TotalReviews    int         `json:"total_reviews"`
	AvailableSlots  []time.Time `json:"available_slots,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type CoachWithScore struct {
	CoachProfile
	MatchScore int `json:"match_score"`
}

type CoachListResponse struct {
	ID              string   `json:"id"`
	FullName        string   `json:"full_name"`
	ImageURL        string   `json:"image_url,omitempty"`
	Expertise       []string `json:"expertise"`
	HourlyRateCents int64    `json:"hourly_rate_cents"`
	Rating          float64  `json:"rating"`
	TotalReviews    int      `json:"total_reviews"`
	ExperienceYears int      `json:"experience_years"`
	MatchScore      int      `json:"match_score,omitempty"`
}

type CoachDetailResponse struct {
	CoachListResponse
	Bio            string   `json:"bio"`
	Certifications []string `json:"certifications"`
	Languages      []string `json:"languages"`
	AvailableSlots []string `json:"available_slots"`
}

type PaginationMeta struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalCoaches int  `json:"total_coaches"`
	HasNextPage  bool `json:"has_next_page"`
	HasPrevPage  bool `json:"has_prev_page"`
}
