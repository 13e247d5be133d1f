package models

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// AllowedDurations are the only session lengths the platform sells.
var AllowedDurations = []int{30, 60}

type Booking struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	CoachID          int64     `json:"coach_id"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	DurationMinutes  int       `json:"duration_minutes"`
	Status           string    `json:"status"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	VideoLink        *string   `json:"video_link,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Payment carries the fee split derived from its booking's amount.
// platform_fee_cents + coach_earnings_cents always equals amount_cents.
type Payment struct {
	ID                 int64      `json:"id"`
	BookingID          int64      `json:"booking_id"`
	UserID             int64      `json:"user_id"`
	CoachID            int64      `json:"coach_id"`
	AmountCents        int64      `json:"amount_cents"`
	PlatformFeeCents   int64      `json:"platform_fee_cents"`
	CoachEarningsCents int64      `json:"coach_earnings_cents"`
	Status             string     `json:"status"`
	PaymentMethod      *string    `json:"payment_method,omitempty"`
	ExternalRef        *string    `json:"external_ref,omitempty"`
	ProcessedAt        *time.Time `json:"processed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type BookingDetail struct {
	Booking
	Payment *Payment `json:"payment,omitempty"`
}

// CoachRef is the expanded coach reference embedded in booking listings.
type CoachRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image,omitempty"`
}

type UpcomingBooking struct {
	Booking
	Coach CoachRef `json:"coach"`
}
