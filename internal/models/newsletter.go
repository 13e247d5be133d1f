package models

import "time"

// NewsletterSubscriber is a double-opt-in mailing list entry. The
// verification token is present only while the record is unverified.
type NewsletterSubscriber struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	FirstName         *string    `json:"first_name,omitempty"`
	LastName          *string    `json:"last_name,omitempty"`
	VerificationToken *string    `json:"-"`
	IsVerified        bool       `json:"is_verified"`
	IsActive          bool       `json:"is_active"`
	SubscribedAt      *time.Time `json:"subscribed_at,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
