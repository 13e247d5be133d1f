package models

import "time"

type Review struct {
	ID          int64     `json:"id"`
	CoachID     int64     `json:"coach_id"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	SessionDate time.Time `json:"session_date"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}
