package domain

import "time"

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Bio            string    `json:"bio,omitempty"`
	ProfileImageID *string   `json:"profile_image_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
