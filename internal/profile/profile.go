package profile

import (
	"fmt"
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Profile struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Gender      Gender    `json:"gender" db:"gender"`
	AvatarID    string    `json:"avatar_id" db:"avatar_id"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Gender      Gender `json:"gender"`
	AvatarID    string `json:"avatar_id"`
}

const MaxDisplayNameLength = 50

// Validate trims the display name in place.
func (r *UpdateProfileRequest) Validate() error {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if r.DisplayName == "" {
		return fmt.Errorf("display_name is required")
	}
	if len([]rune(r.DisplayName)) > MaxDisplayNameLength {
		return fmt.Errorf("display_name must be at most %d characters", MaxDisplayNameLength)
	}
	if !r.Gender.Valid() {
		return fmt.Errorf("gender must be 'male' or 'female'")
	}
	if _, ok := findAvatar(r.AvatarID); !ok {
		return fmt.Errorf("unknown avatar_id %q", r.AvatarID)
	}
	return nil
}
