package types

import (
	"strings"
	"time"
)

// PetStats is the cosmetic companion state embedded in a user document.
// Type stays nil until the user completes the one-time pet selection.
type PetStats struct {
	Type       *string   `json:"type"`
	Status     string    `json:"status"` // "happy", "neutral", "sad"
	Level      int       `json:"level"`
	Experience int       `json:"experience"`
	LastFed    time.Time `json:"lastFed"`
}

type Preferences struct {
	Notifications bool   `json:"notifications"`
	Theme         string `json:"theme"`
}

type UserResponse struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Streak      int         `json:"streak"`
	PetStats    PetStats    `json:"petStats"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func DefaultPetStats(now time.Time) PetStats {
	return PetStats{
		Type:       nil,
		Status:     "happy",
		Level:      1,
		Experience: 0,
		LastFed:    now,
	}
}

func DefaultPreferences() Preferences {
	return Preferences{
		Notifications: true,
		Theme:         "light",
	}
}

// SelectedPetType returns the normalized pet type, or nil when the user has
// not completed pet selection. Whitespace-only types count as unselected.
func (p PetStats) SelectedPetType() *string {
	if p.Type == nil {
		return nil
	}

	normalized := strings.TrimSpace(*p.Type)

	if normalized == "" {
		return nil
	}

	return &normalized
}

func (p PetStats) HasSelectedPet() bool {
	return p.SelectedPetType() != nil
}
