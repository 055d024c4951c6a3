package handlers

import (
	"encoding/json"
	"log"

	"github.com/tidelog-dev/tidelog/internal/models"
	"github.com/tidelog-dev/tidelog/internal/types"
	"gorm.io/datatypes"
)

func petStatsOf(user models.User) types.PetStats {
	var stats types.PetStats

	if len(user.PetStats) > 0 {
		if err := json.Unmarshal(user.PetStats, &stats); err != nil {
			log.Printf("Failed to decode petStats for user %d: %v", user.ID, err)
			return types.DefaultPetStats(user.CreatedAt)
		}
	}

	return stats
}

func preferencesOf(user models.User) types.Preferences {
	var prefs types.Preferences

	if len(user.Preferences) > 0 {
		if err := json.Unmarshal(user.Preferences, &prefs); err != nil {
			log.Printf("Failed to decode preferences for user %d: %v", user.ID, err)
			return types.DefaultPreferences()
		}
	}

	return prefs
}

// userResponse strips the password hash and decodes the JSON columns.
func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Streak:      user.Streak,
		PetStats:    petStatsOf(user),
		Preferences: preferencesOf(user),
		CreatedAt:   user.CreatedAt,
	}
}

func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)

	if err != nil {
		log.Printf("Failed to encode JSON column: %v", err)
		return datatypes.JSON("{}")
	}

	return datatypes.JSON(data)
}
