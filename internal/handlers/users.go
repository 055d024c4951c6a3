package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/tidelog-dev/tidelog/db"
	"github.com/tidelog-dev/tidelog/internal/models"
	"github.com/tidelog-dev/tidelog/internal/types"
	"github.com/tidelog-dev/tidelog/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UpdateUserRequest struct {
	Username    *string            `json:"username"`
	Email       *string            `json:"email"`
	Password    *string            `json:"password"`
	Streak      *int               `json:"streak"`
	PetStats    *types.PetStats    `json:"petStats"`
	Preferences *types.Preferences `json:"preferences"`
}

type UpdatePetSelectionRequest struct {
	Type string `json:"type"`
}

func ListUsers(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Find(&users).Error; err != nil {
		log.Printf("Error fetching users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, userResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetUser(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error fetching user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":                 userResponse(user),
		"requiresPetSelection": !petStatsOf(user).HasSelectedPet(),
	})
}

// UpdateUser applies a field-allow-list patch. Only the named optional
// fields are ever written; anything else in the body is ignored.
func UpdateUser(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error fetching user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var req UpdateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if req.Username != nil {
		updates["username"] = strings.TrimSpace(*req.Username)
	}

	if req.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*req.Email))

		if newEmail != user.Email {
			var existingUser models.User
			err := db.DB.Where("email = ? AND id != ?", newEmail, user.ID).First(&existingUser).Error
			if err == nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing email: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
		}

		updates["email"] = newEmail
	}

	if req.Password != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		updates["password_hash"] = string(passwordHash)
	}

	if req.Streak != nil {
		updates["streak"] = *req.Streak
	}

	if req.PetStats != nil {
		updates["pet_stats"] = mustJSON(*req.PetStats)
	}

	if req.Preferences != nil {
		updates["preferences"] = mustJSON(*req.Preferences)
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	result := db.DB.Model(&user).Updates(updates)

	if result.Error != nil {
		log.Printf("Failed to update user: %v", result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":       "User updated successfully",
		"modifiedCount": result.RowsAffected,
	})
}

// DeleteUser removes the account and issues best-effort concurrent deletes
// of the user's entries in both journals. Partial failures are logged, not
// rolled back.
func DeleteUser(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var wg sync.WaitGroup
	var userErr, grapesErr, cogtriErr error

	wg.Add(3)

	// Hard deletes: the email must leave the unique index so the address
	// can be registered again.
	go func() {
		defer wg.Done()
		userErr = db.DB.Unscoped().Delete(&models.User{}, userID).Error
	}()

	go func() {
		defer wg.Done()
		grapesErr = db.DB.Unscoped().Where("user_id = ?", userID).Delete(&models.GrapesEntry{}).Error
	}()

	go func() {
		defer wg.Done()
		cogtriErr = db.DB.Unscoped().Where("user_id = ?", userID).Delete(&models.CogTriEntry{}).Error
	}()

	wg.Wait()

	for _, err := range []error{userErr, grapesErr, cogtriErr} {
		if err != nil {
			log.Printf("Error deleting user %d: %v", userID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User and all related data deleted successfully"})
}

func GetPetSelection(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error fetching pet selection: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	selectedType := petStatsOf(user).SelectedPetType()

	ctx.JSON(http.StatusOK, gin.H{
		"type":                 selectedType,
		"requiresPetSelection": selectedType == nil,
	})
}

// UpdatePetSelection sets the companion type. This is the only field-level
// write with semantic validation beyond presence, and it may be called again
// to change the type.
func UpdatePetSelection(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req UpdatePetSelectionRequest

	if err := ctx.BindJSON(&req); err != nil || strings.TrimSpace(req.Type) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "type is required"})
		return
	}

	petType := strings.ToLower(strings.TrimSpace(req.Type))

	if !types.IsValidPetType(petType) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("type must be %s or %s", types.PetTypeFish, types.PetTypeSeal)})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error fetching user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	stats := petStatsOf(user)
	stats.Type = &petType

	if err := db.DB.Model(&user).Update("pet_stats", mustJSON(stats)).Error; err != nil {
		log.Printf("Error updating pet selection: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user.PetStats = mustJSON(stats)

	BroadcastRefresh(fmt.Sprint(user.ID))

	ctx.JSON(http.StatusOK, gin.H{
		"message":              "Pet type updated successfully",
		"user":                 userResponse(user),
		"requiresPetSelection": false,
	})
}
