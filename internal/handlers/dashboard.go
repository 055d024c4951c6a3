package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/tidelog-dev/tidelog/db"
	"github.com/tidelog-dev/tidelog/internal/models"
	"github.com/tidelog-dev/tidelog/internal/types"
	"github.com/tidelog-dev/tidelog/internal/utils"
	"gorm.io/gorm"
)

type DashboardStats struct {
	CompletedGrapesEntries int64 `json:"completedGrapesEntries"`
	CompletedCogtriEntries int64 `json:"completedCogtriEntries"`
}

type DashboardResponse struct {
	User                 types.UserResponse `json:"user"`
	RequiresPetSelection bool               `json:"requiresPetSelection"`
	LatestGrapes         *GrapesResponse    `json:"latestGrapes"`
	LatestCogTri         *CogTriResponse    `json:"latestCogTri"`
	Stats                DashboardStats     `json:"stats"`
}

// GetDashboard combines the user profile, latest entries, and completion
// counts for the home view. The five reads run concurrently with no
// cross-read transaction; a write landing between them can surface a
// partially updated snapshot, which is accepted.
func GetDashboard(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "userId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var (
		user         models.User
		latestGrapes models.GrapesEntry
		latestCogTri models.CogTriEntry
		grapesCount  int64
		cogtriCount  int64

		userErr, grapesErr, cogtriErr, grapesCountErr, cogtriCountErr error
	)

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		userErr = db.DB.First(&user, userID).Error
	}()

	go func() {
		defer wg.Done()
		grapesErr = db.DB.Where("user_id = ?", userID).Order("date DESC").First(&latestGrapes).Error
	}()

	go func() {
		defer wg.Done()
		cogtriErr = db.DB.Where("user_id = ?", userID).Order("date DESC").First(&latestCogTri).Error
	}()

	go func() {
		defer wg.Done()
		grapesCountErr = db.DB.Model(&models.GrapesEntry{}).
			Where("user_id = ? AND completed = ?", userID, true).
			Count(&grapesCount).Error
	}()

	go func() {
		defer wg.Done()
		cogtriCountErr = db.DB.Model(&models.CogTriEntry{}).
			Where("user_id = ? AND complete = ?", userID, true).
			Count(&cogtriCount).Error
	}()

	wg.Wait()

	if userErr != nil {
		if errors.Is(userErr, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Error fetching dashboard user: %v", userErr)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	for _, err := range []error{grapesErr, cogtriErr, grapesCountErr, cogtriCountErr} {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error fetching dashboard data: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	response := DashboardResponse{
		User:                 userResponse(user),
		RequiresPetSelection: !petStatsOf(user).HasSelectedPet(),
		Stats: DashboardStats{
			CompletedGrapesEntries: grapesCount,
			CompletedCogtriEntries: cogtriCount,
		},
	}

	if grapesErr == nil {
		grapes := grapesResponse(latestGrapes)
		response.LatestGrapes = &grapes
	}

	if cogtriErr == nil {
		cogtri := cogtriResponse(latestCogTri)
		response.LatestCogTri = &cogtri
	}

	ctx.JSON(http.StatusOK, response)
}
