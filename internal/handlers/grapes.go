package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidelog-dev/tidelog/db"
	"github.com/tidelog-dev/tidelog/internal/models"
	"github.com/tidelog-dev/tidelog/internal/utils"
	"gorm.io/gorm"
)

type CreateGrapesRequest struct {
	UserID         uint    `json:"userId"`
	Date           *string `json:"date"`
	Gentle         string  `json:"gentle"`
	Recreation     string  `json:"recreation"`
	Accomplishment string  `json:"accomplishment"`
	Pleasure       string  `json:"pleasure"`
	Exercise       string  `json:"exercise"`
	Social         string  `json:"social"`
	Completed      bool    `json:"completed"`
}

type UpdateGrapesRequest struct {
	Date           *string `json:"date"`
	Gentle         *string `json:"gentle"`
	Recreation     *string `json:"recreation"`
	Accomplishment *string `json:"accomplishment"`
	Pleasure       *string `json:"pleasure"`
	Exercise       *string `json:"exercise"`
	Social         *string `json:"social"`
	Completed      *bool   `json:"completed"`
}

type GrapesResponse struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"userId"`
	Date           time.Time `json:"date"`
	Gentle         string    `json:"gentle"`
	Recreation     string    `json:"recreation"`
	Accomplishment string    `json:"accomplishment"`
	Pleasure       string    `json:"pleasure"`
	Exercise       string    `json:"exercise"`
	Social         string    `json:"social"`
	Completed      bool      `json:"completed"`
	CreatedAt      time.Time `json:"createdAt"`
}

func grapesResponse(entry models.GrapesEntry) GrapesResponse {
	return GrapesResponse{
		ID:             entry.ID,
		UserID:         entry.UserID,
		Date:           entry.Date,
		Gentle:         entry.Gentle,
		Recreation:     entry.Recreation,
		Accomplishment: entry.Accomplishment,
		Pleasure:       entry.Pleasure,
		Exercise:       entry.Exercise,
		Social:         entry.Social,
		Completed:      entry.Completed,
		CreatedAt:      entry.CreatedAt,
	}
}

func grapesResponses(entries []models.GrapesEntry) []GrapesResponse {
	response := make([]GrapesResponse, 0, len(entries))

	for _, entry := range entries {
		response = append(response, grapesResponse(entry))
	}

	return response
}

func ListAllGrapes(ctx *gin.Context) {
	var entries []models.GrapesEntry

	if err := db.DB.Order("date DESC").Find(&entries).Error; err != nil {
		log.Printf("Error fetching all GRAPES entries: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, grapesResponses(entries))
}

func ListGrapesByUser(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "userId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var entries []models.GrapesEntry

	if err := db.DB.Where("user_id = ?", userID).Order("date DESC").Find(&entries).Error; err != nil {
		log.Printf("Error fetching GRAPES entries: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, grapesResponses(entries))
}

func GetLatestGrapes(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "userId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var entry models.GrapesEntry

	if err := db.DB.Where("user_id = ?", userID).Order("date DESC").First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "No entries found"})
		} else {
			log.Printf("Error fetching latest GRAPES entry: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, grapesResponse(entry))
}

func ListGrapesByRange(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "userId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	startStr := ctx.Query("startDate")
	endStr := ctx.Query("endDate")

	if startStr == "" || endStr == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate required"})
		return
	}

	startDate, err := utils.ParseDate(startStr)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
		return
	}

	endDate, err := utils.ParseDate(endStr)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate"})
		return
	}

	var entries []models.GrapesEntry

	err = db.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, startDate, endDate).
		Order("date DESC").
		Find(&entries).Error

	if err != nil {
		log.Printf("Error fetching GRAPES entries by range: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, grapesResponses(entries))
}

func GetGrapesEntry(ctx *gin.Context) {
	entryID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var entry models.GrapesEntry

	if err := db.DB.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			log.Printf("Error fetching GRAPES entry: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, grapesResponse(entry))
}

func CreateGrapesEntry(ctx *gin.Context) {
	var req CreateGrapesRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.UserID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	date := time.Now()

	if req.Date != nil {
		parsed, err := utils.ParseDate(*req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		date = parsed
	}

	entry := models.GrapesEntry{
		UserID:         req.UserID,
		Date:           date,
		Gentle:         req.Gentle,
		Recreation:     req.Recreation,
		Accomplishment: req.Accomplishment,
		Pleasure:       req.Pleasure,
		Exercise:       req.Exercise,
		Social:         req.Social,
		Completed:      req.Completed,
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		log.Printf("Error creating GRAPES entry: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(fmt.Sprint(entry.UserID))

	ctx.JSON(http.StatusCreated, gin.H{
		"insertedId": entry.ID,
		"message":    "GRAPES entry created successfully",
	})
}

func UpdateGrapesEntry(ctx *gin.Context) {
	entryID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var entry models.GrapesEntry

	if err := db.DB.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			log.Printf("Error fetching GRAPES entry: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var req UpdateGrapesRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if req.Date != nil {
		parsed, err := utils.ParseDate(*req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		updates["date"] = parsed
	}

	if req.Gentle != nil {
		updates["gentle"] = *req.Gentle
	}

	if req.Recreation != nil {
		updates["recreation"] = *req.Recreation
	}

	if req.Accomplishment != nil {
		updates["accomplishment"] = *req.Accomplishment
	}

	if req.Pleasure != nil {
		updates["pleasure"] = *req.Pleasure
	}

	if req.Exercise != nil {
		updates["exercise"] = *req.Exercise
	}

	if req.Social != nil {
		updates["social"] = *req.Social
	}

	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	result := db.DB.Model(&entry).Updates(updates)

	if result.Error != nil {
		log.Printf("Error updating GRAPES entry: %v", result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(fmt.Sprint(entry.UserID))

	ctx.JSON(http.StatusOK, gin.H{
		"message":       "GRAPES entry updated successfully",
		"modifiedCount": result.RowsAffected,
	})
}

func DeleteGrapesEntry(ctx *gin.Context) {
	entryID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var entry models.GrapesEntry

	if err := db.DB.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			log.Printf("Error fetching GRAPES entry: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := db.DB.Delete(&entry).Error; err != nil {
		log.Printf("Error deleting GRAPES entry: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(fmt.Sprint(entry.UserID))

	ctx.JSON(http.StatusOK, gin.H{"message": "GRAPES entry deleted successfully"})
}
