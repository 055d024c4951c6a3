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

type CreateCogTriRequest struct {
	UserID    uint    `json:"userId"`
	Date      *string `json:"date"`
	Situation string  `json:"situation"`
	Thoughts  string  `json:"thoughts"`
	Feelings  string  `json:"feelings"`
	Behavior  string  `json:"behavior"`
	Complete  bool    `json:"complete"`
}

type UpdateCogTriRequest struct {
	Date      *string `json:"date"`
	Situation *string `json:"situation"`
	Thoughts  *string `json:"thoughts"`
	Feelings  *string `json:"feelings"`
	Behavior  *string `json:"behavior"`
	Complete  *bool   `json:"complete"`
}

type CogTriResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	Date      time.Time `json:"date"`
	Situation string    `json:"situation"`
	Thoughts  string    `json:"thoughts"`
	Feelings  string    `json:"feelings"`
	Behavior  string    `json:"behavior"`
	Complete  bool      `json:"complete"`
	CreatedAt time.Time `json:"createdAt"`
}

func cogtriResponse(entry models.CogTriEntry) CogTriResponse {
	return CogTriResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Date:      entry.Date,
		Situation: entry.Situation,
		Thoughts:  entry.Thoughts,
		Feelings:  entry.Feelings,
		Behavior:  entry.Behavior,
		Complete:  entry.Complete,
		CreatedAt: entry.CreatedAt,
	}
}

func cogtriResponses(entries []models.CogTriEntry) []CogTriResponse {
	response := make([]CogTriResponse, 0, len(entries))

	for _, entry := range entries {
		response = append(response, cogtriResponse(entry))
	}

	return response
}

func ListAllCogTri(ctx *gin.Context) {
	var entries []models.CogTriEntry

	if err := db.DB.Order("date DESC").Find(&entries).Error; err != nil {
		log.Printf("Error fetching all CogTri entries: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, cogtriResponses(entries))
}

func ListCogTriByUser(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "userId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var entries []models.CogTriEntry

	if err := db.DB.Where("user_id = ?", userID).Order("date DESC").Find(&entries).Error; err != nil {
		log.Printf("Error fetching CogTri entries: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, cogtriResponses(entries))
}

func GetLatestCogTri(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "userId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var entry models.CogTriEntry

	if err := db.DB.Where("user_id = ?", userID).Order("date DESC").First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "No entries found"})
		} else {
			log.Printf("Error fetching latest CogTri entry: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, cogtriResponse(entry))
}

func ListCogTriByRange(ctx *gin.Context) {
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

	var entries []models.CogTriEntry

	err = db.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, startDate, endDate).
		Order("date DESC").
		Find(&entries).Error

	if err != nil {
		log.Printf("Error fetching CogTri entries by range: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, cogtriResponses(entries))
}

func GetCogTriEntry(ctx *gin.Context) {
	entryID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var entry models.CogTriEntry

	if err := db.DB.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			log.Printf("Error fetching CogTri entry: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, cogtriResponse(entry))
}

func CreateCogTriEntry(ctx *gin.Context) {
	var req CreateCogTriRequest

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

	entry := models.CogTriEntry{
		UserID:    req.UserID,
		Date:      date,
		Situation: req.Situation,
		Thoughts:  req.Thoughts,
		Feelings:  req.Feelings,
		Behavior:  req.Behavior,
		Complete:  req.Complete,
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		log.Printf("Error creating CogTri entry: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(fmt.Sprint(entry.UserID))

	ctx.JSON(http.StatusCreated, gin.H{
		"insertedId": entry.ID,
		"message":    "CogTri entry created successfully",
	})
}

func UpdateCogTriEntry(ctx *gin.Context) {
	entryID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var entry models.CogTriEntry

	if err := db.DB.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			log.Printf("Error fetching CogTri entry: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var req UpdateCogTriRequest

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

	if req.Situation != nil {
		updates["situation"] = *req.Situation
	}

	if req.Thoughts != nil {
		updates["thoughts"] = *req.Thoughts
	}

	if req.Feelings != nil {
		updates["feelings"] = *req.Feelings
	}

	if req.Behavior != nil {
		updates["behavior"] = *req.Behavior
	}

	if req.Complete != nil {
		updates["complete"] = *req.Complete
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	result := db.DB.Model(&entry).Updates(updates)

	if result.Error != nil {
		log.Printf("Error updating CogTri entry: %v", result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(fmt.Sprint(entry.UserID))

	ctx.JSON(http.StatusOK, gin.H{
		"message":       "CogTri entry updated successfully",
		"modifiedCount": result.RowsAffected,
	})
}

func DeleteCogTriEntry(ctx *gin.Context) {
	entryID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var entry models.CogTriEntry

	if err := db.DB.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			log.Printf("Error fetching CogTri entry: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := db.DB.Delete(&entry).Error; err != nil {
		log.Printf("Error deleting CogTri entry: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	BroadcastRefresh(fmt.Sprint(entry.UserID))

	ctx.JSON(http.StatusOK, gin.H{"message": "CogTri entry deleted successfully"})
}
