package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/utils"
	"gorm.io/datatypes"
)

type ProfileRequest struct {
	Name        string            `json:"name"`
	RegNo       string            `json:"reg_no"`
	Batch       string            `json:"batch"`
	Phone       string            `json:"phone"`
	Branch      string            `json:"branch"`
	ExtraFields map[string]string `json:"extra_fields"`
}

func profileResponse(student models.Student) gin.H {
	return gin.H{
		"id":           student.ID,
		"email":        student.Email,
		"name":         student.Name,
		"reg_no":       student.RegNo,
		"batch":        student.Batch,
		"phone":        student.Phone,
		"branch":       student.Branch,
		"extra_fields": student.ExtraFields,
		"completion":   student.ProfileCompletion(),
		"can_apply":    student.CanApply(),
	}
}

func GetMyProfile(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var student models.Student

	if err := db.DB.First(&student, actor.ID).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
		return
	}

	ctx.JSON(http.StatusOK, profileResponse(student))
}

// UpdateMyProfile updates the base profile plus values for the enabled
// admin-configured fields. Required enabled fields must be present.
func UpdateMyProfile(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var student models.Student

	if err := db.DB.First(&student, actor.ID).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
		return
	}

	var body ProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var fields []models.ProfileField

	if err := db.DB.Where("is_enabled = ?", true).Find(&fields).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile fields"})
		return
	}

	for _, field := range fields {
		if field.IsRequired && strings.TrimSpace(body.ExtraFields[field.FieldName]) == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": field.Label + " is required"})
			return
		}
	}

	student.Name = body.Name
	student.RegNo = body.RegNo
	student.Batch = body.Batch
	student.Phone = body.Phone
	student.Branch = body.Branch

	if body.ExtraFields != nil {
		encoded, err := json.Marshal(body.ExtraFields)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid extra fields"})
			return
		}
		student.ExtraFields = datatypes.JSON(encoded)
	}

	if err := db.DB.Save(&student).Error; err != nil {
		log.Printf("Failed to update profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, profileResponse(student))
}
