package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileFieldRequest struct {
	FieldName    string         `json:"field_name" binding:"required"`
	Label        string         `json:"label" binding:"required"`
	FieldType    string         `json:"field_type"`
	Options      datatypes.JSON `json:"options"`
	IsRequired   bool           `json:"is_required"`
	IsEnabled    *bool          `json:"is_enabled"`
	DisplayOrder int            `json:"display_order"`
}

func ListProfileFields(ctx *gin.Context) {
	var fields []models.ProfileField

	if err := db.DB.Order("display_order asc, id asc").Find(&fields).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile fields"})
		return
	}

	ctx.JSON(http.StatusOK, fields)
}

// ListEnabledProfileFields is the student-facing subset.
func ListEnabledProfileFields(ctx *gin.Context) {
	var fields []models.ProfileField

	err := db.DB.Where("is_enabled = ?", true).
		Order("display_order asc, id asc").
		Find(&fields).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile fields"})
		return
	}

	ctx.JSON(http.StatusOK, fields)
}

func CreateProfileField(ctx *gin.Context) {
	var body ProfileFieldRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	field := models.ProfileField{
		FieldName:    body.FieldName,
		Label:        body.Label,
		FieldType:    "text",
		Options:      body.Options,
		IsRequired:   body.IsRequired,
		IsEnabled:    true,
		DisplayOrder: body.DisplayOrder,
	}

	if body.FieldType != "" {
		field.FieldType = body.FieldType
	}

	if body.IsEnabled != nil {
		field.IsEnabled = *body.IsEnabled
	}

	if err := db.DB.Create(&field).Error; err != nil {
		log.Printf("Failed to create profile field: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, field)
}

func UpdateProfileField(ctx *gin.Context) {
	var field models.ProfileField

	if err := db.DB.First(&field, ctx.Param("field_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile field not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile field"})
		}
		return
	}

	var body ProfileFieldRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	field.FieldName = body.FieldName
	field.Label = body.Label
	field.Options = body.Options
	field.IsRequired = body.IsRequired
	field.DisplayOrder = body.DisplayOrder

	if body.FieldType != "" {
		field.FieldType = body.FieldType
	}

	if body.IsEnabled != nil {
		field.IsEnabled = *body.IsEnabled
	}

	if err := db.DB.Save(&field).Error; err != nil {
		log.Printf("Failed to update profile field: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, field)
}

func DeleteProfileField(ctx *gin.Context) {
	var field models.ProfileField

	if err := db.DB.First(&field, ctx.Param("field_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile field not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile field"})
		}
		return
	}

	if err := db.DB.Delete(&field).Error; err != nil {
		log.Printf("Failed to delete profile field: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
