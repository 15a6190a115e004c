package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionRequest struct {
	QuestionText      string         `json:"question_text" binding:"required"`
	QuestionType      string         `json:"question_type" binding:"required"`
	Options           datatypes.JSON `json:"options"`
	IsRequired        bool           `json:"is_required"`
	FileMaxSize       int            `json:"file_max_size"`
	AllowedExtensions string         `json:"allowed_extensions"`
	DisplayOrder      int            `json:"display_order"`
}

// questionDepartment resolves the department whose questions the actor may
// manage. Dept-admins are pinned to their own department.
func questionDepartment(ctx *gin.Context) (uint, bool) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return 0, false
	}

	departmentID, ok := uintParam(ctx, "department_id")

	if !ok {
		return 0, false
	}

	if actor.IsDeptAdmin() && (actor.DepartmentID == nil || *actor.DepartmentID != departmentID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own department's questions"})
		return 0, false
	}

	return departmentID, true
}

func ListQuestions(ctx *gin.Context) {
	departmentID, ok := questionDepartment(ctx)

	if !ok {
		return
	}

	var questions []models.DepartmentQuestion

	err := db.DB.Where("department_id = ?", departmentID).
		Order("display_order asc, id asc").
		Find(&questions).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve questions"})
		return
	}

	ctx.JSON(http.StatusOK, questions)
}

func CreateQuestion(ctx *gin.Context) {
	departmentID, ok := questionDepartment(ctx)

	if !ok {
		return
	}

	var body QuestionRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.ValidQuestionType(body.QuestionType) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question type"})
		return
	}

	question := models.DepartmentQuestion{
		DepartmentID:      departmentID,
		QuestionText:      body.QuestionText,
		QuestionType:      body.QuestionType,
		Options:           body.Options,
		IsRequired:        body.IsRequired,
		DisplayOrder:      body.DisplayOrder,
		FileMaxSize:       1024,
		AllowedExtensions: "pdf",
	}

	if body.FileMaxSize > 0 {
		question.FileMaxSize = body.FileMaxSize
	}

	if body.AllowedExtensions != "" {
		question.AllowedExtensions = body.AllowedExtensions
	}

	if err := db.DB.Create(&question).Error; err != nil {
		log.Printf("Failed to create question: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, question)
}

func UpdateQuestion(ctx *gin.Context) {
	departmentID, ok := questionDepartment(ctx)

	if !ok {
		return
	}

	var question models.DepartmentQuestion

	err := db.DB.Where("department_id = ?", departmentID).
		First(&question, ctx.Param("question_id")).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve question"})
		}
		return
	}

	var body QuestionRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.ValidQuestionType(body.QuestionType) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question type"})
		return
	}

	question.QuestionText = body.QuestionText
	question.QuestionType = body.QuestionType
	question.Options = body.Options
	question.IsRequired = body.IsRequired
	question.DisplayOrder = body.DisplayOrder

	if body.FileMaxSize > 0 {
		question.FileMaxSize = body.FileMaxSize
	}

	if body.AllowedExtensions != "" {
		question.AllowedExtensions = body.AllowedExtensions
	}

	if err := db.DB.Save(&question).Error; err != nil {
		log.Printf("Failed to update question: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, question)
}

func DeleteQuestion(ctx *gin.Context) {
	departmentID, ok := questionDepartment(ctx)

	if !ok {
		return
	}

	var question models.DepartmentQuestion

	err := db.DB.Where("department_id = ?", departmentID).
		First(&question, ctx.Param("question_id")).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve question"})
		}
		return
	}

	var responseCount int64
	db.DB.Model(&models.QuestionResponse{}).Where("question_id = ?", question.ID).Count(&responseCount)

	if responseCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Question has responses and cannot be deleted"})
		return
	}

	if err := db.DB.Delete(&question).Error; err != nil {
		log.Printf("Failed to delete question: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
