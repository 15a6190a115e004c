package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/utils"
	"gorm.io/gorm"
)

type DepartmentRequest struct {
	Name             string     `json:"name" binding:"required"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"short_description"`
	Positions        string     `json:"positions"`
	Requirements     string     `json:"requirements"`
	IsActive         *bool      `json:"is_active"`
	RecruitmentStart *time.Time `json:"recruitment_start"`
	RecruitmentEnd   *time.Time `json:"recruitment_end"`
}

type DepartmentResponse struct {
	ID                uint       `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	ShortDescription  string     `json:"short_description"`
	ImagePath         string     `json:"image_path,omitempty"`
	Positions         string     `json:"positions"`
	Requirements      string     `json:"requirements"`
	IsActive          bool       `json:"is_active"`
	RecruitmentStart  *time.Time `json:"recruitment_start,omitempty"`
	RecruitmentEnd    *time.Time `json:"recruitment_end,omitempty"`
	RecruitmentStatus string     `json:"recruitment_status"`
	ApplicationCount  int64      `json:"application_count,omitempty"`
}

func departmentResponse(department models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:                department.ID,
		Name:              department.Name,
		Description:       department.Description,
		ShortDescription:  department.ShortDescription,
		ImagePath:         department.ImagePath,
		Positions:         department.Positions,
		Requirements:      department.Requirements,
		IsActive:          department.IsActive,
		RecruitmentStart:  department.RecruitmentStart,
		RecruitmentEnd:    department.RecruitmentEnd,
		RecruitmentStatus: department.RecruitmentStatus(),
	}
}

func findDepartment(ctx *gin.Context, id any) (models.Department, bool) {
	var department models.Department

	if err := db.DB.First(&department, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve department"})
		}
		return models.Department{}, false
	}

	return department, true
}

// ListDepartments returns every department with application counts, for the
// admin dashboard.
func ListDepartments(ctx *gin.Context) {
	var departments []models.Department

	if err := db.DB.Order("name asc").Find(&departments).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve departments"})
		return
	}

	response := make([]DepartmentResponse, 0, len(departments))

	for _, department := range departments {
		entry := departmentResponse(department)
		db.DB.Model(&models.Application{}).Where("department_id = ?", department.ID).Count(&entry.ApplicationCount)
		response = append(response, entry)
	}

	ctx.JSON(http.StatusOK, response)
}

// ListOpenDepartments is the student-facing catalogue of active departments.
func ListOpenDepartments(ctx *gin.Context) {
	var departments []models.Department

	if err := db.DB.Where("is_active = ?", true).Order("name asc").Find(&departments).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve departments"})
		return
	}

	response := make([]DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		response = append(response, departmentResponse(department))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetDepartment(ctx *gin.Context) {
	department, ok := findDepartment(ctx, ctx.Param("department_id"))

	if !ok {
		return
	}

	var questions []models.DepartmentQuestion
	db.DB.Where("department_id = ?", department.ID).Order("display_order asc").Find(&questions)

	ctx.JSON(http.StatusOK, gin.H{
		"department": departmentResponse(department),
		"questions":  questions,
	})
}

func CreateDepartment(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var body DepartmentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	department := models.Department{
		Name:             body.Name,
		Description:      body.Description,
		ShortDescription: body.ShortDescription,
		Positions:        body.Positions,
		Requirements:     body.Requirements,
		IsActive:         true,
		RecruitmentStart: body.RecruitmentStart,
		RecruitmentEnd:   body.RecruitmentEnd,
	}

	if body.IsActive != nil {
		department.IsActive = *body.IsActive
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&department).Error; err != nil {
			return err
		}

		// Existing rounds get a per-department state row so the new
		// department starts locked and unreleased like the rest.
		var rounds []models.Round
		if err := tx.Find(&rounds).Error; err != nil {
			return err
		}

		for _, round := range rounds {
			state := models.RoundDepartment{RoundID: round.ID, DepartmentID: department.ID, IsLocked: true}
			if err := tx.Create(&state).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		log.Printf("Failed to create department: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "department.create", "departments", map[string]interface{}{
		"department_id": department.ID,
		"name":          department.Name,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	ctx.JSON(http.StatusCreated, departmentResponse(department))
}

func UpdateDepartment(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	department, ok := findDepartment(ctx, ctx.Param("department_id"))

	if !ok {
		return
	}

	// Dept-admins may only edit their own department.
	if actor.IsDeptAdmin() && (actor.DepartmentID == nil || *actor.DepartmentID != department.ID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own department"})
		return
	}

	var body DepartmentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	department.Name = body.Name
	department.Description = body.Description
	department.ShortDescription = body.ShortDescription
	department.Positions = body.Positions
	department.Requirements = body.Requirements
	department.RecruitmentStart = body.RecruitmentStart
	department.RecruitmentEnd = body.RecruitmentEnd

	if body.IsActive != nil {
		department.IsActive = *body.IsActive
	}

	if err := db.DB.Save(&department).Error; err != nil {
		log.Printf("Failed to update department: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "department.update", "departments", map[string]interface{}{
		"department_id": department.ID,
		"name":          department.Name,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	ctx.JSON(http.StatusOK, departmentResponse(department))
}

// ToggleDepartment flips whether the department accepts new applications.
func ToggleDepartment(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	department, ok := findDepartment(ctx, ctx.Param("department_id"))

	if !ok {
		return
	}

	department.IsActive = !department.IsActive

	if err := db.DB.Save(&department).Error; err != nil {
		log.Printf("Failed to toggle department: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "department.toggle", "departments", map[string]interface{}{
		"department_id": department.ID,
		"is_active":     department.IsActive,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	ctx.JSON(http.StatusOK, departmentResponse(department))
}

func DeleteDepartment(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	department, ok := findDepartment(ctx, ctx.Param("department_id"))

	if !ok {
		return
	}

	// Deletion cascades: the department takes its applications, their round
	// candidates and question responses, its questions and its per-round state
	// with it. Soft deletes keep the FK-level cascade from firing, so every
	// dependent set goes explicitly.
	var uploadPaths []string

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var applicationIDs []uint

		if err := tx.Model(&models.Application{}).Where("department_id = ?", department.ID).Pluck("id", &applicationIDs).Error; err != nil {
			return err
		}

		if len(applicationIDs) > 0 {
			if err := tx.Model(&models.QuestionResponse{}).
				Where("application_id IN ?", applicationIDs).
				Where("file_path <> ''").
				Pluck("file_path", &uploadPaths).Error; err != nil {
				return err
			}

			if err := tx.Where("application_id IN ?", applicationIDs).Delete(&models.QuestionResponse{}).Error; err != nil {
				return err
			}

			if err := tx.Where("application_id IN ?", applicationIDs).Delete(&models.RoundCandidate{}).Error; err != nil {
				return err
			}

			if err := tx.Where("department_id = ?", department.ID).Delete(&models.Application{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("department_id = ?", department.ID).Delete(&models.DepartmentQuestion{}).Error; err != nil {
			return err
		}

		if err := tx.Where("department_id = ?", department.ID).Delete(&models.RoundDepartment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&department).Error
	})

	if err != nil {
		log.Printf("Failed to delete department: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	for _, path := range uploadPaths {
		os.Remove(path)
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "department.delete", "departments", map[string]interface{}{
		"department_id": department.ID,
		"name":          department.Name,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	ctx.Status(http.StatusNoContent)
}

// MyDepartment returns the dept-admin's own department.
func MyDepartment(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil || actor.DepartmentID == nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No department assigned"})
		return
	}

	department, ok := findDepartment(ctx, *actor.DepartmentID)

	if !ok {
		return
	}

	entry := departmentResponse(department)
	db.DB.Model(&models.Application{}).Where("department_id = ?", department.ID).Count(&entry.ApplicationCount)

	ctx.JSON(http.StatusOK, entry)
}
