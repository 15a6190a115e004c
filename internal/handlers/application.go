package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/utils"
	"gorm.io/gorm"
)

type ApplicationResponse struct {
	ID           uint   `json:"id"`
	StudentID    uint   `json:"student_id"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	RegNo        string `json:"reg_no"`
	Batch        string `json:"batch"`
	Branch       string `json:"branch"`
	DepartmentID uint   `json:"department_id"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	CoverLetter  string `json:"cover_letter,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func applicationResponse(application models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:           application.ID,
		StudentID:    application.StudentID,
		StudentName:  application.Student.Name,
		StudentEmail: application.Student.Email,
		RegNo:        application.Student.RegNo,
		Batch:        application.Student.Batch,
		Branch:       application.Student.Branch,
		DepartmentID: application.DepartmentID,
		Department:   application.Department.Name,
		Position:     application.Position,
		CoverLetter:  application.CoverLetter,
		Status:       application.Status,
		CreatedAt:    application.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ListApplications serves the admin view, optionally filtered by department
// and status query params. Dept-admins are pinned to their own department.
func ListApplications(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	query := db.DB.Preload("Student").Preload("Department").Order("created_at desc")

	if actor.IsDeptAdmin() {
		if actor.DepartmentID == nil {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "No department assigned"})
			return
		}
		query = query.Where("department_id = ?", *actor.DepartmentID)
	} else if department := ctx.Query("department_id"); department != "" {
		query = query.Where("department_id = ?", department)
	}

	if status := ctx.Query("status"); status != "" {
		if !models.ValidApplicationStatus(status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var applications []models.Application

	if err := query.Find(&applications).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications"})
		return
	}

	response := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		response = append(response, applicationResponse(application))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetApplication returns one application with its question responses.
func GetApplication(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var application models.Application

	err = db.DB.Preload("Student").Preload("Department").First(&application, ctx.Param("application_id")).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve application"})
		}
		return
	}

	if actor.IsDeptAdmin() && (actor.DepartmentID == nil || *actor.DepartmentID != application.DepartmentID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Application belongs to another department"})
		return
	}

	var responses []models.QuestionResponse
	db.DB.Preload("Question").Where("application_id = ?", application.ID).Find(&responses)

	ctx.JSON(http.StatusOK, gin.H{
		"application": applicationResponse(application),
		"responses":   responses,
	})
}

type ApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplicationStatus sets the coarse accept/reject decision. It does not
// touch round progression.
func UpdateApplicationStatus(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var body ApplicationStatusRequest

	if err := ctx.BindJSON(&body); err != nil || !models.ValidApplicationStatus(body.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var application models.Application

	if err := db.DB.First(&application, ctx.Param("application_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve application"})
		}
		return
	}

	if actor.IsDeptAdmin() && (actor.DepartmentID == nil || *actor.DepartmentID != application.DepartmentID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Application belongs to another department"})
		return
	}

	oldStatus := application.Status
	application.Status = body.Status

	if err := db.DB.Save(&application).Error; err != nil {
		log.Printf("Failed to update application status: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "application.status", "applications", map[string]interface{}{
		"application_id": application.ID,
		"old_status":     oldStatus,
		"new_status":     application.Status,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	BroadcastRefresh(application.DepartmentID)

	ctx.JSON(http.StatusOK, gin.H{"status": application.Status})
}

// SubmitApplication handles the student multipart form: position, cover
// letter, per-question answers and file uploads.
func SubmitApplication(ctx *gin.Context) {
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

	if !student.CanApply() {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":      "Complete your profile before applying",
			"completion": student.ProfileCompletion(),
		})
		return
	}

	department, ok := findDepartment(ctx, ctx.Param("department_id"))

	if !ok {
		return
	}

	if !department.IsAcceptingApplications() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Department is not accepting applications"})
		return
	}

	var existing models.Application

	err = db.DB.Where("student_id = ? AND department_id = ?", student.ID, department.ID).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "You have already applied to this department"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var questions []models.DepartmentQuestion

	if err := db.DB.Where("department_id = ?", department.ID).Order("display_order asc").Find(&questions).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve questions"})
		return
	}

	application := models.Application{
		StudentID:    student.ID,
		DepartmentID: department.ID,
		Position:     ctx.PostForm("position"),
		CoverLetter:  ctx.PostForm("cover_letter"),
		Status:       models.ApplicationPending,
	}

	type savedUpload struct {
		question uint
		path     string
	}

	var uploads []savedUpload

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&application).Error; err != nil {
			return err
		}

		for _, question := range questions {
			field := fmt.Sprintf("question_%d", question.ID)

			if question.QuestionType == models.QuestionFileUpload {
				file, err := ctx.FormFile(field)

				if err != nil {
					if question.IsRequired {
						return fmt.Errorf("question %d requires a file", question.ID)
					}
					continue
				}

				if file.Size > int64(question.FileMaxSize)*1024 {
					return fmt.Errorf("file for question %d exceeds %d KB", question.ID, question.FileMaxSize)
				}

				if !extensionAllowed(file.Filename, question.AllowedExtensions) {
					return fmt.Errorf("file type not allowed for question %d", question.ID)
				}

				path := filepath.Join(uploadDir(), uuid.NewString()+filepath.Ext(file.Filename))

				if err := ctx.SaveUploadedFile(file, path); err != nil {
					return err
				}

				uploads = append(uploads, savedUpload{question: question.ID, path: path})

				response := models.QuestionResponse{
					QuestionID:    question.ID,
					ApplicationID: application.ID,
					FilePath:      path,
				}

				if err := tx.Create(&response).Error; err != nil {
					return err
				}

				continue
			}

			answer := strings.TrimSpace(ctx.PostForm(field))

			if answer == "" {
				if question.IsRequired {
					return fmt.Errorf("question %d is required", question.ID)
				}
				continue
			}

			response := models.QuestionResponse{
				QuestionID:    question.ID,
				ApplicationID: application.ID,
				ResponseText:  answer,
			}

			if err := tx.Create(&response).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		for _, upload := range uploads {
			os.Remove(upload.path)
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "application.submit", "applications", map[string]interface{}{
		"application_id": application.ID,
		"department_id":  department.ID,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	BroadcastRefresh(department.ID)

	ctx.JSON(http.StatusCreated, gin.H{
		"id":     application.ID,
		"status": application.Status,
	})
}

// MyApplications lists the student's own applications.
func MyApplications(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var applications []models.Application

	err = db.DB.Preload("Student").Preload("Department").
		Where("student_id = ?", actor.ID).
		Order("created_at desc").
		Find(&applications).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications"})
		return
	}

	response := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		response = append(response, applicationResponse(application))
	}

	ctx.JSON(http.StatusOK, response)
}

func extensionAllowed(filename, allowed string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	for _, candidate := range strings.Split(allowed, ",") {
		if ext == strings.ToLower(strings.TrimSpace(candidate)) {
			return true
		}
	}

	return false
}

func uploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")

	if dir == "" {
		dir = "uploads"
	}

	os.MkdirAll(dir, 0o755)

	return dir
}
