package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/utils"
)

// AdminDashboard aggregates site-wide counts for the super admin landing page.
func AdminDashboard(ctx *gin.Context) {
	var students, admins, departments, applications, pending, accepted, rejected, rounds int64

	db.DB.Model(&models.Student{}).Count(&students)
	db.DB.Model(&models.Admin{}).Count(&admins)
	db.DB.Model(&models.Department{}).Count(&departments)
	db.DB.Model(&models.Application{}).Count(&applications)
	db.DB.Model(&models.Application{}).Where("status = ?", models.ApplicationPending).Count(&pending)
	db.DB.Model(&models.Application{}).Where("status = ?", models.ApplicationAccepted).Count(&accepted)
	db.DB.Model(&models.Application{}).Where("status = ?", models.ApplicationRejected).Count(&rejected)
	db.DB.Model(&models.Round{}).Count(&rounds)

	var recent []models.Application
	db.DB.Preload("Student").Preload("Department").Order("created_at desc").Limit(5).Find(&recent)

	recentResponse := make([]ApplicationResponse, 0, len(recent))
	for _, application := range recent {
		recentResponse = append(recentResponse, applicationResponse(application))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"students":            students,
		"admins":              admins,
		"departments":         departments,
		"applications":        applications,
		"pending":             pending,
		"accepted":            accepted,
		"rejected":            rejected,
		"rounds":              rounds,
		"recent_applications": recentResponse,
	})
}

// DeptDashboard aggregates counts for the dept-admin's own department.
func DeptDashboard(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil || actor.DepartmentID == nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No department assigned"})
		return
	}

	departmentID := *actor.DepartmentID

	var applications, pending, accepted, rejected int64

	db.DB.Model(&models.Application{}).Where("department_id = ?", departmentID).Count(&applications)
	db.DB.Model(&models.Application{}).Where("department_id = ? AND status = ?", departmentID, models.ApplicationPending).Count(&pending)
	db.DB.Model(&models.Application{}).Where("department_id = ? AND status = ?", departmentID, models.ApplicationAccepted).Count(&accepted)
	db.DB.Model(&models.Application{}).Where("department_id = ? AND status = ?", departmentID, models.ApplicationRejected).Count(&rejected)

	// Per-round selection counts, scoped through the department's applications.
	type roundCount struct {
		RoundID  uint   `json:"round_id"`
		Name     string `json:"name"`
		Selected int64  `json:"selected"`
	}

	var perRound []roundCount

	db.DB.Model(&models.RoundCandidate{}).
		Select("round_candidates.round_id, rounds.name, count(*) as selected").
		Joins("JOIN rounds ON rounds.id = round_candidates.round_id").
		Joins("JOIN applications ON applications.id = round_candidates.application_id").
		Where("applications.department_id = ? AND round_candidates.status = ?", departmentID, models.CandidateSelected).
		Group("round_candidates.round_id, rounds.name").
		Order("round_candidates.round_id").
		Scan(&perRound)

	ctx.JSON(http.StatusOK, gin.H{
		"department_id": departmentID,
		"applications":  applications,
		"pending":       pending,
		"accepted":      accepted,
		"rejected":      rejected,
		"rounds":        perRound,
	})
}

// StudentDashboard summarizes the student's applications and profile state.
func StudentDashboard(ctx *gin.Context) {
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

	var applications, openDepartments int64

	db.DB.Model(&models.Application{}).Where("student_id = ?", student.ID).Count(&applications)
	db.DB.Model(&models.Department{}).Where("is_active = ?", true).Count(&openDepartments)

	ctx.JSON(http.StatusOK, gin.H{
		"profile_completion": student.ProfileCompletion(),
		"can_apply":          student.CanApply(),
		"applications":       applications,
		"open_departments":   openDepartments,
	})
}
