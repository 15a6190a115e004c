package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/internal/handlers"
	"github.com/recruitdesk/recruitdesk/internal/middleware"
	"github.com/recruitdesk/recruitdesk/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewRedisLimiterFromEnv()

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:department_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(limiter, "register", 5, time.Minute), handlers.RegisterStudent)
			auth.POST("/login", middleware.RateLimit(limiter, "login", 10, time.Minute), handlers.LoginStudent)
			auth.POST("/admin/login", middleware.RateLimit(limiter, "admin-login", 10, time.Minute), handlers.LoginAdmin)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.POST("/logout", handlers.Logout)
		}

		// Public catalogue for applicants browsing before signing in.
		api.GET("/departments", handlers.ListOpenDepartments)
		api.GET("/departments/:department_id", handlers.GetDepartment)

		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireSuperAdmin())
		{
			admin.GET("/dashboard", handlers.AdminDashboard)

			admin.GET("/accounts", handlers.ListAccounts)
			admin.POST("/accounts", handlers.CreateAccount)
			admin.PUT("/accounts/:admin_id", handlers.UpdateAccount)
			admin.DELETE("/accounts/:admin_id", handlers.DeleteAccount)

			admin.POST("/departments", handlers.CreateDepartment)
			admin.DELETE("/departments/:department_id", handlers.DeleteDepartment)
			admin.POST("/departments/:department_id/toggle", handlers.ToggleDepartment)

			admin.POST("/rounds", handlers.CreateRound)
			admin.PUT("/rounds/:round_id", handlers.UpdateRound)
			admin.DELETE("/rounds/:round_id", handlers.DeleteRound)
			admin.POST("/rounds/:round_id/departments/:department_id/lock", handlers.ToggleRoundLock)
			admin.POST("/rounds/:round_id/departments/:department_id/release", handlers.ToggleRoundRelease)
			admin.POST("/rounds/:round_id/departments/:department_id/notes-public", handlers.ToggleRoundNotesPublic)

			admin.GET("/profile-fields", handlers.ListProfileFields)
			admin.POST("/profile-fields", handlers.CreateProfileField)
			admin.PUT("/profile-fields/:field_id", handlers.UpdateProfileField)
			admin.DELETE("/profile-fields/:field_id", handlers.DeleteProfileField)

			admin.GET("/settings", handlers.GetSettings)
			admin.PUT("/settings", handlers.UpdateSettings)

			admin.GET("/audit-logs", handlers.ListAuditLogs)
		}

		// Shared by both admin roles; handlers enforce department scope.
		manage := api.Group("/manage", middleware.AuthMiddleware(), middleware.RequireAdmin())
		{
			manage.GET("/departments", handlers.ListDepartments)
			manage.PUT("/departments/:department_id", handlers.UpdateDepartment)

			manage.GET("/departments/:department_id/questions", handlers.ListQuestions)
			manage.POST("/departments/:department_id/questions", handlers.CreateQuestion)
			manage.PUT("/departments/:department_id/questions/:question_id", handlers.UpdateQuestion)
			manage.DELETE("/departments/:department_id/questions/:question_id", handlers.DeleteQuestion)

			manage.GET("/applications", handlers.ListApplications)
			manage.GET("/applications/:application_id", handlers.GetApplication)
			manage.PUT("/applications/:application_id/status", handlers.UpdateApplicationStatus)

			manage.GET("/rounds", handlers.ListRounds)
			manage.GET("/rounds/:round_id", handlers.GetRound)
			manage.GET("/rounds/:round_id/departments/:department_id/board", handlers.CandidateBoard)
			manage.POST("/rounds/:round_id/candidates/:application_id/advance", handlers.AdvanceCandidate)
			manage.POST("/rounds/:round_id/candidates/:application_id/toggle", handlers.ToggleCandidate)
			manage.PUT("/rounds/:round_id/candidates/:application_id/notes", handlers.UpdateCandidateNotes)
		}

		dept := api.Group("/dept", middleware.AuthMiddleware(), middleware.RequireDeptAdmin())
		{
			dept.GET("/dashboard", handlers.DeptDashboard)
			dept.GET("/department", handlers.MyDepartment)
		}

		student := api.Group("/student", middleware.AuthMiddleware(), middleware.RequireStudent())
		{
			student.GET("/dashboard", handlers.StudentDashboard)
			student.GET("/profile", handlers.GetMyProfile)
			student.PUT("/profile", handlers.UpdateMyProfile)
			student.GET("/profile-fields", handlers.ListEnabledProfileFields)
			student.GET("/applications", handlers.MyApplications)
			student.GET("/applications/:application_id/rounds", handlers.MyRounds)
			student.POST("/departments/:department_id/apply", middleware.RateLimit(limiter, "apply", 10, time.Minute), handlers.SubmitApplication)
		}
	}

	return r
}
