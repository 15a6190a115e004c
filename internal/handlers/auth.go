package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/auth"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/rounds"
	"github.com/recruitdesk/recruitdesk/internal/types"
	"github.com/recruitdesk/recruitdesk/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterStudentRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

func setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func loadSettings() models.SiteSettings {
	var settings models.SiteSettings

	if err := db.DB.First(&settings, 1).Error; err != nil {
		// Missing row behaves like the defaults.
		return models.SiteSettings{ID: 1, Version: 1, AllowSignup: true, AllowEmailLogin: true}
	}

	return settings
}

func RegisterStudent(ctx *gin.Context) {
	var body RegisterStudentRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	settings := loadSettings()

	if !settings.AllowSignup {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Signups are currently disabled"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	if !settings.EmailAllowed(body.Email) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Email domain is not allowed"})
		return
	}

	var existing models.Student

	err := db.DB.Where("email = ?", body.Email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing student: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	student := models.Student{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(passwordHash),
	}

	if err := db.DB.Create(&student).Error; err != nil {
		log.Printf("Failed to create student: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.GenerateJWT(auth.Claims{
		ActorID: student.ID,
		Email:   student.Email,
		Kind:    rounds.ActorStudent,
	})

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setTokenCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusCreated, gin.H{
		"user": types.ActorResponse{
			ID:    student.ID,
			Name:  student.Name,
			Email: student.Email,
			Kind:  rounds.ActorStudent,
		},
	})
}

func LoginStudent(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	settings := loadSettings()

	if !settings.AllowEmailLogin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Email login is currently disabled"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var student models.Student

	err := db.DB.Where("email = ?", body.Email).First(&student).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching student: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if student.PasswordHash == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(auth.Claims{
		ActorID: student.ID,
		Email:   student.Email,
		Kind:    rounds.ActorStudent,
	})

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setTokenCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.ActorResponse{
			ID:    student.ID,
			Name:  student.Name,
			Email: student.Email,
			Kind:  rounds.ActorStudent,
		},
	})
}

func LoginAdmin(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var admin models.Admin

	err := db.DB.Where("email = ?", body.Email).First(&admin).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching admin: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(auth.Claims{
		ActorID:      admin.ID,
		Email:        admin.Email,
		Kind:         rounds.ActorAdmin,
		Role:         admin.Role,
		DepartmentID: admin.DepartmentID,
	})

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setTokenCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.ActorResponse{
			ID:           admin.ID,
			Name:         admin.Name,
			Email:        admin.Email,
			Kind:         rounds.ActorAdmin,
			Role:         admin.Role,
			DepartmentID: admin.DepartmentID,
		},
	})
}

func Me(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.ActorResponse{
			ID:           actor.ID,
			Name:         actor.Name,
			Email:        actor.Email,
			Kind:         actor.Kind,
			Role:         actor.Role,
			DepartmentID: actor.DepartmentID,
		},
	})
}

func Logout(ctx *gin.Context) {
	setTokenCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
