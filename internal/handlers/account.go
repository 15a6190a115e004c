package handlers

import (
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password"`
	GeneratePassword bool   `json:"generate_password"`
	Role             string `json:"role"`
	DepartmentID     *uint  `json:"department_id"`
}

type AccountResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DepartmentID *uint  `json:"department_id,omitempty"`
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

func generatePassword(length int) (string, error) {
	var sb strings.Builder

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(passwordAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

func accountResponse(admin models.Admin) AccountResponse {
	return AccountResponse{
		ID:           admin.ID,
		Name:         admin.Name,
		Email:        admin.Email,
		Role:         admin.Role,
		DepartmentID: admin.DepartmentID,
	}
}

func ListAccounts(ctx *gin.Context) {
	var admins []models.Admin

	if err := db.DB.Order("created_at desc").Find(&admins).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve accounts"})
		return
	}

	response := make([]AccountResponse, 0, len(admins))
	for _, admin := range admins {
		response = append(response, accountResponse(admin))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateAccount(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var body AccountRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	role := body.Role
	if role == "" {
		role = models.RoleSuperAdmin
	}

	if role != models.RoleSuperAdmin && role != models.RoleDeptAdmin {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var departmentID *uint
	if role == models.RoleDeptAdmin {
		if body.DepartmentID == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Department is required for dept-admin accounts"})
			return
		}
		departmentID = body.DepartmentID
	}

	var existing models.Admin

	err = db.DB.Where("email = ?", body.Email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "An account with this email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing account: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	password := body.Password
	generated := false

	if body.GeneratePassword {
		password, err = generatePassword(12)
		if err != nil {
			log.Printf("Failed to generate password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		generated = true
	}

	if password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Provide a password or set generate_password"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	admin := models.Admin{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(passwordHash),
		Role:         role,
		DepartmentID: departmentID,
	}

	if err := db.DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create account: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "account.create", "accounts", map[string]interface{}{
		"account_id": admin.ID,
		"email":      admin.Email,
		"role":       admin.Role,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	response := gin.H{"account": accountResponse(admin)}
	if generated {
		// Shown once; only the hash is stored.
		response["generated_password"] = password
	}

	ctx.JSON(http.StatusCreated, response)
}

func UpdateAccount(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var admin models.Admin

	if err := db.DB.First(&admin, ctx.Param("admin_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}

	// The seeded first admin stays untouchable.
	if admin.ID == 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot edit the default admin account"})
		return
	}

	var body AccountRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	if body.Email != admin.Email {
		var existing models.Admin
		err := db.DB.Where("email = ? AND id != ?", body.Email, admin.ID).First(&existing).Error
		if err == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "An account with this email already exists"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Database error when checking existing email: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	admin.Name = body.Name
	admin.Email = body.Email

	if body.Role == models.RoleSuperAdmin || body.Role == models.RoleDeptAdmin {
		admin.Role = body.Role
	}

	if admin.Role == models.RoleDeptAdmin {
		if body.DepartmentID == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Department is required for dept-admin accounts"})
			return
		}
		admin.DepartmentID = body.DepartmentID
	} else {
		admin.DepartmentID = nil
	}

	response := gin.H{}

	if body.GeneratePassword {
		password, err := generatePassword(12)
		if err != nil {
			log.Printf("Failed to generate password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		admin.PasswordHash = string(passwordHash)
		response["generated_password"] = password
	} else if body.Password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		admin.PasswordHash = string(passwordHash)
	}

	if err := db.DB.Save(&admin).Error; err != nil {
		log.Printf("Failed to update account: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "account.update", "accounts", map[string]interface{}{
		"account_id": admin.ID,
		"email":      admin.Email,
		"role":       admin.Role,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	response["account"] = accountResponse(admin)

	ctx.JSON(http.StatusOK, response)
}

func DeleteAccount(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var admin models.Admin

	if err := db.DB.First(&admin, ctx.Param("admin_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}

	if admin.ID == actor.ID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	if admin.ID == 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete the default admin account"})
		return
	}

	if err := db.DB.Delete(&admin).Error; err != nil {
		log.Printf("Failed to delete account: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "account.delete", "accounts", map[string]interface{}{
		"account_id": admin.ID,
		"email":      admin.Email,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	ctx.Status(http.StatusNoContent)
}
