package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/utils"
)

type SettingsRequest struct {
	AllowSignup     *bool   `json:"allow_signup"`
	AllowEmailLogin *bool   `json:"allow_email_login"`
	AllowedDomains  *string `json:"allowed_domains"`
}

func GetSettings(ctx *gin.Context) {
	settings := loadSettings()

	ctx.JSON(http.StatusOK, gin.H{
		"version":           settings.Version,
		"allow_signup":      settings.AllowSignup,
		"allow_email_login": settings.AllowEmailLogin,
		"allowed_domains":   settings.AllowedDomains,
	})
}

// UpdateSettings applies a partial update to the single settings row and bumps
// its version.
func UpdateSettings(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var body SettingsRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var settings models.SiteSettings

	if err := db.DB.First(&settings, 1).Error; err != nil {
		settings = models.SiteSettings{ID: 1, Version: 0, AllowSignup: true, AllowEmailLogin: true}
	}

	if body.AllowSignup != nil {
		settings.AllowSignup = *body.AllowSignup
	}

	if body.AllowEmailLogin != nil {
		settings.AllowEmailLogin = *body.AllowEmailLogin
	}

	if body.AllowedDomains != nil {
		settings.AllowedDomains = *body.AllowedDomains
	}

	settings.Version++

	if err := db.DB.Save(&settings).Error; err != nil {
		log.Printf("Failed to update settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := recorder().Record(ctx.Request.Context(), actor.WorkflowActor(), "settings.update", "settings", map[string]interface{}{
		"version":           settings.Version,
		"allow_signup":      settings.AllowSignup,
		"allow_email_login": settings.AllowEmailLogin,
		"allowed_domains":   settings.AllowedDomains,
	}); err != nil {
		log.Printf("Failed to record audit entry: %v", err)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"version":           settings.Version,
		"allow_signup":      settings.AllowSignup,
		"allow_email_login": settings.AllowEmailLogin,
		"allowed_domains":   settings.AllowedDomains,
	})
}
