package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
)

// ListAuditLogs pages through the audit trail, newest first. Optional filters:
// area, action, actor_id.
func ListAuditLogs(ctx *gin.Context) {
	query := db.DB.Model(&models.AuditLog{})

	if area := ctx.Query("area"); area != "" {
		query = query.Where("area = ?", area)
	}

	if action := ctx.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	if actorID := ctx.Query("actor_id"); actorID != "" {
		query = query.Where("actor_id = ?", actorID)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	var logs []models.AuditLog

	err := query.Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"logs":   logs,
	})
}
