package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/rounds"
	"github.com/recruitdesk/recruitdesk/internal/services"
	"github.com/recruitdesk/recruitdesk/internal/utils"
)

type RoundRequest struct {
	Name                 string `json:"name" binding:"required"`
	Description          string `json:"description"`
	PrerequisiteID       *uint  `json:"prerequisite_id"`
	VisibleBeforeResults bool   `json:"visible_before_results"`
	DisplayOrder         int    `json:"display_order"`
}

// workflowError translates engine sentinels into HTTP responses.
func workflowError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, rounds.ErrLockedRound):
		ctx.JSON(http.StatusLocked, gin.H{"error": "Round is locked for this department"})
	case errors.Is(err, rounds.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed for this department"})
	case errors.Is(err, rounds.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, rounds.ErrCyclicPrerequisite):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Prerequisite would create a cycle"})
	case errors.Is(err, rounds.ErrHasDependents):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Other rounds depend on this round"})
	default:
		log.Printf("Workflow error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}

	return uint(value), true
}

func ListRounds(ctx *gin.Context) {
	var allRounds []models.Round

	err := db.DB.Preload("Prerequisite").
		Order("display_order asc, id asc").
		Find(&allRounds).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rounds"})
		return
	}

	ctx.JSON(http.StatusOK, allRounds)
}

// GetRound returns the round with its per-department states.
func GetRound(ctx *gin.Context) {
	roundID, ok := uintParam(ctx, "round_id")

	if !ok {
		return
	}

	var round models.Round

	if err := db.DB.Preload("Prerequisite").First(&round, roundID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		return
	}

	var states []models.RoundDepartment
	db.DB.Preload("Department").Where("round_id = ?", roundID).Find(&states)

	ctx.JSON(http.StatusOK, gin.H{
		"round":  round,
		"states": states,
	})
}

func CreateRound(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var body RoundRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	round, err := engine().CreateRound(ctx.Request.Context(), rounds.RoundParams{
		Name:                 body.Name,
		Description:          body.Description,
		PrerequisiteID:       body.PrerequisiteID,
		VisibleBeforeResults: body.VisibleBeforeResults,
		DisplayOrder:         body.DisplayOrder,
	}, actor.WorkflowActor())

	if err != nil {
		workflowError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, round)
}

func UpdateRound(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roundID, ok := uintParam(ctx, "round_id")

	if !ok {
		return
	}

	var body RoundRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	round, err := engine().UpdateRound(ctx.Request.Context(), roundID, rounds.RoundParams{
		Name:                 body.Name,
		Description:          body.Description,
		PrerequisiteID:       body.PrerequisiteID,
		VisibleBeforeResults: body.VisibleBeforeResults,
		DisplayOrder:         body.DisplayOrder,
	}, actor.WorkflowActor())

	if err != nil {
		workflowError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, round)
}

func DeleteRound(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roundID, ok := uintParam(ctx, "round_id")

	if !ok {
		return
	}

	if err := engine().DeleteRound(ctx.Request.Context(), roundID, actor.WorkflowActor()); err != nil {
		workflowError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CandidateBoard serves the admin board: eligible applications for a round in
// one department, with outcomes and counts.
func CandidateBoard(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roundID, ok := uintParam(ctx, "round_id")
	if !ok {
		return
	}

	departmentID, ok := uintParam(ctx, "department_id")
	if !ok {
		return
	}

	board, err := engine().CandidateBoard(ctx.Request.Context(), roundID, departmentID, actor.WorkflowActor())

	if err != nil {
		workflowError(ctx, err)
		return
	}

	entries := make([]gin.H, 0, len(board.Entries))

	for _, entry := range board.Entries {
		status := models.CandidatePending
		notes := ""

		if entry.Candidate != nil {
			status = entry.Candidate.Status
			notes = entry.Candidate.Notes
		}

		entries = append(entries, gin.H{
			"application_id": entry.Application.ID,
			"student_name":   entry.Application.Student.Name,
			"reg_no":         entry.Application.Student.RegNo,
			"position":       entry.Application.Position,
			"status":         status,
			"notes":          notes,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"round": gin.H{
			"id":   board.Round.ID,
			"name": board.Round.Name,
		},
		"is_locked":        board.State.IsLocked,
		"results_released": board.State.ResultsReleased,
		"notes_public":     board.State.NotesPublic,
		"entries":          entries,
		"selected":         board.Selected,
		"pending":          board.Pending,
		"not_selected":     board.NotSelected,
	})
}

type AdvanceRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdvanceCandidate sets an explicit status for an application in a round.
func AdvanceCandidate(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roundID, ok := uintParam(ctx, "round_id")
	if !ok {
		return
	}

	applicationID, ok := uintParam(ctx, "application_id")
	if !ok {
		return
	}

	var body AdvanceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.ValidCandidateStatus(body.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate status"})
		return
	}

	rc, err := engine().Advance(ctx.Request.Context(), roundID, applicationID, body.Status, actor.WorkflowActor())

	if err != nil {
		workflowError(ctx, err)
		return
	}

	broadcastForApplication(applicationID)

	ctx.JSON(http.StatusOK, gin.H{"status": rc.Status, "notes": rc.Notes})
}

// ToggleCandidate flips an application between selected and not_selected. The
// first touch of an untouched candidate selects.
func ToggleCandidate(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roundID, ok := uintParam(ctx, "round_id")
	if !ok {
		return
	}

	applicationID, ok := uintParam(ctx, "application_id")
	if !ok {
		return
	}

	rc, err := engine().Toggle(ctx.Request.Context(), roundID, applicationID, actor.WorkflowActor())

	if err != nil {
		workflowError(ctx, err)
		return
	}

	broadcastForApplication(applicationID)

	ctx.JSON(http.StatusOK, gin.H{"status": rc.Status, "notes": rc.Notes})
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateCandidateNotes replaces the freeform notes for an application in a round.
func UpdateCandidateNotes(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roundID, ok := uintParam(ctx, "round_id")
	if !ok {
		return
	}

	applicationID, ok := uintParam(ctx, "application_id")
	if !ok {
		return
	}

	var body NotesRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	rc, err := engine().UpdateNotes(ctx.Request.Context(), roundID, applicationID, body.Notes, actor.WorkflowActor())

	if err != nil {
		workflowError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": rc.Status, "notes": rc.Notes})
}

// ToggleRoundLock flips the mutation lock for one department in a round.
func ToggleRoundLock(ctx *gin.Context) {
	toggleRoundFlag(ctx, func(roundID, departmentID uint, actor rounds.Actor) (*models.RoundDepartment, error) {
		return engine().ToggleLock(ctx.Request.Context(), roundID, departmentID, actor)
	}, nil)
}

// ToggleRoundRelease flips results visibility; releasing fires the results
// webhook and nudges connected dashboards.
func ToggleRoundRelease(ctx *gin.Context) {
	toggleRoundFlag(ctx, func(roundID, departmentID uint, actor rounds.Actor) (*models.RoundDepartment, error) {
		return engine().ToggleRelease(ctx.Request.Context(), roundID, departmentID, actor)
	}, func(rd *models.RoundDepartment) {
		if !rd.ResultsReleased {
			return
		}

		var round models.Round
		var department models.Department

		if db.DB.First(&round, rd.RoundID).Error == nil && db.DB.First(&department, rd.DepartmentID).Error == nil {
			go services.NotifyResultsReleased(round.Name, department.Name)
		}
	})
}

// ToggleRoundNotesPublic flips applicant-facing notes visibility.
func ToggleRoundNotesPublic(ctx *gin.Context) {
	toggleRoundFlag(ctx, func(roundID, departmentID uint, actor rounds.Actor) (*models.RoundDepartment, error) {
		return engine().ToggleNotesPublic(ctx.Request.Context(), roundID, departmentID, actor)
	}, nil)
}

func toggleRoundFlag(ctx *gin.Context, toggle func(uint, uint, rounds.Actor) (*models.RoundDepartment, error), after func(*models.RoundDepartment)) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roundID, ok := uintParam(ctx, "round_id")
	if !ok {
		return
	}

	departmentID, ok := uintParam(ctx, "department_id")
	if !ok {
		return
	}

	rd, err := toggle(roundID, departmentID, actor.WorkflowActor())

	if err != nil {
		workflowError(ctx, err)
		return
	}

	if after != nil {
		after(rd)
	}

	BroadcastRefresh(departmentID)

	ctx.JSON(http.StatusOK, gin.H{
		"is_locked":        rd.IsLocked,
		"results_released": rd.ResultsReleased,
		"notes_public":     rd.NotesPublic,
	})
}

// MyRounds serves the applicant-facing trail for one of the student's own
// applications.
func MyRounds(ctx *gin.Context) {
	actor, err := utils.GetCurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	applicationID, ok := uintParam(ctx, "application_id")
	if !ok {
		return
	}

	var application models.Application

	if err := db.DB.First(&application, applicationID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if application.StudentID != actor.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not your application"})
		return
	}

	trail, err := engine().StudentRounds(ctx.Request.Context(), &application)

	if err != nil {
		workflowError(ctx, err)
		return
	}

	response := make([]gin.H, 0, len(trail))

	for _, stage := range trail {
		entry := gin.H{
			"round_id":    stage.Round.ID,
			"name":        stage.Round.Name,
			"description": stage.Round.Description,
			"status":      stage.Projection.Status,
			"eligible":    stage.Eligible,
		}

		if stage.Projection.NotesVisible {
			entry["notes"] = stage.Projection.Notes
		}

		response = append(response, entry)
	}

	ctx.JSON(http.StatusOK, response)
}

func broadcastForApplication(applicationID uint) {
	var application models.Application

	if err := db.DB.First(&application, applicationID).Error; err != nil {
		return
	}

	BroadcastRefresh(application.DepartmentID)
}
