package rounds

import (
	"context"
	"fmt"

	"github.com/recruitdesk/recruitdesk/internal/models"
)

// Engine is the round progression state machine. Every mutating operation runs
// in a single transaction: read state, validate preconditions, write, append
// the audit entry. Failed preconditions leave no trace.
type Engine struct {
	store    Store
	resolver *Resolver
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store:    store,
		resolver: NewResolver(store),
	}
}

func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Advance sets an application's status in a round, creating the candidate row
// if none exists. Eligibility is deliberately not checked here: administrators
// may pre-stage decisions before a round opens.
func (e *Engine) Advance(ctx context.Context, roundID, applicationID uint, status string, actor Actor) (*models.RoundCandidate, error) {
	if !models.ValidCandidateStatus(status) {
		return nil, fmt.Errorf("unknown candidate status %q", status)
	}

	var result *models.RoundCandidate

	err := e.store.Atomic(ctx, func(tx Store) error {
		rc, err := e.prepareCandidateWrite(ctx, tx, roundID, applicationID, actor)
		if err != nil {
			return err
		}

		oldStatus := models.CandidatePending
		if rc == nil {
			rc = &models.RoundCandidate{
				RoundID:       roundID,
				ApplicationID: applicationID,
				Status:        status,
			}
		} else {
			oldStatus = rc.Status
			rc.Status = status
		}

		if err := tx.SaveRoundCandidate(ctx, rc); err != nil {
			return err
		}

		result = rc

		return NewRecorder(tx).Record(ctx, actor, "candidate.advance", "rounds", map[string]interface{}{
			"round_id":       roundID,
			"application_id": applicationID,
			"old_status":     oldStatus,
			"new_status":     status,
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// Toggle flips an application between selected and not_selected. An untouched
// (or pending) candidate becomes selected on the first toggle. Convenience
// wrapper over Advance; the preconditions are the same.
func (e *Engine) Toggle(ctx context.Context, roundID, applicationID uint, actor Actor) (*models.RoundCandidate, error) {
	rc, err := e.store.RoundCandidate(ctx, roundID, applicationID)

	if err != nil {
		return nil, err
	}

	next := models.CandidateSelected
	if rc != nil && rc.Status == models.CandidateSelected {
		next = models.CandidateNotSelected
	}

	return e.Advance(ctx, roundID, applicationID, next, actor)
}

// UpdateNotes replaces a candidate's freeform notes, creating an implicit
// pending row when absent. Same lock and scope preconditions as Advance.
func (e *Engine) UpdateNotes(ctx context.Context, roundID, applicationID uint, notes string, actor Actor) (*models.RoundCandidate, error) {
	var result *models.RoundCandidate

	err := e.store.Atomic(ctx, func(tx Store) error {
		rc, err := e.prepareCandidateWrite(ctx, tx, roundID, applicationID, actor)
		if err != nil {
			return err
		}

		if rc == nil {
			rc = &models.RoundCandidate{
				RoundID:       roundID,
				ApplicationID: applicationID,
				Status:        models.CandidatePending,
			}
		}
		rc.Notes = notes

		if err := tx.SaveRoundCandidate(ctx, rc); err != nil {
			return err
		}

		result = rc

		return NewRecorder(tx).Record(ctx, actor, "candidate.notes", "rounds", map[string]interface{}{
			"round_id":       roundID,
			"application_id": applicationID,
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// prepareCandidateWrite validates the shared Advance/UpdateNotes preconditions
// and returns the existing candidate row, or nil when none exists yet.
func (e *Engine) prepareCandidateWrite(ctx context.Context, tx Store, roundID, applicationID uint, actor Actor) (*models.RoundCandidate, error) {
	application, err := tx.Application(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Round(ctx, roundID); err != nil {
		return nil, err
	}

	if !actor.Scope.Allows(application.DepartmentID) {
		return nil, ErrForbidden
	}

	rd, err := tx.RoundDepartment(ctx, roundID, application.DepartmentID)
	if err != nil {
		return nil, err
	}

	if rd.IsLocked {
		return nil, ErrLockedRound
	}

	return tx.RoundCandidate(ctx, roundID, applicationID)
}

// ToggleLock flips the mutation lock for a department in a round.
func (e *Engine) ToggleLock(ctx context.Context, roundID, departmentID uint, actor Actor) (*models.RoundDepartment, error) {
	return e.toggleFlag(ctx, roundID, departmentID, actor, "round.lock",
		func(rd *models.RoundDepartment) *bool { return &rd.IsLocked })
}

// ToggleRelease flips applicant-facing results visibility for a department in
// a round. Release carries no ordering dependency on the lock.
func (e *Engine) ToggleRelease(ctx context.Context, roundID, departmentID uint, actor Actor) (*models.RoundDepartment, error) {
	return e.toggleFlag(ctx, roundID, departmentID, actor, "round.release",
		func(rd *models.RoundDepartment) *bool { return &rd.ResultsReleased })
}

// ToggleNotesPublic flips applicant-facing notes visibility for a department
// in a round.
func (e *Engine) ToggleNotesPublic(ctx context.Context, roundID, departmentID uint, actor Actor) (*models.RoundDepartment, error) {
	return e.toggleFlag(ctx, roundID, departmentID, actor, "round.notes_public",
		func(rd *models.RoundDepartment) *bool { return &rd.NotesPublic })
}

func (e *Engine) toggleFlag(ctx context.Context, roundID, departmentID uint, actor Actor, action string, flag func(*models.RoundDepartment) *bool) (*models.RoundDepartment, error) {
	if !actor.Scope.Global() {
		return nil, ErrForbidden
	}

	var result *models.RoundDepartment

	err := e.store.Atomic(ctx, func(tx Store) error {
		rd, err := tx.RoundDepartment(ctx, roundID, departmentID)
		if err != nil {
			return err
		}

		target := flag(rd)
		old := *target
		*target = !old

		if err := tx.SaveRoundDepartment(ctx, rd); err != nil {
			return err
		}

		result = rd

		return NewRecorder(tx).Record(ctx, actor, action, "rounds", map[string]interface{}{
			"round_id":      roundID,
			"department_id": departmentID,
			"old_value":     old,
			"new_value":     !old,
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// RoundParams are the administrator-editable round fields.
type RoundParams struct {
	Name                 string
	Description          string
	PrerequisiteID       *uint
	VisibleBeforeResults bool
	DisplayOrder         int
}

// CreateRound creates a round and seeds a RoundDepartment row for every
// existing department.
func (e *Engine) CreateRound(ctx context.Context, params RoundParams, actor Actor) (*models.Round, error) {
	if !actor.Scope.Global() {
		return nil, ErrForbidden
	}

	var result *models.Round

	err := e.store.Atomic(ctx, func(tx Store) error {
		if err := validatePrerequisite(ctx, tx, 0, params.PrerequisiteID); err != nil {
			return err
		}

		round := &models.Round{
			Name:                 params.Name,
			Description:          params.Description,
			PrerequisiteID:       params.PrerequisiteID,
			VisibleBeforeResults: params.VisibleBeforeResults,
			DisplayOrder:         params.DisplayOrder,
		}

		if err := tx.CreateRound(ctx, round); err != nil {
			return err
		}

		departments, err := tx.Departments(ctx)
		if err != nil {
			return err
		}

		for _, dept := range departments {
			rd := &models.RoundDepartment{
				RoundID:      round.ID,
				DepartmentID: dept.ID,
			}
			if err := tx.CreateRoundDepartment(ctx, rd); err != nil {
				return err
			}
		}

		result = round

		return NewRecorder(tx).Record(ctx, actor, "round.create", "rounds", map[string]interface{}{
			"round_id": round.ID,
			"name":     round.Name,
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateRound edits a round, re-validating the prerequisite edge for cycles.
func (e *Engine) UpdateRound(ctx context.Context, id uint, params RoundParams, actor Actor) (*models.Round, error) {
	if !actor.Scope.Global() {
		return nil, ErrForbidden
	}

	var result *models.Round

	err := e.store.Atomic(ctx, func(tx Store) error {
		round, err := tx.Round(ctx, id)
		if err != nil {
			return err
		}

		if err := validatePrerequisite(ctx, tx, id, params.PrerequisiteID); err != nil {
			return err
		}

		round.Name = params.Name
		round.Description = params.Description
		round.PrerequisiteID = params.PrerequisiteID
		round.VisibleBeforeResults = params.VisibleBeforeResults
		round.DisplayOrder = params.DisplayOrder

		if err := tx.SaveRound(ctx, round); err != nil {
			return err
		}

		result = round

		return NewRecorder(tx).Record(ctx, actor, "round.update", "rounds", map[string]interface{}{
			"round_id": round.ID,
			"name":     round.Name,
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteRound removes a round and its per-department state and candidates.
// Refused while any other round names this one as prerequisite.
func (e *Engine) DeleteRound(ctx context.Context, id uint, actor Actor) error {
	if !actor.Scope.Global() {
		return ErrForbidden
	}

	return e.store.Atomic(ctx, func(tx Store) error {
		round, err := tx.Round(ctx, id)
		if err != nil {
			return err
		}

		dependents, err := tx.DependentRounds(ctx, id)
		if err != nil {
			return err
		}

		if len(dependents) > 0 {
			return ErrHasDependents
		}

		// Rows are removed through gorm's soft delete, so the database-level
		// cascade never fires; dependent rows go explicitly.
		if err := tx.DeleteRoundCandidates(ctx, id); err != nil {
			return err
		}

		if err := tx.DeleteRoundDepartments(ctx, id); err != nil {
			return err
		}

		if err := tx.DeleteRound(ctx, id); err != nil {
			return err
		}

		return NewRecorder(tx).Record(ctx, actor, "round.delete", "rounds", map[string]interface{}{
			"round_id": round.ID,
			"name":     round.Name,
		})
	})
}

// validatePrerequisite checks that the proposed edge exists and keeps the
// graph acyclic: walk the ancestors of the new prerequisite and reject if the
// walk revisits the round being edited. roundID 0 means a round being created.
func validatePrerequisite(ctx context.Context, store Store, roundID uint, prerequisiteID *uint) error {
	if prerequisiteID == nil {
		return nil
	}

	if roundID != 0 && *prerequisiteID == roundID {
		return ErrCyclicPrerequisite
	}

	seen := make(map[uint]bool)
	currentID := *prerequisiteID

	for {
		if seen[currentID] {
			return ErrCyclicPrerequisite
		}
		seen[currentID] = true

		ancestor, err := store.Round(ctx, currentID)
		if err != nil {
			return err
		}

		if ancestor.PrerequisiteID == nil {
			return nil
		}

		if roundID != 0 && *ancestor.PrerequisiteID == roundID {
			return ErrCyclicPrerequisite
		}

		currentID = *ancestor.PrerequisiteID
	}
}

// BoardEntry pairs an eligible application with its candidate row, if any.
type BoardEntry struct {
	Application models.Application
	Candidate   *models.RoundCandidate
}

// Board is the administrator view of a round within one department.
type Board struct {
	Round       models.Round
	State       models.RoundDepartment
	Entries     []BoardEntry
	Selected    int
	Pending     int
	NotSelected int
}

// CandidateBoard lists the applications eligible for a round in a department,
// joined with their current outcomes. Absent rows count as pending.
func (e *Engine) CandidateBoard(ctx context.Context, roundID, departmentID uint, actor Actor) (*Board, error) {
	if !actor.Scope.Allows(departmentID) {
		return nil, ErrForbidden
	}

	round, err := e.store.Round(ctx, roundID)
	if err != nil {
		return nil, err
	}

	rd, err := e.store.RoundDepartment(ctx, roundID, departmentID)
	if err != nil {
		return nil, err
	}

	applications, err := e.store.ApplicationsByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	// With a prerequisite only applications selected there are eligible;
	// first-stage rounds take the whole department.
	eligible := applications
	if round.PrerequisiteID != nil {
		selected := make(map[uint]bool)

		prereqCandidates, err := e.store.CandidatesByRound(ctx, *round.PrerequisiteID)
		if err != nil {
			return nil, err
		}

		for _, rc := range prereqCandidates {
			if rc.Status == models.CandidateSelected {
				selected[rc.ApplicationID] = true
			}
		}

		eligible = nil
		for _, application := range applications {
			if selected[application.ID] {
				eligible = append(eligible, application)
			}
		}
	}

	candidates, err := e.store.CandidatesByRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	byApplication := make(map[uint]*models.RoundCandidate, len(candidates))
	for i := range candidates {
		byApplication[candidates[i].ApplicationID] = &candidates[i]
	}

	board := &Board{Round: *round, State: *rd}

	for _, application := range eligible {
		rc := byApplication[application.ID]
		board.Entries = append(board.Entries, BoardEntry{Application: application, Candidate: rc})

		status := models.CandidatePending
		if rc != nil {
			status = rc.Status
		}

		switch status {
		case models.CandidateSelected:
			board.Selected++
		case models.CandidateNotSelected:
			board.NotSelected++
		default:
			board.Pending++
		}
	}

	return board, nil
}
