package rounds

import (
	"context"
	"testing"

	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceCreatesAndOverwrites(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	rc, err := engine.Advance(ctx, technical.ID, a1.ID, models.CandidateSelected, actor)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateSelected, rc.Status)
	assert.Equal(t, 1, store.candidateCount())
	assert.Equal(t, 1, store.auditCount())

	// Second write for the same pair updates in place, no duplicate row.
	rc, err = engine.Advance(ctx, technical.ID, a1.ID, models.CandidateNotSelected, actor)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateNotSelected, rc.Status)
	assert.Equal(t, 1, store.candidateCount())
	assert.Equal(t, 2, store.auditCount())
}

func TestAdvanceIsIdempotentExceptAudit(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	first, err := engine.Advance(ctx, technical.ID, a1.ID, models.CandidateSelected, actor)
	require.NoError(t, err)

	second, err := engine.Advance(ctx, technical.ID, a1.ID, models.CandidateSelected, actor)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, 2, store.auditCount(), "audit is append-only, one entry per call")
}

func TestAdvanceSkipsEligibilityCheck(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)
	hr := store.addRound("HR", &technical.ID, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	// a1 was never selected in Technical, but administrators may pre-stage
	// decisions before a round opens.
	rc, err := engine.Advance(ctx, hr.ID, a1.ID, models.CandidateSelected, actor)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateSelected, rc.Status)
}

func TestAdvanceLockedRound(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	_, err := engine.Toggle(ctx, technical.ID, a1.ID, actor)
	require.NoError(t, err)

	_, err = engine.ToggleLock(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)

	audits := store.auditCount()

	_, err = engine.Toggle(ctx, technical.ID, a1.ID, actor)
	assert.ErrorIs(t, err, ErrLockedRound)

	_, err = engine.Advance(ctx, technical.ID, a1.ID, models.CandidateNotSelected, actor)
	assert.ErrorIs(t, err, ErrLockedRound)

	_, err = engine.UpdateNotes(ctx, technical.ID, a1.ID, "late note", actor)
	assert.ErrorIs(t, err, ErrLockedRound)

	// The row is untouched and no audit entries were written for the refusals.
	rc, err := store.RoundCandidate(ctx, technical.ID, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateSelected, rc.Status)
	assert.Empty(t, rc.Notes)
	assert.Equal(t, audits, store.auditCount())
}

func TestAdvanceScopeEnforcement(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	deptY := store.addDepartment("Design")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	ctx := context.Background()

	otherDept := Actor{ID: 8, Kind: ActorAdmin, Scope: DepartmentScope(deptY.ID)}
	_, err := engine.Advance(ctx, technical.ID, a1.ID, models.CandidateSelected, otherDept)
	assert.ErrorIs(t, err, ErrForbidden)

	student := Actor{ID: 9, Kind: ActorStudent, Scope: NoScope()}
	_, err = engine.Advance(ctx, technical.ID, a1.ID, models.CandidateSelected, student)
	assert.ErrorIs(t, err, ErrForbidden)

	sameDept := Actor{ID: 10, Kind: ActorAdmin, Scope: DepartmentScope(deptX.ID)}
	rc, err := engine.Advance(ctx, technical.ID, a1.ID, models.CandidateSelected, sameDept)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateSelected, rc.Status)

	assert.Equal(t, 1, store.auditCount(), "only the successful call is audited")
}

func TestAdvanceMissingRows(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	_, err := engine.Advance(ctx, technical.ID, 999, models.CandidateSelected, actor)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = engine.Advance(ctx, 999, a1.ID, models.CandidateSelected, actor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleFirstTouchSelects(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	rc, err := engine.Toggle(ctx, technical.ID, a1.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateSelected, rc.Status, "absent row defaults to selected on first toggle")

	rc, err = engine.Toggle(ctx, technical.ID, a1.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateNotSelected, rc.Status)

	rc, err = engine.Toggle(ctx, technical.ID, a1.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateSelected, rc.Status)
}

func TestTogglePendingRowSelects(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	// A stored pending row (from a notes update) toggles like an absent one.
	_, err := engine.UpdateNotes(ctx, technical.ID, a1.ID, "strong interview", actor)
	require.NoError(t, err)

	rc, err := engine.Toggle(ctx, technical.ID, a1.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateSelected, rc.Status)
	assert.Equal(t, "strong interview", rc.Notes, "notes survive status changes")
}

func TestUpdateNotesCreatesImplicitPending(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}

	rc, err := engine.UpdateNotes(context.Background(), technical.ID, a1.ID, "shortlist", actor)
	require.NoError(t, err)
	assert.Equal(t, models.CandidatePending, rc.Status)
	assert.Equal(t, "shortlist", rc.Notes)
}

func TestToggleFlagsIndependentAndAudited(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	rd, err := engine.ToggleLock(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)
	assert.True(t, rd.IsLocked)

	// Results may be released while still locked; no ordering between flags.
	rd, err = engine.ToggleRelease(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)
	assert.True(t, rd.ResultsReleased)
	assert.True(t, rd.IsLocked)

	rd, err = engine.ToggleNotesPublic(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)
	assert.True(t, rd.NotesPublic)

	assert.Equal(t, 3, store.auditCount())

	deptAdmin := Actor{ID: 8, Kind: ActorAdmin, Scope: DepartmentScope(deptX.ID)}
	_, err = engine.ToggleLock(ctx, technical.ID, deptX.ID, deptAdmin)
	assert.ErrorIs(t, err, ErrForbidden, "flag toggles are site-wide configuration")
}

func TestCreateRoundSeedsDepartments(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	deptY := store.addDepartment("Design")

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	round, err := engine.CreateRound(ctx, RoundParams{Name: "Technical"}, actor)
	require.NoError(t, err)

	for _, deptID := range []uint{deptX.ID, deptY.ID} {
		rd, err := store.RoundDepartment(ctx, round.ID, deptID)
		require.NoError(t, err)
		assert.False(t, rd.IsLocked)
		assert.False(t, rd.ResultsReleased)
		assert.False(t, rd.NotesPublic)
	}

	assert.Equal(t, 1, store.auditCount())
}

func TestUpdateRoundRejectsCycles(t *testing.T) {
	store := newFakeStore()
	store.addDepartment("Tech")
	technical := store.addRound("Technical", nil, false)
	hr := store.addRound("HR", &technical.ID, false)
	final := store.addRound("Final", &hr.ID, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	// Self-reference.
	_, err := engine.UpdateRound(ctx, technical.ID, RoundParams{
		Name:           "Technical",
		PrerequisiteID: &technical.ID,
	}, actor)
	assert.ErrorIs(t, err, ErrCyclicPrerequisite)

	// Technical -> Final would close Technical -> HR -> Final -> Technical.
	_, err = engine.UpdateRound(ctx, technical.ID, RoundParams{
		Name:           "Technical",
		PrerequisiteID: &final.ID,
	}, actor)
	assert.ErrorIs(t, err, ErrCyclicPrerequisite)

	// Reparenting Final directly under Technical stays a forest.
	updated, err := engine.UpdateRound(ctx, final.ID, RoundParams{
		Name:           "Final",
		PrerequisiteID: &technical.ID,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, technical.ID, *updated.PrerequisiteID)
}

func TestCreateRoundRejectsMissingPrerequisite(t *testing.T) {
	store := newFakeStore()
	store.addDepartment("Tech")

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}

	missing := uint(42)
	_, err := engine.CreateRound(context.Background(), RoundParams{
		Name:           "HR",
		PrerequisiteID: &missing,
	}, actor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRoundRefusedWithDependents(t *testing.T) {
	store := newFakeStore()
	store.addDepartment("Tech")
	technical := store.addRound("Technical", nil, false)
	hr := store.addRound("HR", &technical.ID, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	err := engine.DeleteRound(ctx, technical.ID, actor)
	assert.ErrorIs(t, err, ErrHasDependents)

	// Deleting the leaf first, then the root, works.
	require.NoError(t, engine.DeleteRound(ctx, hr.ID, actor))
	require.NoError(t, engine.DeleteRound(ctx, technical.ID, actor))

	_, err = store.Round(ctx, technical.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRoundClearsDependentState(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Tech")
	app := store.addApplication(1, dept.ID)
	technical := store.addRound("Technical", nil, false)
	hr := store.addRound("HR", &technical.ID, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	_, err := engine.Advance(ctx, technical.ID, app.ID, models.CandidateSelected, actor)
	require.NoError(t, err)
	_, err = engine.Advance(ctx, hr.ID, app.ID, models.CandidatePending, actor)
	require.NoError(t, err)

	require.NoError(t, engine.DeleteRound(ctx, hr.ID, actor))

	// Per-department state and candidate rows for the deleted round are gone;
	// the surviving round keeps its own.
	assert.Equal(t, 0, store.roundDepartmentCount(hr.ID))
	rc, err := store.RoundCandidate(ctx, hr.ID, app.ID)
	require.NoError(t, err)
	assert.Nil(t, rc)

	assert.Equal(t, 1, store.roundDepartmentCount(technical.ID))
	rc, err = store.RoundCandidate(ctx, technical.ID, app.ID)
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Equal(t, models.CandidateSelected, rc.Status)
}

func TestCandidateBoardEligibilityAndCounts(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	deptY := store.addDepartment("Design")
	a1 := store.addApplication(1, deptX.ID)
	a2 := store.addApplication(2, deptX.ID)
	a3 := store.addApplication(3, deptY.ID)
	technical := store.addRound("Technical", nil, false)
	hr := store.addRound("HR", &technical.ID, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	// First-stage board: every department application, other depts excluded.
	board, err := engine.CandidateBoard(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, 2, board.Pending)

	_, err = engine.Advance(ctx, technical.ID, a1.ID, models.CandidateSelected, actor)
	require.NoError(t, err)
	_, err = engine.Advance(ctx, technical.ID, a2.ID, models.CandidateNotSelected, actor)
	require.NoError(t, err)
	_, err = engine.Advance(ctx, technical.ID, a3.ID, models.CandidateSelected, actor)
	require.NoError(t, err)

	board, err = engine.CandidateBoard(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, board.Selected)
	assert.Equal(t, 1, board.NotSelected)
	assert.Equal(t, 0, board.Pending)

	// HR board only shows applications selected in Technical, per department.
	board, err = engine.CandidateBoard(ctx, hr.ID, deptX.ID, actor)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, a1.ID, board.Entries[0].Application.ID)
	assert.Nil(t, board.Entries[0].Candidate, "no HR row yet reads as pending")

	// Department-scoped admin can read own board, not the other department's.
	deptAdmin := Actor{ID: 8, Kind: ActorAdmin, Scope: DepartmentScope(deptX.ID)}
	_, err = engine.CandidateBoard(ctx, technical.ID, deptY.ID, deptAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestScopeAllows(t *testing.T) {
	assert.True(t, GlobalScope().Allows(1))
	assert.True(t, GlobalScope().Allows(99))
	assert.True(t, GlobalScope().Global())

	assert.True(t, DepartmentScope(3).Allows(3))
	assert.False(t, DepartmentScope(3).Allows(4))
	assert.False(t, DepartmentScope(3).Global())

	assert.False(t, NoScope().Allows(3))
	assert.False(t, NoScope().Global())
}
