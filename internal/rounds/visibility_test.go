package rounds

import (
	"context"
	"testing"

	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectHiddenUntilReleased(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	_, err := engine.Toggle(ctx, technical.ID, a1.ID, actor)
	require.NoError(t, err)

	projector := NewProjector(store)

	projection, err := projector.Project(ctx, &technical, &a1)
	require.NoError(t, err)
	assert.Nil(t, projection, "hidden while unreleased and not visible before results")

	_, err = engine.ToggleRelease(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)

	projection, err = projector.Project(ctx, &technical, &a1)
	require.NoError(t, err)
	require.NotNil(t, projection)
	assert.Equal(t, models.CandidateSelected, projection.Status)
	assert.Empty(t, projection.Notes, "notes stay hidden until notes_public")
	assert.False(t, projection.NotesVisible)
}

func TestProjectVisibleBeforeResults(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, true)

	projection, err := NewProjector(store).Project(context.Background(), &technical, &a1)
	require.NoError(t, err)
	require.NotNil(t, projection, "visible_before_results overrides an unreleased department")
	assert.Equal(t, models.CandidatePending, projection.Status, "absent row projects as pending")
}

func TestProjectNotesGating(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	_, err := engine.Advance(ctx, technical.ID, a1.ID, models.CandidateSelected, actor)
	require.NoError(t, err)
	_, err = engine.UpdateNotes(ctx, technical.ID, a1.ID, "great fit", actor)
	require.NoError(t, err)
	_, err = engine.ToggleRelease(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)
	_, err = engine.ToggleNotesPublic(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)

	projection, err := NewProjector(store).Project(ctx, &technical, &a1)
	require.NoError(t, err)
	require.NotNil(t, projection)
	assert.Equal(t, models.CandidateSelected, projection.Status)
	assert.Equal(t, "great fit", projection.Notes)
	assert.True(t, projection.NotesVisible)
}

func TestProjectionReactsToFlagFlips(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	technical := store.addRound("Technical", nil, false)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()
	projector := NewProjector(store)

	_, err := engine.ToggleRelease(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)

	projection, err := projector.Project(ctx, &technical, &a1)
	require.NoError(t, err)
	assert.NotNil(t, projection)

	// Pulling the release hides the round again on the next read.
	_, err = engine.ToggleRelease(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)

	projection, err = projector.Project(ctx, &technical, &a1)
	require.NoError(t, err)
	assert.Nil(t, projection)
}

func TestStudentRoundsTrail(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	a2 := store.addApplication(2, deptX.ID)
	technical := store.addRound("Technical", nil, false)
	hr := store.addRound("HR", &technical.ID, true)

	engine := NewEngine(store)
	actor := Actor{ID: 7, Kind: ActorAdmin, Scope: GlobalScope()}
	ctx := context.Background()

	_, err := engine.Toggle(ctx, technical.ID, a1.ID, actor)
	require.NoError(t, err)
	_, err = engine.ToggleRelease(ctx, technical.ID, deptX.ID, actor)
	require.NoError(t, err)

	trail, err := engine.StudentRounds(ctx, &a1)
	require.NoError(t, err)
	require.Len(t, trail, 2)

	assert.Equal(t, technical.ID, trail[0].Round.ID)
	assert.Equal(t, models.CandidateSelected, trail[0].Projection.Status)
	assert.True(t, trail[0].Eligible)

	assert.Equal(t, hr.ID, trail[1].Round.ID)
	assert.Equal(t, models.CandidatePending, trail[1].Projection.Status)
	assert.True(t, trail[1].Eligible, "selected in Technical unlocks HR")

	// a2 sees the same rounds but is blocked at HR.
	trail, err = engine.StudentRounds(ctx, &a2)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, models.CandidatePending, trail[0].Projection.Status)
	assert.False(t, trail[1].Eligible)
}

func TestStudentRoundsOmitsHiddenRounds(t *testing.T) {
	store := newFakeStore()
	deptX := store.addDepartment("Tech")
	a1 := store.addApplication(1, deptX.ID)
	store.addRound("Technical", nil, false)

	engine := NewEngine(store)

	trail, err := engine.StudentRounds(context.Background(), &a1)
	require.NoError(t, err)
	assert.Empty(t, trail, "unreleased, not-visible rounds are omitted entirely")
}
