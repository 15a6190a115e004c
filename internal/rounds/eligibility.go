package rounds

import (
	"context"

	"github.com/recruitdesk/recruitdesk/internal/models"
)

// Resolver answers whether an application may be considered in a round. It is
// a pure read; nothing here mutates state.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// IsEligible checks a single prerequisite level. Rounds without a prerequisite
// accept every application in the department; otherwise the application must
// have been selected in the prerequisite round. A missing prerequisite row or
// a pending/not_selected status both mean not eligible.
func (r *Resolver) IsEligible(ctx context.Context, application *models.Application, round *models.Round) (bool, error) {
	if round.PrerequisiteID == nil {
		return true, nil
	}

	rc, err := r.store.RoundCandidate(ctx, *round.PrerequisiteID, application.ID)

	if err != nil {
		return false, err
	}

	return rc != nil && rc.Status == models.CandidateSelected, nil
}

// TrailEntry is one prerequisite level of a round's eligibility history.
type TrailEntry struct {
	Round    models.Round
	Status   string
	Selected bool
}

// Trail walks the prerequisite chain above round and reports the application's
// recorded outcome at each level, ordered from the first stage down to the
// round's direct prerequisite. Used to show a student where a later stage is
// blocked.
func (r *Resolver) Trail(ctx context.Context, application *models.Application, round *models.Round) ([]TrailEntry, error) {
	var entries []TrailEntry
	seen := map[uint]bool{round.ID: true}

	current := round
	for current.PrerequisiteID != nil {
		prereqID := *current.PrerequisiteID

		// The write path keeps the graph acyclic; the guard is for data
		// edited outside the engine.
		if seen[prereqID] {
			break
		}
		seen[prereqID] = true

		prereq, err := r.store.Round(ctx, prereqID)
		if err != nil {
			return nil, err
		}

		rc, err := r.store.RoundCandidate(ctx, prereq.ID, application.ID)
		if err != nil {
			return nil, err
		}

		status := models.CandidatePending
		if rc != nil {
			status = rc.Status
		}

		entries = append(entries, TrailEntry{
			Round:    *prereq,
			Status:   status,
			Selected: status == models.CandidateSelected,
		})

		current = prereq
	}

	// Reverse into first-stage-first order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}
