package rounds

import (
	"context"
	"errors"

	"github.com/recruitdesk/recruitdesk/internal/models"
)

// Projection is the applicant-facing view of a round outcome. Notes ride along
// only when the department has made them public.
type Projection struct {
	Status       string
	Notes        string
	NotesVisible bool
}

// Projector computes what an application's owner may see about a round.
// Projections are computed per request and never cached: administrators flip
// flags at any time and applicants must see the immediate effect.
type Projector struct {
	store Store
}

func NewProjector(store Store) *Projector {
	return &Projector{store: store}
}

// Project returns nil when the round is hidden from the applicant: visibility
// requires the round to be marked visible before results, or the department to
// have released results. The stored status shows through as-is once visible;
// a missing candidate row reads as pending.
func (p *Projector) Project(ctx context.Context, round *models.Round, application *models.Application) (*Projection, error) {
	rd, err := p.store.RoundDepartment(ctx, round.ID, application.DepartmentID)
	if err != nil {
		return nil, err
	}

	if !round.VisibleBeforeResults && !rd.ResultsReleased {
		return nil, nil
	}

	rc, err := p.store.RoundCandidate(ctx, round.ID, application.ID)
	if err != nil {
		return nil, err
	}

	projection := &Projection{Status: models.CandidatePending}

	if rc != nil {
		projection.Status = rc.Status
		if rd.NotesPublic {
			projection.Notes = rc.Notes
		}
	}
	projection.NotesVisible = rd.NotesPublic

	return projection, nil
}

// StudentRound is one visible round in a student's progression trail.
type StudentRound struct {
	Round      models.Round
	Projection Projection
	Eligible   bool
}

// StudentRounds builds the applicant-facing trail for one application: every
// round visible to the student, in display order, each with its projection and
// an eligibility flag explaining blocked stages. Hidden rounds are omitted
// entirely.
func (e *Engine) StudentRounds(ctx context.Context, application *models.Application) ([]StudentRound, error) {
	allRounds, err := e.store.Rounds(ctx)
	if err != nil {
		return nil, err
	}

	projector := NewProjector(e.store)

	var trail []StudentRound

	for i := range allRounds {
		round := &allRounds[i]

		// Departments without a state row never show the round.
		if _, err := e.store.RoundDepartment(ctx, round.ID, application.DepartmentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		projection, err := projector.Project(ctx, round, application)
		if err != nil {
			return nil, err
		}

		if projection == nil {
			continue
		}

		eligible, err := e.resolver.IsEligible(ctx, application, round)
		if err != nil {
			return nil, err
		}

		trail = append(trail, StudentRound{
			Round:      *round,
			Projection: *projection,
			Eligible:   eligible,
		})
	}

	return trail, nil
}
