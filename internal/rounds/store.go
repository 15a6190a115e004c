package rounds

import (
	"context"

	"github.com/recruitdesk/recruitdesk/internal/models"
)

// Store is the persistence surface the workflow engine runs against.
//
// Round, Application and RoundDepartment lookups return ErrNotFound for
// missing rows. RoundCandidate returns (nil, nil) when no row exists: the
// absence of a row is the implicit pending state, not an error.
type Store interface {
	Round(ctx context.Context, id uint) (*models.Round, error)
	Rounds(ctx context.Context) ([]models.Round, error)
	DependentRounds(ctx context.Context, prerequisiteID uint) ([]models.Round, error)
	CreateRound(ctx context.Context, round *models.Round) error
	SaveRound(ctx context.Context, round *models.Round) error
	DeleteRound(ctx context.Context, id uint) error

	Application(ctx context.Context, id uint) (*models.Application, error)
	ApplicationsByDepartment(ctx context.Context, departmentID uint) ([]models.Application, error)

	Departments(ctx context.Context) ([]models.Department, error)

	RoundDepartment(ctx context.Context, roundID, departmentID uint) (*models.RoundDepartment, error)
	CreateRoundDepartment(ctx context.Context, rd *models.RoundDepartment) error
	SaveRoundDepartment(ctx context.Context, rd *models.RoundDepartment) error
	RoundDepartments(ctx context.Context, roundID uint) ([]models.RoundDepartment, error)
	DeleteRoundDepartments(ctx context.Context, roundID uint) error

	RoundCandidate(ctx context.Context, roundID, applicationID uint) (*models.RoundCandidate, error)
	SaveRoundCandidate(ctx context.Context, rc *models.RoundCandidate) error
	CandidatesByRound(ctx context.Context, roundID uint) ([]models.RoundCandidate, error)
	DeleteRoundCandidates(ctx context.Context, roundID uint) error

	AppendAudit(ctx context.Context, entry *models.AuditLog) error

	// Atomic runs fn within a single transaction scope. The Store passed to fn
	// sees and writes uncommitted state; a returned error rolls everything back.
	Atomic(ctx context.Context, fn func(Store) error) error
}
