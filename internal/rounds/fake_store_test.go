package rounds

import (
	"context"
	"sync"

	"github.com/recruitdesk/recruitdesk/internal/models"
)

type pairKey struct {
	a, b uint
}

// fakeStore is an in-memory Store for exercising the workflow engine without
// a database.
type fakeStore struct {
	mu               sync.Mutex
	nextID           uint
	rounds           map[uint]models.Round
	applications     map[uint]models.Application
	departments      map[uint]models.Department
	roundDepartments map[pairKey]models.RoundDepartment // (round, department)
	candidates       map[pairKey]models.RoundCandidate  // (round, application)
	audits           []models.AuditLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rounds:           make(map[uint]models.Round),
		applications:     make(map[uint]models.Application),
		departments:      make(map[uint]models.Department),
		roundDepartments: make(map[pairKey]models.RoundDepartment),
		candidates:       make(map[pairKey]models.RoundCandidate),
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) Round(ctx context.Context, id uint) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, ok := s.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &round, nil
}

func (s *fakeStore) Rounds(ctx context.Context) ([]models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Round
	for _, round := range s.rounds {
		out = append(out, round)
	}

	// display order, then id, to keep listings deterministic
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].DisplayOrder < out[i].DisplayOrder ||
				(out[j].DisplayOrder == out[i].DisplayOrder && out[j].ID < out[i].ID) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}

	return out, nil
}

func (s *fakeStore) DependentRounds(ctx context.Context, prerequisiteID uint) ([]models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Round
	for _, round := range s.rounds {
		if round.PrerequisiteID != nil && *round.PrerequisiteID == prerequisiteID {
			out = append(out, round)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateRound(ctx context.Context, round *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	round.ID = s.id()
	s.rounds[round.ID] = *round
	return nil
}

func (s *fakeStore) SaveRound(ctx context.Context, round *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rounds[round.ID] = *round
	return nil
}

// DeleteRound removes only the round row itself; the engine is responsible
// for clearing dependent state, as it is with the real store.
func (s *fakeStore) DeleteRound(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rounds, id)
	return nil
}

func (s *fakeStore) DeleteRoundDepartments(ctx context.Context, roundID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.roundDepartments {
		if key.a == roundID {
			delete(s.roundDepartments, key)
		}
	}
	return nil
}

func (s *fakeStore) DeleteRoundCandidates(ctx context.Context, roundID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.candidates {
		if key.a == roundID {
			delete(s.candidates, key)
		}
	}
	return nil
}

func (s *fakeStore) Application(ctx context.Context, id uint) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	application, ok := s.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &application, nil
}

func (s *fakeStore) ApplicationsByDepartment(ctx context.Context, departmentID uint) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Application
	for _, application := range s.applications {
		if application.DepartmentID == departmentID {
			out = append(out, application)
		}
	}

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID < out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}

	return out, nil
}

func (s *fakeStore) Departments(ctx context.Context) ([]models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Department
	for _, department := range s.departments {
		out = append(out, department)
	}
	return out, nil
}

func (s *fakeStore) RoundDepartment(ctx context.Context, roundID, departmentID uint) (*models.RoundDepartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rd, ok := s.roundDepartments[pairKey{roundID, departmentID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &rd, nil
}

func (s *fakeStore) CreateRoundDepartment(ctx context.Context, rd *models.RoundDepartment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rd.ID = s.id()
	s.roundDepartments[pairKey{rd.RoundID, rd.DepartmentID}] = *rd
	return nil
}

func (s *fakeStore) SaveRoundDepartment(ctx context.Context, rd *models.RoundDepartment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roundDepartments[pairKey{rd.RoundID, rd.DepartmentID}] = *rd
	return nil
}

func (s *fakeStore) RoundDepartments(ctx context.Context, roundID uint) ([]models.RoundDepartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.RoundDepartment
	for key, rd := range s.roundDepartments {
		if key.a == roundID {
			out = append(out, rd)
		}
	}
	return out, nil
}

func (s *fakeStore) RoundCandidate(ctx context.Context, roundID, applicationID uint) (*models.RoundCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rc, ok := s.candidates[pairKey{roundID, applicationID}]
	if !ok {
		return nil, nil
	}
	return &rc, nil
}

func (s *fakeStore) SaveRoundCandidate(ctx context.Context, rc *models.RoundCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{rc.RoundID, rc.ApplicationID}
	if existing, ok := s.candidates[key]; ok {
		rc.ID = existing.ID
	} else {
		rc.ID = s.id()
	}
	s.candidates[key] = *rc
	return nil
}

func (s *fakeStore) CandidatesByRound(ctx context.Context, roundID uint) ([]models.RoundCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.RoundCandidate
	for key, rc := range s.candidates {
		if key.a == roundID {
			out = append(out, rc)
		}
	}
	return out, nil
}

func (s *fakeStore) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.id()
	s.audits = append(s.audits, *entry)
	return nil
}

func (s *fakeStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

func (s *fakeStore) candidateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.candidates)
}

func (s *fakeStore) roundDepartmentCount(roundID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.roundDepartments {
		if key.a == roundID {
			count++
		}
	}
	return count
}

func (s *fakeStore) auditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.audits)
}

// addDepartment and friends seed fixture rows directly, bypassing the engine.

func (s *fakeStore) addDepartment(name string) models.Department {
	s.mu.Lock()
	defer s.mu.Unlock()

	department := models.Department{Name: name, IsActive: true}
	department.ID = s.id()
	s.departments[department.ID] = department
	return department
}

func (s *fakeStore) addApplication(studentID, departmentID uint) models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	application := models.Application{
		StudentID:    studentID,
		DepartmentID: departmentID,
		Status:       models.ApplicationPending,
	}
	application.ID = s.id()
	s.applications[application.ID] = application
	return application
}

func (s *fakeStore) addRound(name string, prerequisiteID *uint, visibleBeforeResults bool) models.Round {
	s.mu.Lock()
	defer s.mu.Unlock()

	round := models.Round{
		Name:                 name,
		PrerequisiteID:       prerequisiteID,
		VisibleBeforeResults: visibleBeforeResults,
	}
	round.ID = s.id()
	s.rounds[round.ID] = round

	for deptID := range s.departments {
		rd := models.RoundDepartment{RoundID: round.ID, DepartmentID: deptID}
		rd.ID = s.id()
		s.roundDepartments[pairKey{round.ID, deptID}] = rd
	}

	return round
}
