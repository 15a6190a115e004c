package rounds

import (
	"context"
	"errors"

	"github.com/recruitdesk/recruitdesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore backs the workflow engine with the application database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Round(ctx context.Context, id uint) (*models.Round, error) {
	var round models.Round

	if err := s.db.WithContext(ctx).First(&round, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &round, nil
}

func (s *GormStore) Rounds(ctx context.Context) ([]models.Round, error) {
	var rounds []models.Round

	if err := s.db.WithContext(ctx).Order("display_order, created_at").Find(&rounds).Error; err != nil {
		return nil, err
	}

	return rounds, nil
}

func (s *GormStore) DependentRounds(ctx context.Context, prerequisiteID uint) ([]models.Round, error) {
	var rounds []models.Round

	if err := s.db.WithContext(ctx).Where("prerequisite_id = ?", prerequisiteID).Find(&rounds).Error; err != nil {
		return nil, err
	}

	return rounds, nil
}

func (s *GormStore) CreateRound(ctx context.Context, round *models.Round) error {
	return s.db.WithContext(ctx).Create(round).Error
}

func (s *GormStore) SaveRound(ctx context.Context, round *models.Round) error {
	return s.db.WithContext(ctx).Save(round).Error
}

func (s *GormStore) DeleteRound(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Round{}, id).Error
}

func (s *GormStore) Application(ctx context.Context, id uint) (*models.Application, error) {
	var application models.Application

	if err := s.db.WithContext(ctx).First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &application, nil
}

func (s *GormStore) ApplicationsByDepartment(ctx context.Context, departmentID uint) ([]models.Application, error) {
	var applications []models.Application

	if err := s.db.WithContext(ctx).Preload("Student").Where("department_id = ?", departmentID).Order("created_at").Find(&applications).Error; err != nil {
		return nil, err
	}

	return applications, nil
}

func (s *GormStore) Departments(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department

	if err := s.db.WithContext(ctx).Find(&departments).Error; err != nil {
		return nil, err
	}

	return departments, nil
}

// RoundDepartment reads with a row lock so concurrent administrators acting on
// the same department serialize instead of losing updates.
func (s *GormStore) RoundDepartment(ctx context.Context, roundID, departmentID uint) (*models.RoundDepartment, error) {
	var rd models.RoundDepartment

	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("round_id = ? AND department_id = ?", roundID, departmentID).
		First(&rd).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &rd, nil
}

func (s *GormStore) CreateRoundDepartment(ctx context.Context, rd *models.RoundDepartment) error {
	return s.db.WithContext(ctx).Create(rd).Error
}

func (s *GormStore) SaveRoundDepartment(ctx context.Context, rd *models.RoundDepartment) error {
	return s.db.WithContext(ctx).Save(rd).Error
}

func (s *GormStore) RoundDepartments(ctx context.Context, roundID uint) ([]models.RoundDepartment, error) {
	var states []models.RoundDepartment

	if err := s.db.WithContext(ctx).Where("round_id = ?", roundID).Find(&states).Error; err != nil {
		return nil, err
	}

	return states, nil
}

func (s *GormStore) DeleteRoundDepartments(ctx context.Context, roundID uint) error {
	return s.db.WithContext(ctx).Where("round_id = ?", roundID).Delete(&models.RoundDepartment{}).Error
}

func (s *GormStore) RoundCandidate(ctx context.Context, roundID, applicationID uint) (*models.RoundCandidate, error) {
	var rc models.RoundCandidate

	err := s.db.WithContext(ctx).
		Where("round_id = ? AND application_id = ?", roundID, applicationID).
		First(&rc).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rc, nil
}

// SaveRoundCandidate upserts on (round_id, application_id): a second write for
// an existing pair updates the row in place instead of violating the unique
// index.
func (s *GormStore) SaveRoundCandidate(ctx context.Context, rc *models.RoundCandidate) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}, {Name: "application_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "updated_at"}),
		}).
		Create(rc).Error
}

func (s *GormStore) CandidatesByRound(ctx context.Context, roundID uint) ([]models.RoundCandidate, error) {
	var candidates []models.RoundCandidate

	if err := s.db.WithContext(ctx).Where("round_id = ?", roundID).Find(&candidates).Error; err != nil {
		return nil, err
	}

	return candidates, nil
}

func (s *GormStore) DeleteRoundCandidates(ctx context.Context, roundID uint) error {
	return s.db.WithContext(ctx).Where("round_id = ?", roundID).Delete(&models.RoundCandidate{}).Error
}

func (s *GormStore) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
