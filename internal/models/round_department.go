package models

import "gorm.io/gorm"

// RoundDepartment is the per-department state of a round. Exactly one row
// exists per (round, department) pair; rows are seeded when a round is created.
type RoundDepartment struct {
	gorm.Model

	RoundID         uint `gorm:"not null;uniqueIndex:idx_round_department"`
	DepartmentID    uint `gorm:"not null;uniqueIndex:idx_round_department"`
	IsLocked        bool `gorm:"default:false"`
	ResultsReleased bool `gorm:"default:false"`
	NotesPublic     bool `gorm:"default:false"`

	// Relationships
	Round      Round      `gorm:"foreignKey:RoundID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Department Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
