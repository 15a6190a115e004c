package models

import "gorm.io/gorm"

// Round is a globally defined stage in the selection pipeline. A round may name
// at most one other round as its prerequisite; the prerequisite references must
// stay acyclic.
type Round struct {
	gorm.Model

	Name                 string `gorm:"not null"`
	Description          string
	PrerequisiteID       *uint `gorm:"index"`
	VisibleBeforeResults bool  `gorm:"default:false"`
	DisplayOrder         int   `gorm:"default:0"`

	// Relationships
	Prerequisite     *Round            `gorm:"foreignKey:PrerequisiteID"`
	DepartmentStates []RoundDepartment `gorm:"foreignKey:RoundID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Candidates       []RoundCandidate  `gorm:"foreignKey:RoundID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
