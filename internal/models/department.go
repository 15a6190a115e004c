package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RecruitmentUpcoming = "upcoming"
	RecruitmentOpen     = "open"
	RecruitmentEnded    = "ended"
	RecruitmentClosed   = "closed"
)

type Department struct {
	gorm.Model

	Name             string `gorm:"not null"`
	Description      string
	ShortDescription string
	ImagePath        string
	Positions        string // comma-separated positions available
	Requirements     string
	IsActive         bool `gorm:"default:true"`
	RecruitmentStart *time.Time
	RecruitmentEnd   *time.Time

	// Relationships
	Applications []Application        `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Questions    []DepartmentQuestion `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// RecruitmentStatus derives the current window state from the recruitment dates
// and the active flag.
func (d *Department) RecruitmentStatus() string {
	now := time.Now().UTC()

	if d.RecruitmentStart != nil && now.Before(*d.RecruitmentStart) {
		return RecruitmentUpcoming
	}

	if d.RecruitmentEnd != nil && now.After(*d.RecruitmentEnd) {
		return RecruitmentEnded
	}

	if d.IsActive {
		return RecruitmentOpen
	}

	return RecruitmentClosed
}

func (d *Department) IsAcceptingApplications() bool {
	return d.RecruitmentStatus() == RecruitmentOpen
}
