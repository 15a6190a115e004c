package models

import "gorm.io/gorm"

const (
	CandidatePending     = "pending"
	CandidateSelected    = "selected"
	CandidateNotSelected = "not_selected"
)

// RoundCandidate records an application's outcome within a round. Rows are
// created lazily; a missing row reads as pending.
type RoundCandidate struct {
	gorm.Model

	RoundID       uint   `gorm:"not null;uniqueIndex:idx_round_application"`
	ApplicationID uint   `gorm:"not null;uniqueIndex:idx_round_application"`
	Status        string `gorm:"not null;default:pending"` // pending, selected, not_selected
	Notes         string

	// Relationships
	Round       Round       `gorm:"foreignKey:RoundID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func ValidCandidateStatus(status string) bool {
	switch status {
	case CandidatePending, CandidateSelected, CandidateNotSelected:
		return true
	}
	return false
}
