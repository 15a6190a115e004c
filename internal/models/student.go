package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Student struct {
	gorm.Model

	GoogleID       *string `gorm:"uniqueIndex"` // nil for email/password accounts
	Email          string  `gorm:"uniqueIndex;not null"`
	PasswordHash   string
	Name           string
	RegNo          string
	Batch          string
	Phone          string
	Branch         string
	ProfilePicture string
	ExtraFields    datatypes.JSON `gorm:"type:jsonb"` // values for admin-configured profile fields
	IsVerified     bool           `gorm:"default:false"`

	// Relationships
	Applications []Application `gorm:"foreignKey:StudentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// ProfileCompletion reports how much of the base profile is filled in, as a percentage.
func (s *Student) ProfileCompletion() int {
	fields := []string{s.Name, s.RegNo, s.Batch, s.Phone, s.Branch}

	completed := 0
	for _, field := range fields {
		if field != "" {
			completed++
		}
	}

	return completed * 100 / len(fields)
}

// CanApply requires the profile to be at least 75% complete before applying.
func (s *Student) CanApply() bool {
	return s.ProfileCompletion() >= 75
}
