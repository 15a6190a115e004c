package models

import "gorm.io/gorm"

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Application binds one student to one department. The coarse accept/reject
// status is independent of round progression.
type Application struct {
	gorm.Model

	StudentID    uint   `gorm:"not null;uniqueIndex:idx_student_department"`
	DepartmentID uint   `gorm:"not null;uniqueIndex:idx_student_department"`
	Position     string
	CoverLetter  string
	Status       string `gorm:"not null;default:pending"` // pending, accepted, rejected

	// Relationships
	Student    Student    `gorm:"foreignKey:StudentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Department Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func ValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}
