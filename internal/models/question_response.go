package models

import "gorm.io/gorm"

type QuestionResponse struct {
	gorm.Model

	QuestionID    uint `gorm:"not null;uniqueIndex:idx_question_application"`
	ApplicationID uint `gorm:"not null;uniqueIndex:idx_question_application"`
	ResponseText  string
	FilePath      string // file uploads only

	// Relationships
	Question    DepartmentQuestion `gorm:"foreignKey:QuestionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Application Application        `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
