package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionText           = "text"
	QuestionSingleChoice   = "single_choice"
	QuestionMultipleChoice = "multiple_choice"
	QuestionFileUpload     = "file_upload"
	QuestionLink           = "link"
)

type DepartmentQuestion struct {
	gorm.Model

	DepartmentID      uint           `gorm:"not null;index"`
	QuestionText      string         `gorm:"not null"`
	QuestionType      string         `gorm:"not null"` // text, single_choice, multiple_choice, file_upload, link
	Options           datatypes.JSON `gorm:"type:jsonb"` // choice list for choice questions
	IsRequired        bool           `gorm:"default:false"`
	FileMaxSize       int            `gorm:"default:1024"` // KB, file uploads only
	AllowedExtensions string         `gorm:"default:pdf"`  // comma-separated
	DisplayOrder      int            `gorm:"default:0"`

	// Relationships
	Department Department         `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Responses  []QuestionResponse `gorm:"foreignKey:QuestionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func ValidQuestionType(questionType string) bool {
	switch questionType {
	case QuestionText, QuestionSingleChoice, QuestionMultipleChoice, QuestionFileUpload, QuestionLink:
		return true
	}
	return false
}
