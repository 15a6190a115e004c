package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileField is an admin-configurable extra field on the student profile.
type ProfileField struct {
	gorm.Model

	FieldName    string         `gorm:"not null"` // internal name
	Label        string         `gorm:"not null"` // display label
	FieldType    string         `gorm:"not null;default:text"` // text, select, number
	Options      datatypes.JSON `gorm:"type:jsonb"`            // select options
	IsRequired   bool           `gorm:"default:false"`
	IsEnabled    bool           `gorm:"default:true"`
	DisplayOrder int            `gorm:"default:0"`
}
