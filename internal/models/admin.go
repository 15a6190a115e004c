package models

import "gorm.io/gorm"

const (
	RoleSuperAdmin = "admin"
	RoleDeptAdmin  = "dept-admin"
)

type Admin struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:admin"` // "admin" or "dept-admin"
	DepartmentID *uint  `gorm:"index"`                  // set only for dept-admins

	// Relationships
	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

func (a *Admin) IsDeptAdmin() bool {
	return a.Role == RoleDeptAdmin
}
