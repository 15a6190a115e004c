package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of successful state-changing actions.
// No UpdatedAt or DeletedAt: entries are never mutated through the API.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey"`
	Action    string         `gorm:"not null;index"`
	Area      string         `gorm:"not null;index"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	ActorKind string         `gorm:"not null"` // "admin" or "student"
	ActorID   uint           `gorm:"not null;index"`
	CreatedAt time.Time
}
