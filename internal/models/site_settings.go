package models

import (
	"strings"
	"time"
)

// SiteSettings is a single versioned configuration row, read at request start
// by the auth endpoints. Version increments on every save.
type SiteSettings struct {
	ID              uint `gorm:"primaryKey"`
	Version         int  `gorm:"not null;default:1"`
	AllowSignup     bool `gorm:"default:true"`
	AllowEmailLogin bool `gorm:"default:true"`
	AllowedDomains  string // comma-separated email domains; empty allows all
	UpdatedAt       time.Time
}

// AllowedDomainList splits AllowedDomains, dropping empty entries.
func (s *SiteSettings) AllowedDomainList() []string {
	var domains []string

	for _, domain := range strings.Split(s.AllowedDomains, ",") {
		trimmed := strings.TrimSpace(domain)
		if trimmed != "" {
			domains = append(domains, trimmed)
		}
	}

	return domains
}

// EmailAllowed checks an email address against the allowed-domain list.
func (s *SiteSettings) EmailAllowed(email string) bool {
	domains := s.AllowedDomainList()
	if len(domains) == 0 {
		return true
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}

	domain := strings.ToLower(email[at+1:])
	for _, allowed := range domains {
		if domain == strings.ToLower(allowed) {
			return true
		}
	}

	return false
}
