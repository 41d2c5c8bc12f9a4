package service

import (
	"database/sql"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/database"
)

// Version is the application version, overridable at build time.
var Version = "dev"

// SystemService exposes health and version information.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService with the provided database connection.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// CheckHealth verifies database connectivity.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// GetVersion returns the running application version.
func (s *SystemService) GetVersion() string {
	return Version
}
