package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/version"
)

// SchemaVersioner is implemented by backends that own a database schema.
type SchemaVersioner interface {
	// SchemaVersion returns the applied and the latest known migration versions.
	SchemaVersion(ctx context.Context) (current, latest int64, err error)
}

// SystemService handles system-related operations
type SystemService struct {
	backend     Backend
	backendName string
}

// NewSystemService creates a new SystemService
func NewSystemService(backend Backend, backendName string) *SystemService {
	return &SystemService{
		backend:     backend,
		backendName: backendName,
	}
}

// CheckHealth checks that the backend is reachable
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// CheckVersion reports the application version, the schema version when the
// backend has one, and the features served by this build.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	info := model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  "n/a",
		Backend:    s.backendName,
		Features: map[string]bool{
			model.FeatureWealth:     true,
			model.FeatureConformity: true,
			model.FeatureSearch:     true,
		},
	}

	sv, ok := s.backend.(SchemaVersioner)
	if !ok {
		return info, nil
	}

	current, latest, err := sv.SchemaVersion(ctx)
	if err != nil {
		return model.VersionInfo{}, err
	}
	info.DbVersion = strconv.FormatInt(current, 10)
	if current < latest {
		msg := fmt.Sprintf("database schema is at version %d, latest is %d; run `migrate up`", current, latest)
		info.MigrationNeeded = true
		info.MigrationMessage = &msg
	}
	return info, nil
}
