package ports

import "go.trai.ch/gourmet/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds gourmet.yaml at or above cwd and returns the resolved configuration.
	Load(cwd string) (*domain.Config, error)
}
