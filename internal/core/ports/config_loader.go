package ports

import "go.trai.ch/hoard/internal/core/domain"

// ConfigLoader resolves the run settings for a project directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the optional configuration file from the project directory
	// and returns settings with all defaults applied.
	Load(projectDir string) (*domain.Settings, error)
}
