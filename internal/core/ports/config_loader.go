package ports

import "go.trai.ch/parc/internal/core/domain"

// ConfigLoader loads the scheduling configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	Load(path string) (*domain.Config, error)
}
