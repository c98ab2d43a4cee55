package ports

import "go.trai.ch/tandem/internal/core/domain"

// ConfigLoader builds the task graph for an invocation.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers tandem.yaml by walking up from cwd. Without one, cwd is the
	// project root and only the built-in tasks are available.
	Load(cwd string) (*domain.Graph, error)

	// LoadFile reads the given configuration file. The file must exist.
	LoadFile(path string) (*domain.Graph, error)
}
