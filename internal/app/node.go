package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tandem/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/tandem/internal/adapters/dotenv" //nolint:depguard // Wired in app layer
	"go.trai.ch/tandem/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/tandem/internal/adapters/shell"  //nolint:depguard // Wired in app layer
	"go.trai.ch/tandem/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			shell.ProberNodeID,
			dotenv.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	prober, err := graft.Dep[ports.ToolProber](ctx)
	if err != nil {
		return nil, err
	}

	envLoader, err := graft.Dep[ports.EnvLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, executor, prober, envLoader, log), nil
}
