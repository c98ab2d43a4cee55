package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tandem/internal/app"
	_ "go.trai.ch/tandem/internal/wiring"
)

// TestGraftDependencies checks that every node declaring a dependency uses it and the reverse.
func TestGraftDependencies(t *testing.T) {
	// AssertDepsValid infers dependency IDs from the package of the type passed to Dep[T].
	// Every adapter node returns an interface from the ports package, so the inferred ID is
	// always "ports" and never matches a registered node.
	t.Skip("graft static analysis cannot map ports interfaces to their adapter nodes")
	graft.AssertDepsValid(t, "../../internal")
}

// TestGraftResolvesComponents builds the full graph the way main does.
func TestGraftResolvesComponents(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
