package config

import (
	"path/filepath"

	"go.trai.ch/tandem/internal/core/domain"
)

// Settings is the resolved project layout and toolchain. It is built once per
// invocation and never changes while tasks run. Paths are absolute.
type Settings struct {
	Root string

	BackendDir    string
	BackendMain   string
	BackendBinary string
	HostEnv       string

	FrontendDir     string
	FrontendOutputs []string
	FrontendModules string

	Go             string
	Npm            string
	TestRunner     string
	TestRunnerHint string
}

const (
	defaultBackendDir     = "backend"
	defaultBackendMain    = "."
	defaultBackendBinary  = "bin/server"
	defaultHostEnv        = "HOST"
	defaultFrontendDir    = "frontend"
	defaultFrontendOutput = "dist"
	defaultModulesDir     = "node_modules"
	defaultGo             = "go"
	defaultNpm            = "npm"
	defaultTestRunner     = "gotestsum"
	defaultTestRunnerHint = "go install gotest.tools/gotestsum@latest"
)

// resolveSettings fills in defaults, applies environment overrides and makes paths absolute.
func resolveSettings(root string, file *Tandemfile, lookupEnv func(string) (string, bool)) Settings {
	if file == nil {
		file = &Tandemfile{}
	}

	backendDir := joinRoot(root, or(file.Backend.Dir, defaultBackendDir))
	frontendDir := joinRoot(root, or(file.Frontend.Dir, defaultFrontendDir))

	outputs := file.Frontend.Outputs
	if len(outputs) == 0 {
		outputs = []string{defaultFrontendOutput}
	}
	absOutputs := make([]string, len(outputs))
	for i, out := range outputs {
		absOutputs[i] = joinRoot(frontendDir, out)
	}

	s := Settings{
		Root:            root,
		BackendDir:      backendDir,
		BackendMain:     or(file.Backend.Main, defaultBackendMain),
		BackendBinary:   joinRoot(backendDir, or(file.Backend.Binary, defaultBackendBinary)),
		HostEnv:         or(file.Backend.HostEnv, defaultHostEnv),
		FrontendDir:     frontendDir,
		FrontendOutputs: absOutputs,
		FrontendModules: joinRoot(frontendDir, or(file.Frontend.Modules, defaultModulesDir)),
		Go:              or(file.Toolchain.Go, defaultGo),
		Npm:             or(file.Toolchain.Npm, defaultNpm),
		TestRunner:      or(file.Toolchain.TestRunner, defaultTestRunner),
		TestRunnerHint:  or(file.Toolchain.TestRunnerHint, defaultTestRunnerHint),
	}

	if v, ok := lookupEnv(domain.EnvGo); ok && v != "" {
		s.Go = v
	}
	if v, ok := lookupEnv(domain.EnvNpm); ok && v != "" {
		s.Npm = v
	}
	if v, ok := lookupEnv(domain.EnvTestRunner); ok && v != "" {
		s.TestRunner = v
	}

	return s
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func joinRoot(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
