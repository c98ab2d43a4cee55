package config

import (
	"go.trai.ch/tandem/internal/core/domain"
)

func builtinTasks(s Settings) []domain.Task {
	hostEnv := map[string]string{s.HostEnv: domain.HostPlaceholder}
	backend := domain.NewInternedString(s.BackendDir)
	frontend := domain.NewInternedString(s.FrontendDir)

	run := func(dir domain.InternedString, env map[string]string, argv ...string) domain.Step {
		return domain.Step{Command: argv, WorkingDir: dir, Environment: env}
	}
	task := func(name, description string, deps []string, steps ...domain.Step) domain.Task {
		return domain.Task{
			Name:         domain.NewInternedString(name),
			Description:  description,
			Dependencies: domain.NewInternedStrings(deps),
			Steps:        steps,
		}
	}

	backendDeps := task("backend:deps", "Check for "+s.TestRunner+" and download backend modules", nil,
		run(backend, nil, s.Go, "mod", "download"))
	backendDeps.Prechecks = []domain.Precheck{{Tool: s.TestRunner, Hint: s.TestRunnerHint}}

	removeFrontend := append([]string{s.FrontendModules}, s.FrontendOutputs...)

	start := task("start", "Build both, then run the backend binary and the frontend preview",
		[]string{"backend:build", "frontend:build"})
	start.Parallel = domain.NewInternedStrings([]string{"backend:run", "frontend:preview"})

	dev := task("dev", "Run the backend and frontend dev servers together", nil)
	dev.Parallel = domain.NewInternedStrings([]string{"backend:dev", "frontend:dev"})

	return []domain.Task{
		backendDeps,
		task("backend:build", "Compile the backend binary", []string{"backend:deps"},
			run(backend, nil, s.Go, "build", "-o", s.BackendBinary, s.BackendMain)),
		task("backend:dev", "Run the backend from source", []string{"backend:deps"},
			run(backend, hostEnv, s.Go, "run", s.BackendMain)),
		task("backend:run", "Run the compiled backend binary", []string{"backend:build"},
			run(backend, hostEnv, s.BackendBinary)),
		task("backend:test", "Run the backend tests", []string{"backend:deps"},
			run(backend, nil, s.TestRunner, "--format", "testname", "--", "./...")),
		task("backend:clean", "Remove the backend binary", nil,
			domain.Step{Remove: domain.NewInternedStrings([]string{s.BackendBinary})}),

		task("frontend:deps", "Install frontend packages", nil,
			run(frontend, nil, s.Npm, "install")),
		task("frontend:dev", "Start the frontend dev server", []string{"frontend:deps"},
			run(frontend, nil, s.Npm, "run", "dev", "--", "--host", domain.HostPlaceholder)),
		task("frontend:build", "Build the frontend production bundle", []string{"frontend:deps"},
			run(frontend, nil, s.Npm, "run", "build")),
		task("frontend:preview", "Serve the frontend production bundle", []string{"frontend:build"},
			run(frontend, nil, s.Npm, "run", "preview", "--", "--host", domain.HostPlaceholder)),
		task("frontend:test", "Run the frontend tests", []string{"frontend:deps"},
			run(frontend, nil, s.Npm, "test")),
		task("frontend:clean", "Remove installed packages and build output", nil,
			domain.Step{Remove: domain.NewInternedStrings(removeFrontend)}),

		task("install", "Install backend and frontend dependencies", []string{"backend:deps", "frontend:deps"}),
		task("build", "Build backend and frontend", []string{"backend:build", "frontend:build"}),
		task("test", "Run backend and frontend tests", []string{"backend:test", "frontend:test"}),
		dev,
		start,
		task("clean", "Remove all generated files", []string{"backend:clean", "frontend:clean"}),
	}
}
