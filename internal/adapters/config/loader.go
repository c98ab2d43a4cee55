// Package config provides the configuration loader for tandem.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/tandem/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var validTaskNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.:-]*$`)

// Loader implements ports.ConfigLoader using an optional YAML file.
type Loader struct {
	Logger    ports.Logger
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new Loader reading tool overrides from the process environment.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, lookupEnv: os.LookupEnv}
}

// WithLookupEnv replaces the environment lookup used for tool overrides.
func (l *Loader) WithLookupEnv(lookup func(string) (string, bool)) *Loader {
	l.lookupEnv = lookup
	return l
}

// Load discovers tandem.yaml from cwd upwards and builds the task graph.
func (l *Loader) Load(cwd string) (*domain.Graph, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWorkingDirFailed.Error())
	}

	configPath, found := findConfiguration(absCwd)
	if !found {
		return l.buildGraph(absCwd, nil)
	}
	return l.LoadFile(configPath)
}

// LoadFile reads the configuration at path and builds the task graph.
func (l *Loader) LoadFile(path string) (*domain.Graph, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWorkingDirFailed.Error())
	}
	if _, statErr := os.Stat(absPath); errors.Is(statErr, fs.ErrNotExist) {
		return nil, zerr.With(domain.ErrConfigNotFound, "path", absPath)
	}

	var file Tandemfile
	if err := readAndUnmarshalYAML(absPath, &file); err != nil {
		return nil, zerr.With(err, "path", absPath)
	}

	return l.buildGraph(resolveRoot(absPath, file.Root), &file)
}

func (l *Loader) buildGraph(root string, file *Tandemfile) (*domain.Graph, error) {
	g := domain.NewGraph()
	g.SetRoot(root)

	for _, task := range builtinTasks(resolveSettings(root, file, l.lookupEnv)) {
		if err := g.AddTask(&task); err != nil {
			return nil, err
		}
	}

	if file != nil {
		if err := l.addCustomTasks(g, file.Tasks); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (l *Loader) addCustomTasks(g *domain.Graph, tasks map[string]*TaskDTO) error {
	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := validateTaskName(name); err != nil {
			return err
		}

		task, err := buildTask(g.Root(), name, tasks[name])
		if err != nil {
			return zerr.With(err, "task", name)
		}

		if g.ReplaceTask(task) {
			l.Logger.Warn(fmt.Sprintf("task %q in %s overrides the built-in task", name, domain.ConfigFileName))
		}
	}
	return nil
}

func buildTask(root, name string, dto *TaskDTO) (*domain.Task, error) {
	if dto == nil {
		dto = &TaskDTO{}
	}

	task := &domain.Task{
		Name:         domain.NewInternedString(name),
		Description:  dto.Description,
		Dependencies: domain.NewInternedStrings(dto.DependsOn),
		Parallel:     domain.NewInternedStrings(dto.Parallel),
		Environment:  dto.Environment,
	}

	for _, pc := range dto.Precheck {
		if pc.Tool == "" {
			return nil, domain.ErrInvalidPrecheck
		}
		task.Prechecks = append(task.Prechecks, domain.Precheck{Tool: pc.Tool, Hint: pc.Hint})
	}

	for i, stepDTO := range dto.Steps {
		step, err := buildStep(root, stepDTO)
		if err != nil {
			return nil, zerr.With(err, "step", i+1)
		}
		task.Steps = append(task.Steps, step)
	}

	return task, nil
}

func buildStep(root string, dto StepDTO) (domain.Step, error) {
	hasCmd, hasRemove := len(dto.Cmd) > 0, len(dto.Remove) > 0
	if hasCmd == hasRemove {
		return domain.Step{}, domain.ErrInvalidStep
	}

	if hasRemove {
		paths := make([]string, len(dto.Remove))
		for i, p := range dto.Remove {
			paths[i] = joinRoot(root, p)
		}
		return domain.Step{Remove: domain.NewInternedStrings(paths)}, nil
	}

	if dto.Cmd[0] == "" {
		return domain.Step{}, domain.ErrEmptyCommand
	}

	return domain.Step{
		Command:     dto.Cmd,
		WorkingDir:  domain.NewInternedString(joinRoot(root, dto.Dir)),
		Environment: dto.Environment,
	}, nil
}

// findConfiguration walks up from cwd and returns the first tandem.yaml it finds.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return joinRoot(configDir, configuredRoot)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered or passed explicitly by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

// validateTaskName checks if the task name is reserved or contains invalid characters.
func validateTaskName(name string) error {
	if name == domain.HelpTaskName {
		return zerr.With(domain.ErrReservedTaskName, "task_name", name)
	}
	if !validTaskNameRegex.MatchString(name) {
		return zerr.With(domain.ErrInvalidTaskName, "task_name", name)
	}
	return nil
}
