package config

// Tandemfile represents the structure of the tandem.yaml configuration file.
type Tandemfile struct {
	Version   string              `yaml:"version"`
	Root      string              `yaml:"root"`
	Backend   BackendDTO          `yaml:"backend"`
	Frontend  FrontendDTO         `yaml:"frontend"`
	Toolchain ToolchainDTO        `yaml:"toolchain"`
	Tasks     map[string]*TaskDTO `yaml:"tasks"`
}

// BackendDTO locates the backend module. Paths are relative to the project root,
// except Main and Binary which are relative to Dir.
type BackendDTO struct {
	Dir     string `yaml:"dir"`
	Main    string `yaml:"main"`
	Binary  string `yaml:"binary"`
	HostEnv string `yaml:"hostEnv"`
}

// FrontendDTO locates the frontend package. Outputs and Modules are relative to Dir.
type FrontendDTO struct {
	Dir     string   `yaml:"dir"`
	Outputs []string `yaml:"outputs"`
	Modules string   `yaml:"modules"`
}

// ToolchainDTO names the external tools.
type ToolchainDTO struct {
	Go             string `yaml:"go"`
	Npm            string `yaml:"npm"`
	TestRunner     string `yaml:"testRunner"`
	TestRunnerHint string `yaml:"testRunnerHint"`
}

// TaskDTO represents a task definition in the configuration.
type TaskDTO struct {
	Description string            `yaml:"description"`
	DependsOn   []string          `yaml:"dependsOn"`
	Parallel    []string          `yaml:"parallel"`
	Precheck    []PrecheckDTO     `yaml:"precheck"`
	Environment map[string]string `yaml:"environment"`
	Steps       []StepDTO         `yaml:"steps"`
}

// PrecheckDTO names a tool that must be installed before the task runs.
type PrecheckDTO struct {
	Tool string `yaml:"tool"`
	Hint string `yaml:"hint"`
}

// StepDTO is either a command (Cmd) or a clean step (Remove).
type StepDTO struct {
	Cmd         []string          `yaml:"cmd"`
	Remove      []string          `yaml:"remove"`
	Dir         string            `yaml:"dir"`
	Environment map[string]string `yaml:"environment"`
}
