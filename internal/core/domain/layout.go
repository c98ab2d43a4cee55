package domain

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "tandem.yaml"

	// DotenvFileName is the default dotenv file read from the project root.
	DotenvFileName = ".env"

	// HelpTaskName is the reserved pseudo-task that lists the available tasks.
	HelpTaskName = "help"
)

// Environment variables read once at startup.
const (
	EnvGo         = "TANDEM_GO"
	EnvNpm        = "TANDEM_NPM"
	EnvTestRunner = "TANDEM_TEST_RUNNER"
	EnvLogFormat  = "TANDEM_LOG_FORMAT"
)
