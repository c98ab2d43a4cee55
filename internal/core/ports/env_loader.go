package ports

// EnvLoader reads environment override files.
//
//go:generate mockgen -source=env_loader.go -destination=mocks/mock_env_loader.go -package=mocks
type EnvLoader interface {
	// Load parses the file at path. A missing file yields an empty map.
	Load(path string) (map[string]string, error)
}
