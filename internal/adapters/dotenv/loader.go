// Package dotenv reads KEY=VALUE override files with godotenv.
package dotenv

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.trai.ch/tandem/internal/core/domain"
	"go.trai.ch/zerr"
)

// Loader implements ports.EnvLoader. It never modifies the process environment.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the dotenv file at path. A missing file yields an empty map.
func (l *Loader) Load(path string) (map[string]string, error) {
	// #nosec G304 -- path is the project dotenv file or passed explicitly by the user
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDotenvReadFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDotenvReadFailed.Error()), "path", path)
	}
	return env, nil
}
