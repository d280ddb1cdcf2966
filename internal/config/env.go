package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/releaser/internal/foundation/errors"
	"git.home.luguber.info/inful/releaser/internal/logfields"
)

// DefaultEnvFiles are loaded, when present, before configuration is resolved.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads KEY=VALUE files into the process environment so the build
// and publish tools inherit them. Later files take precedence over earlier ones
// (.env.local over .env) and variables already set in the process win over
// all files. Missing files are skipped. It returns the files actually loaded,
// in load order.
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	// godotenv never overrides, so the highest-precedence file goes first.
	for i := len(paths) - 1; i >= 0; i-- {
		path := paths[i]
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load env file").
				Fatal().
				WithContext(ferrors.ContextPath, path).
				Build()
		}
		slog.Debug("Loaded environment file", logfields.Path(path))
		loaded = append(loaded, path)
	}
	return loaded, nil
}
