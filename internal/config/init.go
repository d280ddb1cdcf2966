package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/releaser/internal/foundation/errors"
)

const exampleHeader = `# releaser configuration
#
# Values may reference environment variables as $VAR or ${VAR}; an unset
# variable aborts the release before any step runs. Use ${VAR:-default} for
# optional values. Write $$ for a literal dollar sign, e.g. $$f for a shell
# variable inside an "sh -c" script; $@, $1 and similar are left for the shell.
#
# output.directory is relative to the directory releaser runs in, not to
# build.dir: with build.dir set to pkg, use pkg/dist. The publish tool gets
# absolute artifact paths whenever publish.dir is set.
#
# Publish credentials (e.g. TWINE_PASSWORD) are read by the
# publish tool itself and can live in .env.
`

// Init writes an example configuration file to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext(ferrors.ContextPath, path).
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to inspect config path").
			Fatal().
			WithContext(ferrors.ContextPath, path).
			Build()
	}

	example := Default()
	example.Publish.Env = map[string]string{"TWINE_NON_INTERACTIVE": "1"}

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Fatal().Build()
	}

	if err := os.WriteFile(path, append([]byte(exampleHeader), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			Fatal().
			WithContext(ferrors.ContextPath, path).
			Build()
	}
	return nil
}
